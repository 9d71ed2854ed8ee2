package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

// parseRandSequenceStatement parses `randsequence(start) production ...
// endsequence` (spec §4.H rand-sequence productions: rule/weight/case
// binding).
func (p *Parser) parseRandSequenceStatement() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'randsequence'")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(open)}
	if name, ok := p.accept(lexer.TokenIdentifier); ok {
		children = append(children, syntax.TokenChild(name))
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	for !p.at(lexer.TokenKwEndsequence) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseRsProduction()))
	}
	end := p.expect(lexer.TokenKwEndsequence, diagnostics.CodeExpectedToken, "'endsequence'")
	children = append(children, syntax.TokenChild(end))
	return p.tree.NewNode(syntax.KindRandSequenceStatement, children...)
}

// parseRsProduction parses `[type] name [(args)] : rule { | rule } ;`.
func (p *Parser) parseRsProduction() NodeHandle {
	var children []syntax.Child
	if !(p.at(lexer.TokenIdentifier) && p.peek(1).Kind == lexer.TokenColon) {
		if dt, ok := p.tryParseDataType(); ok {
			children = append(children, syntax.NodeChild(dt))
		}
	}
	name := p.expectIdentifier("production name")
	children = append(children, syntax.TokenChild(name))
	if open, ok := p.accept(lexer.TokenLParen); ok {
		children = append(children, syntax.TokenChild(open))
		if !p.at(lexer.TokenRParen) {
			children = append(children, syntax.NodeChild(p.parseSeparatedExpressions()))
		}
		close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
		children = append(children, syntax.TokenChild(close))
	}
	colon := p.expect(lexer.TokenColon, diagnostics.CodeExpectedToken, "':' in rand-sequence production")
	children = append(children, syntax.TokenChild(colon), syntax.NodeChild(p.parseRsRule()))
	for {
		bar, ok := p.accept(lexer.TokenPipe)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(bar), syntax.NodeChild(p.parseRsRule()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindRsProduction, children...)
}

// parseRsRule parses a production-item sequence optionally followed by
// `:= weight [code_block]` (the `:=` is two adjacent tokens, TokenColon then
// TokenEqual, since the lexer has no compound token for it).
func (p *Parser) parseRsRule() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parseRsProdItem())}
	for p.isRsProdItemStart() {
		children = append(children, syntax.NodeChild(p.parseRsProdItem()))
	}
	if p.at(lexer.TokenColon) && p.peek(1).Kind == lexer.TokenEqual {
		colon := p.next()
		eq := p.next()
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
		if p.at(lexer.TokenLBrace) {
			children = append(children, syntax.NodeChild(p.parseRsCodeBlock()))
		}
	}
	return p.tree.NewNode(syntax.KindRsRule, children...)
}

func (p *Parser) isRsProdItemStart() bool {
	switch p.peek(0).Kind {
	case lexer.TokenIdentifier, lexer.TokenKwIf, lexer.TokenKwRepeat, lexer.TokenKwCase, lexer.TokenLBrace:
		return true
	default:
		return false
	}
}

func (p *Parser) parseRsProdItem() NodeHandle {
	switch {
	case p.at(lexer.TokenLBrace):
		return p.parseRsCodeBlock()
	case p.at(lexer.TokenKwIf):
		return p.parseRsIfElse()
	case p.at(lexer.TokenKwRepeat):
		return p.parseRsRepeat()
	case p.at(lexer.TokenKwCase):
		return p.parseRsCase()
	default:
		name := p.expectIdentifier("production item")
		children := []syntax.Child{syntax.TokenChild(name)}
		if open, ok := p.accept(lexer.TokenLParen); ok {
			children = append(children, syntax.TokenChild(open))
			if !p.at(lexer.TokenRParen) {
				children = append(children, syntax.NodeChild(p.parseSeparatedExpressions()))
			}
			close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
			children = append(children, syntax.TokenChild(close))
		}
		return p.tree.NewNode(syntax.KindRsProdItem, children...)
	}
}

// parseRsCodeBlock skips a `{ ... }` code block verbatim as skipped-token
// trivia, tracking brace nesting, the same way parseUdpTable skips a UDP
// state table: the block is host-language code, not SystemVerilog grammar.
func (p *Parser) parseRsCodeBlock() NodeHandle {
	open := p.next()
	depth := 1
	for depth > 0 && !p.at(lexer.TokenEOF) {
		if p.at(lexer.TokenLBrace) {
			depth++
			p.skipOne()
			continue
		}
		if p.at(lexer.TokenRBrace) {
			depth--
			if depth == 0 {
				break
			}
			p.skipOne()
			continue
		}
		p.skipOne()
	}
	close := p.expect(lexer.TokenRBrace, diagnostics.CodeExpectedToken, "'}'")
	return p.tree.NewNode(syntax.KindRsCodeBlock, syntax.TokenChild(open), syntax.TokenChild(close))
}

func (p *Parser) parseRsIfElse() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'if'")
	cond := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children := []syntax.Child{
		syntax.TokenChild(kw), syntax.TokenChild(open), syntax.NodeChild(cond),
		syntax.TokenChild(close), syntax.NodeChild(p.parseRsProdItem()),
	}
	if elseKw, ok := p.accept(lexer.TokenKwElse); ok {
		children = append(children, syntax.TokenChild(elseKw), syntax.NodeChild(p.parseRsProdItem()))
	}
	return p.tree.NewNode(syntax.KindRsIfElse, children...)
}

func (p *Parser) parseRsRepeat() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'repeat'")
	count := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	item := p.parseRsProdItem()
	return p.tree.NewNode(syntax.KindRsRepeat, syntax.TokenChild(kw), syntax.TokenChild(open), syntax.NodeChild(count), syntax.TokenChild(close), syntax.NodeChild(item))
}

func (p *Parser) parseRsCase() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'case'")
	sel := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(open), syntax.NodeChild(sel), syntax.TokenChild(close)}
	for !p.at(lexer.TokenKwEndcase) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseRsCaseItem()))
	}
	end := p.expect(lexer.TokenKwEndcase, diagnostics.CodeExpectedToken, "'endcase'")
	children = append(children, syntax.TokenChild(end))
	return p.tree.NewNode(syntax.KindRsCase, children...)
}

func (p *Parser) parseRsCaseItem() NodeHandle {
	var children []syntax.Child
	if def, ok := p.accept(lexer.TokenKwDefault); ok {
		children = append(children, syntax.TokenChild(def))
	} else {
		children = append(children, syntax.NodeChild(p.parseSeparatedExpressions()))
	}
	colon := p.expect(lexer.TokenColon, diagnostics.CodeExpectedToken, "':' in case item")
	children = append(children, syntax.TokenChild(colon), syntax.NodeChild(p.parseRsProdItem()))
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindRsCaseItem, children...)
}
