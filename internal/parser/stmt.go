package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/preprocessor"
	"github.com/VeriOpen/slang/internal/syntax"
)

var assignOps = map[lexer.TokenKind]bool{
	lexer.TokenEqual:                   true,
	lexer.TokenPlusEqual:               true,
	lexer.TokenMinusEqual:              true,
	lexer.TokenStarEqual:               true,
	lexer.TokenSlashEqual:              true,
	lexer.TokenPercentEqual:            true,
	lexer.TokenAmpEqual:                true,
	lexer.TokenPipeEqual:               true,
	lexer.TokenCaretEqual:              true,
	lexer.TokenLessLessEqual:           true,
	lexer.TokenLessLessLessEqual:       true,
	lexer.TokenGreaterGreaterEqual:     true,
	lexer.TokenGreaterGreaterGreaterEqual: true,
}

var caseKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwCase: true, lexer.TokenKwCasex: true, lexer.TokenKwCasez: true,
}

// ParseStatement is the parser's statement entry point, for callers that
// parse a bare statement in isolation (tests, ParseGuess probing).
func (p *Parser) ParseStatement() NodeHandle {
	stmt := p.parseStatement()
	p.tree.SetRoot(stmt)
	return stmt
}

func (p *Parser) parseStatement() NodeHandle {
	switch {
	case p.at(lexer.TokenKwBegin):
		return p.parseBlockStatement()
	case p.at(lexer.TokenKwIf):
		return p.parseIfStatement()
	case caseKeywords[p.peek(0).Kind]:
		return p.parseCaseStatement()
	case p.at(lexer.TokenKwFor):
		return p.parseForStatement()
	case p.at(lexer.TokenKwWhile):
		return p.parseWhileStatement()
	case p.at(lexer.TokenKwForever):
		return p.parseForeverStatement()
	case p.at(lexer.TokenAt):
		return p.parseTimingControlStatement(p.parseEventControl())
	case p.at(lexer.TokenHash):
		return p.parseTimingControlStatement(p.parseDelayControl())
	case p.at(lexer.TokenKwRandsequence):
		return p.parseRandSequenceStatement()
	default:
		if decl, ok := speculate(p, p.tryParseLocalDataDecl); ok {
			return decl
		}
		return p.parseAssignmentOrExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() NodeHandle {
	begin := p.next()
	children := []syntax.Child{syntax.TokenChild(begin)}
	if colon, ok := p.accept(lexer.TokenColon); ok {
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(p.expectIdentifier("block name")))
	}
	for !p.at(lexer.TokenKwEnd) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseStatement()))
	}
	end := p.expect(lexer.TokenKwEnd, diagnostics.CodeExpectedToken, "'end'")
	children = append(children, syntax.TokenChild(end))
	if colon, ok := p.accept(lexer.TokenColon); ok {
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(p.expectIdentifier("block name")))
	}
	return p.tree.NewNode(syntax.KindBlockStatement, children...)
}

func (p *Parser) parseIfStatement() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'if'")
	cond := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	then := p.parseStatement()
	children := []syntax.Child{
		syntax.TokenChild(kw), syntax.TokenChild(open), syntax.NodeChild(cond),
		syntax.TokenChild(close), syntax.NodeChild(then),
	}
	if elseKw, ok := p.accept(lexer.TokenKwElse); ok {
		children = append(children, syntax.TokenChild(elseKw), syntax.NodeChild(p.parseStatement()))
	}
	return p.tree.NewNode(syntax.KindIfStatement, children...)
}

func (p *Parser) parseCaseStatement() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after case keyword")
	selector := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children := []syntax.Child{
		syntax.TokenChild(kw), syntax.TokenChild(open), syntax.NodeChild(selector), syntax.TokenChild(close),
	}
	for !p.at(lexer.TokenKwEndcase) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseCaseItem()))
	}
	end := p.expect(lexer.TokenKwEndcase, diagnostics.CodeExpectedToken, "'endcase'")
	children = append(children, syntax.TokenChild(end))
	return p.tree.NewNode(syntax.KindCaseStatement, children...)
}

func (p *Parser) parseCaseItem() NodeHandle {
	var children []syntax.Child
	if kw, ok := p.accept(lexer.TokenKwDefault); ok {
		children = append(children, syntax.TokenChild(kw))
	} else {
		children = append(children, syntax.NodeChild(p.parseExpression()))
		for {
			comma, ok := p.accept(lexer.TokenComma)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseExpression()))
		}
	}
	colon := p.expect(lexer.TokenColon, diagnostics.CodeExpectedToken, "':' in case item")
	children = append(children, syntax.TokenChild(colon), syntax.NodeChild(p.parseStatement()))
	return p.tree.NewNode(syntax.KindCaseItem, children...)
}

func (p *Parser) parseForStatement() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'for'")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(open)}
	if init, ok := speculate(p, p.tryParseLocalDataDecl); ok {
		children = append(children, syntax.NodeChild(init))
	} else if !p.at(lexer.TokenSemi) {
		children = append(children, syntax.NodeChild(p.parseAssignmentExprListItem()))
		semi := p.expectSemi()
		children = append(children, syntax.TokenChild(semi))
	} else {
		children = append(children, syntax.TokenChild(p.expectSemi()))
	}
	cond := p.parseExpression()
	semi2 := p.expectSemi()
	children = append(children, syntax.NodeChild(cond), syntax.TokenChild(semi2))
	if !p.at(lexer.TokenRParen) {
		children = append(children, syntax.NodeChild(p.parseAssignmentExprListItem()))
		for {
			comma, ok := p.accept(lexer.TokenComma)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseAssignmentExprListItem()))
		}
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close), syntax.NodeChild(p.parseStatement()))
	return p.tree.NewNode(syntax.KindForStatement, children...)
}

// parseAssignmentExprListItem parses one `lhs op= rhs` step/init item
// without a trailing semicolon, for use inside a for-loop's header.
func (p *Parser) parseAssignmentExprListItem() NodeHandle {
	lhs := p.parseExpression()
	if assignOps[p.peek(0).Kind] {
		op := p.next()
		rhs := p.parseExpression()
		return p.tree.NewNode(syntax.KindAssignmentStatement, syntax.NodeChild(lhs), syntax.TokenChild(op), syntax.NodeChild(rhs))
	}
	return p.tree.NewNode(syntax.KindExpressionStatement, syntax.NodeChild(lhs))
}

func (p *Parser) parseWhileStatement() NodeHandle {
	kw := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after 'while'")
	cond := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	body := p.parseStatement()
	return p.tree.NewNode(syntax.KindWhileStatement,
		syntax.TokenChild(kw), syntax.TokenChild(open), syntax.NodeChild(cond), syntax.TokenChild(close), syntax.NodeChild(body))
}

func (p *Parser) parseForeverStatement() NodeHandle {
	kw := p.next()
	body := p.parseStatement()
	return p.tree.NewNode(syntax.KindForeverStatement, syntax.TokenChild(kw), syntax.NodeChild(body))
}

// parseEventControl parses `@(expr or expr, ...)`, `@identifier`, or
// `@*`/`@(*)`.
func (p *Parser) parseEventControl() NodeHandle {
	at := p.next()
	if star, ok := p.accept(lexer.TokenStar); ok {
		return p.tree.NewNode(syntax.KindEventControl, syntax.TokenChild(at), syntax.TokenChild(star))
	}
	open, ok := p.accept(lexer.TokenLParen)
	if !ok {
		name := p.tree.NewNode(syntax.KindIdentifierName, syntax.TokenChild(p.expectIdentifier("event name after '@'")))
		return p.tree.NewNode(syntax.KindEventControl, syntax.TokenChild(at), syntax.NodeChild(name))
	}
	children := []syntax.Child{syntax.TokenChild(at), syntax.TokenChild(open)}
	if star, ok := p.accept(lexer.TokenStar); ok {
		children = append(children, syntax.TokenChild(star))
	} else {
		children = append(children, syntax.NodeChild(p.parseEventExpression()))
		for {
			sep, ok := p.acceptAny(lexer.TokenComma, lexer.TokenKwOr)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(sep), syntax.NodeChild(p.parseEventExpression()))
		}
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindEventControl, children...)
}

func (p *Parser) parseEventExpression() NodeHandle {
	var edge *preprocessor.Token
	if p.atAny(lexer.TokenKwPosedge, lexer.TokenKwNegedge, lexer.TokenKwEdge) {
		tok := p.next()
		edge = &tok
	}
	expr := p.parseExpression()
	if edge != nil {
		return p.tree.NewNode(syntax.KindEventExpression, syntax.TokenChild(*edge), syntax.NodeChild(expr))
	}
	return p.tree.NewNode(syntax.KindEventExpression, syntax.NodeChild(expr))
}

func (p *Parser) parseDelayControl() NodeHandle {
	hash := p.next()
	if open, ok := p.accept(lexer.TokenLParen); ok {
		inner := p.parseExpression()
		close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
		return p.tree.NewNode(syntax.KindEventControl, syntax.TokenChild(hash), syntax.TokenChild(open), syntax.NodeChild(inner), syntax.TokenChild(close))
	}
	value := p.tree.NewNode(syntax.KindLiteralExpression, syntax.TokenChild(p.next()))
	return p.tree.NewNode(syntax.KindEventControl, syntax.TokenChild(hash), syntax.NodeChild(value))
}

func (p *Parser) parseTimingControlStatement(control NodeHandle) NodeHandle {
	stmt := p.parseStatement()
	return p.tree.NewNode(syntax.KindTimingControlStatement, syntax.NodeChild(control), syntax.NodeChild(stmt))
}

func (p *Parser) parseAssignmentOrExpressionStatement() NodeHandle {
	lhs := p.parseExpression()
	if assignOps[p.peek(0).Kind] {
		op := p.next()
		rhs := p.parseExpression()
		semi := p.expectSemi()
		return p.tree.NewNode(syntax.KindAssignmentStatement,
			syntax.NodeChild(lhs), syntax.TokenChild(op), syntax.NodeChild(rhs), syntax.TokenChild(semi))
	}
	semi := p.expectSemi()
	return p.tree.NewNode(syntax.KindExpressionStatement, syntax.NodeChild(lhs), syntax.TokenChild(semi))
}

// acceptAny consumes and returns the next token if its kind is any of kinds.
func (p *Parser) acceptAny(kinds ...lexer.TokenKind) (preprocessor.Token, bool) {
	for _, k := range kinds {
		if p.at(k) {
			return p.next(), true
		}
	}
	return preprocessor.Token{}, false
}

// tryParseLocalDataDecl attempts to parse a local variable declaration
// statement without committing to any diagnostics; used under speculate so
// the "data-decl-vs-stmt-expr" ambiguity (spec §4.F) can be resolved by
// trying the declaration shape first and falling back to an
// assignment/expression statement on any mismatch.
func (p *Parser) tryParseLocalDataDecl() (NodeHandle, bool) {
	dt, ok := p.tryParseDataType()
	if !ok {
		return NodeHandle{}, false
	}
	first, ok := p.tryParseVariableDeclaratorNoExpect()
	if !ok {
		return NodeHandle{}, false
	}
	children := []syntax.Child{syntax.NodeChild(dt), syntax.NodeChild(first)}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		d, ok := p.tryParseVariableDeclaratorNoExpect()
		if !ok {
			return NodeHandle{}, false
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(d))
	}
	semi, ok := p.accept(lexer.TokenSemi)
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindDataDeclaration, children...), true
}

func (p *Parser) tryParseVariableDeclaratorNoExpect() (NodeHandle, bool) {
	name, ok := p.accept(lexer.TokenIdentifier)
	if !ok {
		return NodeHandle{}, false
	}
	children := []syntax.Child{syntax.TokenChild(name)}
	for p.at(lexer.TokenLBracket) {
		children = append(children, syntax.NodeChild(p.parsePackedDimension()))
	}
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindVariableDeclarator, children...), true
}
