package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/preprocessor"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// binOp describes a binary operator's precedence level and associativity,
// grounded on surge's parseBinaryExpr climbing-precedence loop, generalized
// here to the full SystemVerilog operator table (spec §4.F).
type binOp struct {
	prec       int
	rightAssoc bool
}

// condPrec is the conditional operator's precedence, one level below the
// weakest binary operator (logical or).
const condPrec = 1

var binaryPrec = map[lexer.TokenKind]binOp{
	lexer.TokenStarStar: {12, true},

	lexer.TokenStar:    {11, false},
	lexer.TokenSlash:   {11, false},
	lexer.TokenPercent: {11, false},

	lexer.TokenPlus:  {10, false},
	lexer.TokenMinus: {10, false},

	lexer.TokenLessLess:               {9, false},
	lexer.TokenGreaterGreater:         {9, false},
	lexer.TokenLessLessLess:           {9, false},
	lexer.TokenGreaterGreaterGreater:  {9, false},

	lexer.TokenLess:         {8, false},
	lexer.TokenLessEqual:    {8, false},
	lexer.TokenGreater:      {8, false},
	lexer.TokenGreaterEqual: {8, false},

	lexer.TokenEqualEqual:         {7, false},
	lexer.TokenBangEqual:          {7, false},
	lexer.TokenEqualEqualEqual:    {7, false},
	lexer.TokenBangEqualEqual:     {7, false},
	lexer.TokenEqualEqualQuestion: {7, false},
	lexer.TokenBangEqualQuestion:  {7, false},

	lexer.TokenAmp: {6, false},

	lexer.TokenCaret:      {5, false},
	lexer.TokenTildeCaret: {5, false},
	lexer.TokenCaretTilde: {5, false},

	lexer.TokenPipe: {4, false},

	lexer.TokenAmpAmp: {3, false},

	lexer.TokenPipePipe: {2, false},
}

var unaryOps = map[lexer.TokenKind]bool{
	lexer.TokenPlus:      true,
	lexer.TokenMinus:     true,
	lexer.TokenBang:      true,
	lexer.TokenTilde:     true,
	lexer.TokenAmp:       true,
	lexer.TokenTildeAmp:  true,
	lexer.TokenPipe:      true,
	lexer.TokenTildePipe: true,
	lexer.TokenCaret:     true,
	lexer.TokenTildeCaret: true,
	lexer.TokenCaretTilde: true,
	lexer.TokenPlusPlus:  true,
	lexer.TokenMinusMinus: true,
}

// castTypeKeywords are the simple type keywords that can prefix a `'('
// casting expression (spec §4.F disambiguation: "cast-vs-paren-expr").
var castTypeKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwInt:       true,
	lexer.TokenKwBit:       true,
	lexer.TokenKwLogic:     true,
	lexer.TokenKwByte:      true,
	lexer.TokenKwShortint:  true,
	lexer.TokenKwLongint:   true,
	lexer.TokenKwInteger:   true,
	lexer.TokenKwReal:      true,
	lexer.TokenKwShortreal: true,
	lexer.TokenKwRealtime:  true,
	lexer.TokenKwTime:      true,
	lexer.TokenKwSigned:    true,
	lexer.TokenKwUnsigned:  true,
	lexer.TokenKwString:    true,
	lexer.TokenKwConst:     true,
}

var literalKinds = map[lexer.TokenKind]bool{
	lexer.TokenIntLiteral:            true,
	lexer.TokenBasedIntLiteral:       true,
	lexer.TokenUnbasedUnsizedLiteral: true,
	lexer.TokenRealLiteral:           true,
	lexer.TokenTimeLiteral:           true,
	lexer.TokenStringLiteral:         true,
}

// ParseExpression is the parser's expression entry point, setting the
// resulting subtree as the arena's root for callers that only want to parse
// a bare expression (e.g. ParseGuess probing, or tests).
func (p *Parser) ParseExpression() NodeHandle {
	root := p.parseExpression()
	p.tree.SetRoot(root)
	return root
}

func (p *Parser) parseExpression() NodeHandle {
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr implements precedence-climbing (grounded on surge's
// parseBinaryExpr): it parses a unary expression, then repeatedly consumes
// any binary operator whose precedence is at least minPrec, recursing with
// minPrec raised by one (or held level for a right-associative operator).
// The conditional operator `?:` is handled as a final, lowest-precedence
// check since it is not part of the left-recursive binary chain.
func (p *Parser) parseBinaryExpr(minPrec int) NodeHandle {
	left := p.parseUnaryExpr()
	for {
		op := p.peek(0).Kind
		info, ok := binaryPrec[op]
		if !ok || info.prec < minPrec {
			break
		}
		opTok := p.next()
		nextMin := info.prec + 1
		if info.rightAssoc {
			nextMin = info.prec
		}
		right := p.parseBinaryExpr(nextMin)
		left = p.tree.NewNode(syntax.KindBinaryExpression,
			syntax.NodeChild(left), syntax.TokenChild(opTok), syntax.NodeChild(right))
	}
	if minPrec <= condPrec && p.at(lexer.TokenQuestion) {
		left = p.parseConditional(left)
	}
	return left
}

// parseConditional parses the `cond ? then : else` tail; the then/else
// branches recurse at condPrec so a chain of conditionals nests to the
// right, matching the operator's right-associativity.
func (p *Parser) parseConditional(cond NodeHandle) NodeHandle {
	question := p.next()
	then := p.parseBinaryExpr(condPrec)
	colon := p.expect(lexer.TokenColon, diagnostics.CodeExpectedToken, "':' in conditional expression")
	elseExpr := p.parseBinaryExpr(condPrec)
	return p.tree.NewNode(syntax.KindConditionalExpression,
		syntax.NodeChild(cond), syntax.TokenChild(question),
		syntax.NodeChild(then), syntax.TokenChild(colon), syntax.NodeChild(elseExpr))
}

func (p *Parser) parseUnaryExpr() NodeHandle {
	if unaryOps[p.peek(0).Kind] {
		opTok := p.next()
		operand := p.parseUnaryExpr()
		return p.tree.NewNode(syntax.KindUnaryExpression, syntax.TokenChild(opTok), syntax.NodeChild(operand))
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() NodeHandle {
	expr := p.parsePrimaryExpr()
	for {
		switch p.peek(0).Kind {
		case lexer.TokenLBracket:
			expr = p.parseSelect(expr)
		case lexer.TokenDot:
			dot := p.next()
			name := p.expectIdentifier("member name after '.'")
			expr = p.tree.NewNode(syntax.KindMemberAccessExpression,
				syntax.NodeChild(expr), syntax.TokenChild(dot), syntax.TokenChild(name))
		case lexer.TokenLParen:
			expr = p.parseCall(expr)
		case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
			opTok := p.next()
			expr = p.tree.NewNode(syntax.KindUnaryExpression, syntax.NodeChild(expr), syntax.TokenChild(opTok))
		default:
			return expr
		}
	}
}

// parseSelect parses `expr[i]`, `expr[msb:lsb]`, or `expr[base+:width]` /
// `expr[base-:width]` (spec §3's element- vs range-select productions).
func (p *Parser) parseSelect(expr NodeHandle) NodeHandle {
	open := p.next()
	first := p.parseExpression()
	switch p.peek(0).Kind {
	case lexer.TokenColon, lexer.TokenPlusColon, lexer.TokenMinusColon:
		sep := p.next()
		second := p.parseExpression()
		close := p.expect(lexer.TokenRBracket, diagnostics.CodeExpectedToken, "']'")
		return p.tree.NewNode(syntax.KindRangeSelectExpression,
			syntax.NodeChild(expr), syntax.TokenChild(open), syntax.NodeChild(first),
			syntax.TokenChild(sep), syntax.NodeChild(second), syntax.TokenChild(close))
	default:
		close := p.expect(lexer.TokenRBracket, diagnostics.CodeExpectedToken, "']'")
		return p.tree.NewNode(syntax.KindElementSelectExpression,
			syntax.NodeChild(expr), syntax.TokenChild(open), syntax.NodeChild(first), syntax.TokenChild(close))
	}
}

func (p *Parser) parseCall(callee NodeHandle) NodeHandle {
	open := p.next()
	children := []syntax.Child{syntax.NodeChild(callee), syntax.TokenChild(open)}
	if !p.at(lexer.TokenRParen) {
		children = append(children, syntax.NodeChild(p.parseSeparatedExpressions()))
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindCallExpression, children...)
}

func (p *Parser) parseSeparatedExpressions() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parseExpression())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindSeparatedList, children...)
}

// looksLikeCastPrefix reports whether the cursor sits at a casting_type
// immediately followed by the apostrophe that introduces a `'(expr)` cast
// (spec §4.F disambiguation). A size cast like `4'(x)` is distinguished from
// a based literal like `4'hFF` because the lexer only folds the apostrophe
// into a single BasedIntLiteral token when a valid base character follows
// it; `4'(` lexes as IntLiteral, Apostrophe, LParen.
func (p *Parser) looksLikeCastPrefix() bool {
	k := p.peek(0).Kind
	if castTypeKeywords[k] {
		return p.peek(1).Kind == lexer.TokenApostrophe
	}
	if k == lexer.TokenIntLiteral {
		return p.peek(1).Kind == lexer.TokenApostrophe
	}
	return false
}

func (p *Parser) parseCastPrefix() NodeHandle {
	typeTok := p.next()
	typeNode := p.tree.NewNode(syntax.KindIdentifierName, syntax.TokenChild(typeTok))
	tick := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after cast")
	inner := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	return p.tree.NewNode(syntax.KindCastExpression,
		syntax.NodeChild(typeNode), syntax.TokenChild(tick), syntax.TokenChild(open),
		syntax.NodeChild(inner), syntax.TokenChild(close))
}

func (p *Parser) parsePrimaryExpr() NodeHandle {
	if p.looksLikeCastPrefix() {
		return p.parseCastPrefix()
	}
	tok := p.peek(0)
	switch {
	case tok.Kind == lexer.TokenIdentifier || tok.Kind == lexer.TokenEscapedIdentifier || tok.Kind == lexer.TokenSystemIdentifier:
		return p.parseNameExpr()
	case literalKinds[tok.Kind]:
		return p.tree.NewNode(syntax.KindLiteralExpression, syntax.TokenChild(p.next()))
	case tok.Kind == lexer.TokenLParen:
		return p.parseParenExpr()
	case tok.Kind == lexer.TokenLBraceTick:
		return p.parseAssignmentPattern()
	case tok.Kind == lexer.TokenLBrace:
		return p.parseBraceExpr()
	default:
		loc := tok.Range.Start
		diagnostics.ReportError(p.diags, diagnostics.CodeExpectedExpression,
			text.Range{Start: loc, End: loc}, "expected expression").Emit()
		return p.tree.NewNode(syntax.KindError, syntax.TokenChild(p.synthesize(lexer.TokenIdentifier)))
	}
}

func (p *Parser) parseParenExpr() NodeHandle {
	open := p.next()
	inner := p.parseExpression()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	return p.tree.NewNode(syntax.KindParenthesizedExpression,
		syntax.TokenChild(open), syntax.NodeChild(inner), syntax.TokenChild(close))
}

// parseNameExpr parses an identifier, folding any trailing `::name` scope
// resolution chain into nested ScopedName nodes.
func (p *Parser) parseNameExpr() NodeHandle {
	first := p.next()
	expr := p.tree.NewNode(syntax.KindIdentifierName, syntax.TokenChild(first))
	for p.at(lexer.TokenColonColon) {
		sep := p.next()
		name := p.expectIdentifier("identifier after '::'")
		expr = p.tree.NewNode(syntax.KindScopedName, syntax.NodeChild(expr), syntax.TokenChild(sep), syntax.TokenChild(name))
	}
	return expr
}

// parseBraceExpr parses a brace-delimited expression: either a plain
// concatenation `{a, b, c}` or, when the first element is itself followed
// by another `{`, a replication `{count {a, b, c}}` (spec §4.F: "climbing
// precedence loop... concatenation, and replication").
func (p *Parser) parseBraceExpr() NodeHandle {
	open := p.next()
	first := p.parseExpression()
	if p.at(lexer.TokenLBrace) {
		inner := p.parseConcatGroup()
		close := p.expect(lexer.TokenRBrace, diagnostics.CodeExpectedToken, "'}'")
		return p.tree.NewNode(syntax.KindReplicationExpression,
			syntax.TokenChild(open), syntax.NodeChild(first), syntax.NodeChild(inner), syntax.TokenChild(close))
	}
	return p.finishConcat(open, first)
}

// parseConcatGroup parses a full `{ expr, expr, ... }` group; shared by a
// top-level concatenation and the element list braced inside a replication.
func (p *Parser) parseConcatGroup() NodeHandle {
	open := p.expect(lexer.TokenLBrace, diagnostics.CodeExpectedToken, "'{'")
	first := p.parseExpression()
	return p.finishConcat(open, first)
}

func (p *Parser) finishConcat(open preprocessor.Token, first NodeHandle) NodeHandle {
	children := []syntax.Child{syntax.NodeChild(first)}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseExpression()))
	}
	list := p.tree.NewNode(syntax.KindSeparatedList, children...)
	close := p.expect(lexer.TokenRBrace, diagnostics.CodeExpectedToken, "'}'")
	return p.tree.NewNode(syntax.KindConcatenationExpression, syntax.TokenChild(open), syntax.NodeChild(list), syntax.TokenChild(close))
}

// parseAssignmentPattern parses a `'{...}` assignment pattern literal.
func (p *Parser) parseAssignmentPattern() NodeHandle {
	open := p.next()
	children := []syntax.Child{syntax.TokenChild(open)}
	if !p.at(lexer.TokenRBrace) {
		children = append(children, syntax.NodeChild(p.parseExpression()))
		for {
			comma, ok := p.accept(lexer.TokenComma)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseExpression()))
		}
	}
	close := p.expect(lexer.TokenRBrace, diagnostics.CodeExpectedToken, "'}'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindAssignmentPatternExpression, children...)
}
