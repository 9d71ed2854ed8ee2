package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

var builtinTypeKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwReg:       true,
	lexer.TokenKwLogic:     true,
	lexer.TokenKwBit:       true,
	lexer.TokenKwByte:      true,
	lexer.TokenKwShortint:  true,
	lexer.TokenKwInt:       true,
	lexer.TokenKwLongint:   true,
	lexer.TokenKwInteger:   true,
	lexer.TokenKwTime:      true,
	lexer.TokenKwReal:      true,
	lexer.TokenKwRealtime:  true,
	lexer.TokenKwShortreal: true,
	lexer.TokenKwString:    true,
	lexer.TokenKwVoid:      true,
	lexer.TokenKwChandle:   true,
	lexer.TokenKwEvent:     true,
}

// tryParseDataType recognizes a data type only when the current token
// clearly starts one: a builtin type keyword, a signing qualifier, or a
// plain identifier immediately followed by another identifier (a
// user-defined type name followed by its declarator). Declaration sites
// that accept an optional type (parameter, port, data, net declarations)
// call this and fall back to "no explicit type" on false, matching the
// grammar's implicit-typing rule.
func (p *Parser) tryParseDataType() (NodeHandle, bool) {
	k := p.peek(0).Kind
	switch {
	case builtinTypeKeywords[k]:
		return p.parseDataType(), true
	case k == lexer.TokenKwSigned || k == lexer.TokenKwUnsigned:
		return p.parseDataType(), true
	case k == lexer.TokenIdentifier && p.peek(1).Kind == lexer.TokenIdentifier:
		return p.parseDataType(), true
	default:
		return NodeHandle{}, false
	}
}

func (p *Parser) parseDataType() NodeHandle {
	var children []syntax.Child
	tok := p.peek(0)
	switch {
	case builtinTypeKeywords[tok.Kind]:
		children = append(children, syntax.TokenChild(p.next()))
	case tok.Kind == lexer.TokenIdentifier:
		children = append(children, syntax.NodeChild(p.parseNameExpr()))
	}
	if p.atAny(lexer.TokenKwSigned, lexer.TokenKwUnsigned) {
		children = append(children, syntax.TokenChild(p.next()))
	}
	for p.at(lexer.TokenLBracket) {
		children = append(children, syntax.NodeChild(p.parsePackedDimension()))
	}
	return p.tree.NewNode(syntax.KindDataType, children...)
}

func (p *Parser) parsePackedDimension() NodeHandle {
	open := p.next()
	msb := p.parseExpression()
	colon := p.expect(lexer.TokenColon, diagnostics.CodeExpectedToken, "':' in packed dimension")
	lsb := p.parseExpression()
	close := p.expect(lexer.TokenRBracket, diagnostics.CodeExpectedToken, "']'")
	return p.tree.NewNode(syntax.KindPackedDimension,
		syntax.TokenChild(open), syntax.NodeChild(msb), syntax.TokenChild(colon), syntax.NodeChild(lsb), syntax.TokenChild(close))
}
