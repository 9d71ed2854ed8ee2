package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

var netTypeKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwWire: true, lexer.TokenKwWand: true, lexer.TokenKwWor: true,
	lexer.TokenKwTri: true, lexer.TokenKwTriand: true, lexer.TokenKwTrior: true,
	lexer.TokenKwTri0: true, lexer.TokenKwTri1: true, lexer.TokenKwTrireg: true,
	lexer.TokenKwSupply0: true, lexer.TokenKwSupply1: true, lexer.TokenKwUwire: true,
}

var alwaysKeywords = map[lexer.TokenKind]bool{
	lexer.TokenKwAlways: true, lexer.TokenKwAlwaysComb: true,
	lexer.TokenKwAlwaysFF: true, lexer.TokenKwAlwaysLatch: true,
}

// memberFollow is the recovery follow-set a malformed module-level item
// resynchronizes on: the end keyword of the enclosing body (recover also
// stops at its hard-sync tokens).
var memberFollow = []lexer.TokenKind{
	lexer.TokenKwEndmodule, lexer.TokenKwEndinterface, lexer.TokenKwEndprogram,
	lexer.TokenKwEndpackage,
}

// parseModuleMember dispatches on the member's leading keyword; SystemVerilog
// module items are almost all keyword-led, so unlike statements or
// expressions this dispatch needs no speculative lookahead.
func (p *Parser) parseModuleMember() NodeHandle {
	switch {
	case p.at(lexer.TokenSemi):
		return p.tree.NewNode(syntax.KindEmptyMember, syntax.TokenChild(p.next()))
	case p.at(lexer.TokenKwTimeunit):
		return p.parseTimeunitDeclaration()
	case p.at(lexer.TokenKwTimeprecision):
		return p.parseTimeprecisionDeclaration()
	case p.atAny(lexer.TokenKwParameter, lexer.TokenKwLocalparam):
		decl := p.parseParameterDecl()
		semi := p.expectSemi()
		return p.tree.NewNode(syntax.KindDataDeclaration, syntax.NodeChild(decl), syntax.TokenChild(semi))
	case p.at(lexer.TokenKwGenvar):
		return p.parseGenvarDeclaration()
	case p.at(lexer.TokenKwNettype):
		return p.parseNettypeDeclaration()
	case p.at(lexer.TokenKwImport):
		return p.parseImportDeclaration()
	case portDirections[p.peek(0).Kind]:
		return p.parsePortDeclaration()
	case p.at(lexer.TokenKwAssign):
		return p.parseContinuousAssign()
	case alwaysKeywords[p.peek(0).Kind]:
		return p.parseAlwaysBlock()
	case p.at(lexer.TokenKwInitial):
		return p.parseInitialOrFinalBlock(syntax.KindInitialBlock)
	case p.at(lexer.TokenKwFinal):
		return p.parseInitialOrFinalBlock(syntax.KindFinalBlock)
	case netTypeKeywords[p.peek(0).Kind]:
		return p.parseNetDeclaration()
	case p.at(lexer.TokenKwModport):
		return p.parseModportDeclaration()
	case p.at(lexer.TokenKwClocking):
		return p.parseClockingDeclaration()
	case p.at(lexer.TokenKwDefault) && p.peek(1).Kind == lexer.TokenKwClocking:
		return p.parseClockingDeclaration()
	case p.at(lexer.TokenKwSequence):
		return p.parseSequenceDeclaration()
	case p.at(lexer.TokenKwProperty):
		return p.parsePropertyDeclaration()
	case p.at(lexer.TokenKwLet):
		return p.parseLetDeclaration()
	default:
		// A bare `identifier identifier` shape is ambiguous between a
		// hierarchical instantiation (`Foo bar(...);`) and a user-defined-type
		// data declaration (`foo_t bar;`); an instantiation is recognized by
		// its unmistakable trailing `(` or leading `#`, so it is tried first.
		if inst, ok := speculate(p, p.tryParseHierarchicalInstantiation); ok {
			return inst
		}
		if dt, ok := p.tryParseDataType(); ok {
			return p.finishDataDeclaration(nil, dt)
		}
		if p.at(lexer.TokenIdentifier) {
			return p.finishDataDeclaration(nil, NodeHandle{})
		}
		tok := p.peek(0)
		diagnostics.ReportError(p.diags, diagnostics.CodeUnexpectedToken, tok.Range,
			"expected a module item").Emit()
		p.recover(memberFollow...)
		return p.tree.NewNode(syntax.KindError)
	}
}

func (p *Parser) parseTimeunitDeclaration() NodeHandle {
	kw := p.next()
	unit := p.expect(lexer.TokenTimeLiteral, diagnostics.CodeExpectedToken, "time literal after 'timeunit'")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(unit)}
	if slash, ok := p.accept(lexer.TokenSlash); ok {
		prec := p.expect(lexer.TokenTimeLiteral, diagnostics.CodeExpectedToken, "precision time literal")
		children = append(children, syntax.TokenChild(slash), syntax.TokenChild(prec))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindTimeunitDeclaration, children...)
}

func (p *Parser) parseTimeprecisionDeclaration() NodeHandle {
	kw := p.next()
	prec := p.expect(lexer.TokenTimeLiteral, diagnostics.CodeExpectedToken, "time literal after 'timeprecision'")
	semi := p.expectSemi()
	return p.tree.NewNode(syntax.KindTimeprecisionDeclaration, syntax.TokenChild(kw), syntax.TokenChild(prec), syntax.TokenChild(semi))
}

func (p *Parser) parseGenvarDeclaration() NodeHandle {
	kw := p.next()
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(p.expectIdentifier("genvar name"))}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.TokenChild(p.expectIdentifier("genvar name")))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindGenvarDeclaration, children...)
}

// parseNettypeDeclaration parses `nettype type name [with function];` (the
// resolution-function clause is recognized but the function reference is
// parsed only as a name, since resolving it to a declared subroutine is
// elaborate's job, not the parser's).
func (p *Parser) parseNettypeDeclaration() NodeHandle {
	kw := p.next()
	dt := p.parseDataType()
	name := p.expectIdentifier("nettype name")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.NodeChild(dt), syntax.TokenChild(name)}
	if with, ok := p.accept(lexer.TokenKwWith); ok {
		fn := p.expectIdentifier("resolution function name")
		children = append(children, syntax.TokenChild(with), syntax.TokenChild(fn))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindNettypeDeclaration, children...)
}

func (p *Parser) parseImportDeclaration() NodeHandle {
	kw := p.next()
	children := []syntax.Child{syntax.TokenChild(kw), syntax.NodeChild(p.parseImportItem())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseImportItem()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindImportDeclaration, children...)
}

// parseImportItem parses `pkg::name` or `pkg::*` (spec's "wildcard/explicit
// import resolution").
func (p *Parser) parseImportItem() NodeHandle {
	pkg := p.expectIdentifier("package name")
	sep := p.expect(lexer.TokenColonColon, diagnostics.CodeExpectedToken, "'::' in import item")
	if star, ok := p.accept(lexer.TokenStar); ok {
		return p.tree.NewNode(syntax.KindImportItem, syntax.TokenChild(pkg), syntax.TokenChild(sep), syntax.TokenChild(star))
	}
	name := p.expectIdentifier("imported name, or '*'")
	return p.tree.NewNode(syntax.KindImportItem, syntax.TokenChild(pkg), syntax.TokenChild(sep), syntax.TokenChild(name))
}

// parsePortDeclaration parses the non-ANSI body form of a port direction
// declaration: `input|output|inout [type] name [dims], ...;`, which fills in
// the direction of a name already listed in the header's non-ANSI port list.
func (p *Parser) parsePortDeclaration() NodeHandle {
	dir := p.next()
	children := []syntax.Child{syntax.TokenChild(dir)}
	if dt, ok := p.tryParseDataType(); ok {
		children = append(children, syntax.NodeChild(dt))
	}
	children = append(children, syntax.NodeChild(p.parseVariableDeclarator()))
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseVariableDeclarator()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindPortDeclaration, children...)
}

// parseContinuousAssign parses `assign lhs = rhs, lhs = rhs, ...;`.
func (p *Parser) parseContinuousAssign() NodeHandle {
	kw := p.next()
	children := []syntax.Child{syntax.TokenChild(kw), syntax.NodeChild(p.parseNetAssignment())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseNetAssignment()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindContinuousAssign, children...)
}

func (p *Parser) parseNetAssignment() NodeHandle {
	lhs := p.parseExpression()
	eq := p.expect(lexer.TokenEqual, diagnostics.CodeExpectedToken, "'=' in continuous assignment")
	rhs := p.parseExpression()
	return p.tree.NewNode(syntax.KindNetAssignment, syntax.NodeChild(lhs), syntax.TokenChild(eq), syntax.NodeChild(rhs))
}

// parseNetDeclaration parses `nettype_kw [type] name [dims] [= init], ...;`
// (spec §4.H: implicit nets are created from a continuous-assign LHS
// instead, so this production is only the explicit declaration form).
func (p *Parser) parseNetDeclaration() NodeHandle {
	kw := p.next()
	children := []syntax.Child{syntax.TokenChild(kw)}
	if dt, ok := p.tryParseDataType(); ok {
		children = append(children, syntax.NodeChild(dt))
	}
	children = append(children, syntax.NodeChild(p.parseNetDeclarator()))
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseNetDeclarator()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindNetDeclaration, children...)
}

func (p *Parser) parseNetDeclarator() NodeHandle {
	name := p.expectIdentifier("net name")
	children := []syntax.Child{syntax.TokenChild(name)}
	for p.at(lexer.TokenLBracket) {
		children = append(children, syntax.NodeChild(p.parsePackedDimension()))
	}
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindNetDeclarator, children...)
}

// finishDataDeclaration parses the declarator-list tail of a data
// declaration once lifetime qualifiers and/or a type have already been
// consumed by the caller (prefix may be nil, dt may be the zero handle when
// the type is implicit).
func (p *Parser) finishDataDeclaration(prefix []syntax.Child, dt NodeHandle) NodeHandle {
	children := append([]syntax.Child{}, prefix...)
	if !dt.IsNil() {
		children = append(children, syntax.NodeChild(dt))
	}
	children = append(children, syntax.NodeChild(p.parseVariableDeclarator()))
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseVariableDeclarator()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindDataDeclaration, children...)
}

func (p *Parser) parseVariableDeclarator() NodeHandle {
	name := p.expectIdentifier("variable name")
	children := []syntax.Child{syntax.TokenChild(name)}
	for p.at(lexer.TokenLBracket) {
		children = append(children, syntax.NodeChild(p.parsePackedDimension()))
	}
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindVariableDeclarator, children...)
}

func (p *Parser) parseAlwaysBlock() NodeHandle {
	kw := p.next()
	body := p.parseStatement()
	return p.tree.NewNode(syntax.KindAlwaysBlock, syntax.TokenChild(kw), syntax.NodeChild(body))
}

func (p *Parser) parseInitialOrFinalBlock(kind syntax.NodeKind) NodeHandle {
	kw := p.next()
	body := p.parseStatement()
	return p.tree.NewNode(kind, syntax.TokenChild(kw), syntax.NodeChild(body))
}
