package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

// headerFollow is the follow-set recover stops at while hunting for the
// next top-level definition after a malformed one.
var headerFollow = []lexer.TokenKind{
	lexer.TokenKwModule, lexer.TokenKwInterface, lexer.TokenKwProgram,
	lexer.TokenKwPackage, lexer.TokenKwPrimitive, lexer.TokenKwEndmodule,
}

// ParseCompilationUnit parses a whole source file: a list of top-level
// definitions (modules, interfaces, programs, packages, primitives), each
// recovering independently on malformed input (spec §4.F: "per-production
// follow-set recovery").
func (p *Parser) ParseCompilationUnit() NodeHandle {
	var children []syntax.Child
	for !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseTopLevelDefinition()))
	}
	root := p.tree.NewNode(syntax.KindCompilationUnit, children...)
	p.tree.SetRoot(root)
	return root
}

func (p *Parser) parseTopLevelDefinition() NodeHandle {
	switch p.peek(0).Kind {
	case lexer.TokenKwModule:
		return p.parseModuleLikeDeclaration(syntax.KindModuleDeclaration, lexer.TokenKwEndmodule)
	case lexer.TokenKwInterface:
		return p.parseModuleLikeDeclaration(syntax.KindInterfaceDeclaration, lexer.TokenKwEndinterface)
	case lexer.TokenKwProgram:
		return p.parseModuleLikeDeclaration(syntax.KindProgramDeclaration, lexer.TokenKwEndprogram)
	case lexer.TokenKwPackage:
		return p.parsePackageDeclaration()
	case lexer.TokenKwPrimitive:
		return p.parseUdpDeclaration()
	default:
		tok := p.peek(0)
		diagnostics.ReportError(p.diags, diagnostics.CodeUnexpectedToken, tok.Range,
			"expected a module, interface, program, package, or primitive declaration").Emit()
		p.recover(headerFollow...)
		return p.tree.NewNode(syntax.KindError)
	}
}

// parseModuleLikeDeclaration parses the shared shape of module, interface,
// and program declarations: a header line, a member list, and a matching
// end keyword, optionally followed by `: name`.
func (p *Parser) parseModuleLikeDeclaration(kind syntax.NodeKind, endKw lexer.TokenKind) NodeHandle {
	header := p.parseModuleHeader()
	var members []syntax.Child
	for !p.at(endKw) && !p.at(lexer.TokenEOF) {
		members = append(members, syntax.NodeChild(p.parseModuleMember()))
	}
	end := p.expect(endKw, diagnostics.CodeExpectedToken, "matching end keyword")
	children := []syntax.Child{syntax.NodeChild(header)}
	children = append(children, members...)
	children = append(children, syntax.TokenChild(end))
	if p.at(lexer.TokenColon) {
		colon := p.next()
		name := p.expectIdentifier("name after ':'")
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(name))
	}
	return p.tree.NewNode(kind, children...)
}

// parseModuleHeader parses `module|interface|program name #(params)? (ports)? ;`.
func (p *Parser) parseModuleHeader() NodeHandle {
	kw := p.next()
	name := p.expectIdentifier("module, interface, or program name")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(name)}

	if p.at(lexer.TokenHash) {
		children = append(children, syntax.NodeChild(p.parseParameterPortList()))
	}
	if p.at(lexer.TokenLParen) {
		children = append(children, syntax.NodeChild(p.parsePortList()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindModuleHeader, children...)
}

func (p *Parser) parseParameterPortList() NodeHandle {
	hash := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after '#'")
	children := []syntax.Child{syntax.TokenChild(hash), syntax.TokenChild(open)}
	if !p.at(lexer.TokenRParen) {
		children = append(children, syntax.NodeChild(p.parseParameterDeclList()))
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindParameterPortList, children...)
}

func (p *Parser) parseParameterDeclList() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parseParameterDecl())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseParameterDecl()))
	}
	return p.tree.NewNode(syntax.KindSeparatedList, children...)
}

// parseParameterDecl parses one `parameter|localparam [type] name = expr`
// item, used both in a parameter port list and as a module-body member.
func (p *Parser) parseParameterDecl() NodeHandle {
	var children []syntax.Child
	if p.atAny(lexer.TokenKwParameter, lexer.TokenKwLocalparam) {
		children = append(children, syntax.TokenChild(p.next()))
	}
	if dt, ok := p.tryParseDataType(); ok {
		children = append(children, syntax.NodeChild(dt))
	}
	name := p.expectIdentifier("parameter name")
	children = append(children, syntax.TokenChild(name))
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindParameterDecl, children...)
}

// parsePortList dispatches to an ANSI or non-ANSI port list by speculatively
// trying the ANSI form first (spec §4.F disambiguation style: try the
// richer production, fall back on failure).
func (p *Parser) parsePortList() NodeHandle {
	if ansi, ok := speculate(p, p.tryParseAnsiPortList); ok {
		return ansi
	}
	return p.parseNonAnsiPortList()
}

var portDirections = map[lexer.TokenKind]bool{
	lexer.TokenKwInput: true, lexer.TokenKwOutput: true, lexer.TokenKwInout: true,
	lexer.TokenKwRef: true,
}

// tryParseAnsiPortList parses `(dir type? name (= default)?, ...)`; fails
// (returning ok=false) if any port lacks an explicit direction, since that
// is the non-ANSI form's job instead.
func (p *Parser) tryParseAnsiPortList() (NodeHandle, bool) {
	open, ok := p.accept(lexer.TokenLParen)
	if !ok {
		return NodeHandle{}, false
	}
	children := []syntax.Child{syntax.TokenChild(open)}
	if !p.at(lexer.TokenRParen) {
		for {
			port, ok := p.tryParseAnsiPort()
			if !ok {
				return NodeHandle{}, false
			}
			children = append(children, syntax.NodeChild(port))
			comma, ok := p.accept(lexer.TokenComma)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(comma))
		}
	}
	close, ok := p.accept(lexer.TokenRParen)
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindAnsiPortList, children...), true
}

func (p *Parser) tryParseAnsiPort() (NodeHandle, bool) {
	if !portDirections[p.peek(0).Kind] {
		return NodeHandle{}, false
	}
	dir := p.next()
	children := []syntax.Child{syntax.TokenChild(dir)}
	if dt, ok := p.tryParseDataType(); ok {
		children = append(children, syntax.NodeChild(dt))
	}
	name, ok := p.accept(lexer.TokenIdentifier)
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.TokenChild(name))
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindAnsiPort, children...), true
}

// parseNonAnsiPortList parses `(name, name, ...)`, the legacy form whose
// directions are filled in by separate input/output/inout declarations in
// the module body.
func (p *Parser) parseNonAnsiPortList() NodeHandle {
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' starting port list")
	children := []syntax.Child{syntax.TokenChild(open)}
	if !p.at(lexer.TokenRParen) {
		for {
			name := p.expectIdentifier("port name")
			children = append(children, syntax.NodeChild(p.tree.NewNode(syntax.KindNonAnsiPort, syntax.TokenChild(name))))
			comma, ok := p.accept(lexer.TokenComma)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(comma))
		}
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindNonAnsiPortList, children...)
}

func (p *Parser) parsePackageDeclaration() NodeHandle {
	kw := p.next()
	name := p.expectIdentifier("package name")
	semi := p.expectSemi()
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(name), syntax.TokenChild(semi)}
	for !p.at(lexer.TokenKwEndpackage) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseModuleMember()))
	}
	end := p.expect(lexer.TokenKwEndpackage, diagnostics.CodeExpectedToken, "'endpackage'")
	children = append(children, syntax.TokenChild(end))
	return p.tree.NewNode(syntax.KindPackageDeclaration, children...)
}

// parseUdpDeclaration parses a user-defined primitive: header, ANSI or
// wildcard port list, output/input/reg declarations (non-ANSI form), an
// opaque `table ... endtable`, and an optional `initial` statement.
func (p *Parser) parseUdpDeclaration() NodeHandle {
	kw := p.next()
	name := p.expectIdentifier("primitive name")
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after primitive name")
	ports := p.parseUdpPortList()
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	semi := p.expectSemi()
	children := []syntax.Child{
		syntax.TokenChild(kw), syntax.TokenChild(name), syntax.TokenChild(open),
		syntax.NodeChild(ports), syntax.TokenChild(close), syntax.TokenChild(semi),
	}
	for !p.at(lexer.TokenKwTable) && !p.at(lexer.TokenKwEndprimitive) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseUdpBodyItem()))
	}
	if p.at(lexer.TokenKwTable) {
		children = append(children, syntax.NodeChild(p.parseUdpTable()))
	}
	end := p.expect(lexer.TokenKwEndprimitive, diagnostics.CodeExpectedToken, "'endprimitive'")
	children = append(children, syntax.TokenChild(end))
	return p.tree.NewNode(syntax.KindUdpDeclaration, children...)
}

func (p *Parser) parseUdpPortList() NodeHandle {
	if p.at(lexer.TokenDotStar) {
		star := p.next()
		return p.tree.NewNode(syntax.KindUdpWildcardPortList, syntax.TokenChild(star))
	}
	children := []syntax.Child{syntax.NodeChild(p.tree.NewNode(syntax.KindIdentifierName, syntax.TokenChild(p.expectIdentifier("port name"))))}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		name := p.expectIdentifier("port name")
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.tree.NewNode(syntax.KindIdentifierName, syntax.TokenChild(name))))
	}
	return p.tree.NewNode(syntax.KindUdpPortList, children...)
}

// parseUdpBodyItem parses one of a UDP's non-ANSI output/input/reg
// declarations or its `initial` statement (spec §4.H: "exactly one output
// port declared first determines combinational vs sequential").
func (p *Parser) parseUdpBodyItem() NodeHandle {
	switch p.peek(0).Kind {
	case lexer.TokenKwOutput:
		kw := p.next()
		name := p.expectIdentifier("output port name")
		semi := p.expectSemi()
		return p.tree.NewNode(syntax.KindUdpOutputDecl, syntax.TokenChild(kw), syntax.TokenChild(name), syntax.TokenChild(semi))
	case lexer.TokenKwInput:
		kw := p.next()
		children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(p.expectIdentifier("input port name"))}
		for {
			comma, ok := p.accept(lexer.TokenComma)
			if !ok {
				break
			}
			children = append(children, syntax.TokenChild(comma), syntax.TokenChild(p.expectIdentifier("input port name")))
		}
		semi := p.expectSemi()
		children = append(children, syntax.TokenChild(semi))
		return p.tree.NewNode(syntax.KindUdpInputDecl, children...)
	case lexer.TokenKwReg:
		kw := p.next()
		name := p.expectIdentifier("reg port name")
		semi := p.expectSemi()
		return p.tree.NewNode(syntax.KindUdpRegDecl, syntax.TokenChild(kw), syntax.TokenChild(name), syntax.TokenChild(semi))
	case lexer.TokenKwInitial:
		kw := p.next()
		target := p.tree.NewNode(syntax.KindIdentifierName, syntax.TokenChild(p.expectIdentifier("initial target")))
		eq := p.expect(lexer.TokenEqual, diagnostics.CodeExpectedToken, "'=' in UDP initial statement")
		valTok, ok := p.acceptAny(lexer.TokenIntLiteral, lexer.TokenBasedIntLiteral)
		if !ok {
			valTok = p.expect(lexer.TokenIntLiteral, diagnostics.CodeExpectedExpression, "0, 1, or x")
		}
		val := p.tree.NewNode(syntax.KindLiteralExpression, syntax.TokenChild(valTok))
		semi := p.expectSemi()
		return p.tree.NewNode(syntax.KindUdpInitialStatement,
			syntax.TokenChild(kw), syntax.NodeChild(target), syntax.TokenChild(eq), syntax.NodeChild(val), syntax.TokenChild(semi))
	default:
		tok := p.peek(0)
		diagnostics.ReportError(p.diags, diagnostics.CodeUnexpectedToken, tok.Range,
			"expected a primitive port declaration or initial statement").Emit()
		p.recover(lexer.TokenKwTable, lexer.TokenKwEndprimitive)
		return p.tree.NewNode(syntax.KindError)
	}
}

// parseUdpTable skips the opaque state table verbatim as skipped-token
// trivia, since its rows are a fixed-format mini-language the syntax tree
// does not model structurally (spec's UDP primitive requirements concern
// port/initial-statement shape, not table contents).
func (p *Parser) parseUdpTable() NodeHandle {
	kw := p.next()
	for !p.at(lexer.TokenKwEndtable) && !p.at(lexer.TokenEOF) {
		p.skipOne()
	}
	end := p.next()
	return p.tree.NewNode(syntax.KindUdpSequentialEntry, syntax.TokenChild(kw), syntax.TokenChild(end))
}
