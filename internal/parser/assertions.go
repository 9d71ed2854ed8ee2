package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

// parseModportDeclaration parses `modport name(ports), name(ports), ...;`
// (spec §4.H modports: simple/explicit/subroutine/clocking port kinds).
func (p *Parser) parseModportDeclaration() NodeHandle {
	kw := p.next()
	children := []syntax.Child{syntax.TokenChild(kw), syntax.NodeChild(p.parseModportItem())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseModportItem()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindModportDeclaration, children...)
}

func (p *Parser) parseModportItem() NodeHandle {
	name := p.expectIdentifier("modport name")
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' in modport item")
	children := []syntax.Child{syntax.TokenChild(name), syntax.TokenChild(open)}
	if !p.at(lexer.TokenRParen) {
		children = append(children, syntax.NodeChild(p.parseModportPortList()))
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindModportItem, children...)
}

func (p *Parser) parseModportPortList() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parseModportPort())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseModportPort()))
	}
	return p.tree.NewNode(syntax.KindSeparatedList, children...)
}

// parseModportPort parses one modport member: a clocking port (`clocking
// name`), a direction applied to a bare name (a simple port, whose direction
// elaborate checks against the resolved variable/net's lvalue-ability), or
// a direction applied to `.name(expr)` (an explicit port bound to expr).
func (p *Parser) parseModportPort() NodeHandle {
	switch {
	case p.at(lexer.TokenKwClocking):
		kw := p.next()
		name := p.expectIdentifier("clocking block name")
		return p.tree.NewNode(syntax.KindModportClockingPort, syntax.TokenChild(kw), syntax.TokenChild(name))
	case portDirections[p.peek(0).Kind]:
		dir := p.next()
		if dot, ok := p.accept(lexer.TokenDot); ok {
			name := p.expectIdentifier("modport port name after '.'")
			open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' in explicit modport port")
			children := []syntax.Child{syntax.TokenChild(dir), syntax.TokenChild(dot), syntax.TokenChild(name), syntax.TokenChild(open)}
			if !p.at(lexer.TokenRParen) {
				children = append(children, syntax.NodeChild(p.parseExpression()))
			}
			close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
			children = append(children, syntax.TokenChild(close))
			return p.tree.NewNode(syntax.KindModportExplicitPort, children...)
		}
		name := p.expectIdentifier("modport port name")
		return p.tree.NewNode(syntax.KindModportSimplePort, syntax.TokenChild(dir), syntax.TokenChild(name))
	default:
		tok := p.peek(0)
		diagnostics.ReportError(p.diags, diagnostics.CodeUnexpectedToken, tok.Range, "expected a modport port").Emit()
		p.recover(lexer.TokenComma, lexer.TokenRParen)
		return p.tree.NewNode(syntax.KindError)
	}
}

// parseClockingDeclaration parses both forms of a clocking construct: the
// designation-only `default clocking cb;` that names an already-declared
// block as the default, and the full `[default] clocking [name] @(...); ...
// endclocking [: name]` definition (spec §4.H clocking blocks).
func (p *Parser) parseClockingDeclaration() NodeHandle {
	var children []syntax.Child
	if def, ok := p.accept(lexer.TokenKwDefault); ok {
		children = append(children, syntax.TokenChild(def))
	}
	kw := p.next()
	children = append(children, syntax.TokenChild(kw))
	if name, ok := p.accept(lexer.TokenIdentifier); ok {
		children = append(children, syntax.TokenChild(name))
	}
	if semi, ok := p.accept(lexer.TokenSemi); ok {
		children = append(children, syntax.TokenChild(semi))
		return p.tree.NewNode(syntax.KindClockingDeclaration, children...)
	}
	children = append(children, syntax.NodeChild(p.parseEventControl()))
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	for !p.at(lexer.TokenKwEndclocking) && !p.at(lexer.TokenEOF) {
		children = append(children, syntax.NodeChild(p.parseClockingItem()))
	}
	end := p.expect(lexer.TokenKwEndclocking, diagnostics.CodeExpectedToken, "'endclocking'")
	children = append(children, syntax.TokenChild(end))
	if colon, ok := p.accept(lexer.TokenColon); ok {
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(p.expectIdentifier("name after ':'")))
	}
	return p.tree.NewNode(syntax.KindClockingDeclaration, children...)
}

// parseClockingItem parses one clocking-block body item: either a default
// skew clause (`default input skew [output skew];`, the source of the
// MultipleDefaultInputSkew/MultipleDefaultOutputSkew conflict rule) or a
// direction-qualified clocking-variable declaration list.
func (p *Parser) parseClockingItem() NodeHandle {
	if def, ok := p.accept(lexer.TokenKwDefault); ok {
		dir := p.next()
		children := []syntax.Child{syntax.TokenChild(def), syntax.TokenChild(dir), syntax.NodeChild(p.parseClockingSkew())}
		if dir2, ok := p.acceptAny(lexer.TokenKwInput, lexer.TokenKwOutput); ok {
			children = append(children, syntax.TokenChild(dir2), syntax.NodeChild(p.parseClockingSkew()))
		}
		semi := p.expectSemi()
		children = append(children, syntax.TokenChild(semi))
		return p.tree.NewNode(syntax.KindClockingSkewItem, children...)
	}
	dir := p.next()
	children := []syntax.Child{syntax.TokenChild(dir)}
	if p.at(lexer.TokenHash) {
		children = append(children, syntax.NodeChild(p.parseClockingSkew()))
	}
	if dir.Kind == lexer.TokenKwInput {
		if dir2, ok := p.accept(lexer.TokenKwOutput); ok {
			children = append(children, syntax.TokenChild(dir2))
			if p.at(lexer.TokenHash) {
				children = append(children, syntax.NodeChild(p.parseClockingSkew()))
			}
		}
	}
	children = append(children, syntax.NodeChild(p.parseClockingDeclAssign()))
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseClockingDeclAssign()))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindClockingVarDecl, children...)
}

func (p *Parser) parseClockingSkew() NodeHandle {
	var children []syntax.Child
	if edge, ok := p.acceptAny(lexer.TokenKwPosedge, lexer.TokenKwNegedge, lexer.TokenKwEdge); ok {
		children = append(children, syntax.TokenChild(edge))
	}
	hash := p.expect(lexer.TokenHash, diagnostics.CodeExpectedToken, "'#' in clocking skew")
	children = append(children, syntax.TokenChild(hash), syntax.NodeChild(p.parseExpression()))
	return p.tree.NewNode(syntax.KindClockingSkew, children...)
}

// parseClockingDeclAssign parses one clocking-variable declarator: a name,
// optionally bound to an initializer expression or to a signal reference
// (the two forms are syntactically identical; elaborate tells them apart by
// resolving the expression).
func (p *Parser) parseClockingDeclAssign() NodeHandle {
	name := p.expectIdentifier("clocking variable name")
	children := []syntax.Child{syntax.TokenChild(name)}
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindVariableDeclarator, children...)
}

// parseAssertionPortList parses a sequence/property/let port list: a
// comma-separated run of ports, where a port with no type token of its own
// inherits the type of the nearest preceding typed port (spec §4.H: "type
// inheritance from previous declared type").
func (p *Parser) parseAssertionPortList() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parseAssertionPort())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseAssertionPort()))
	}
	return p.tree.NewNode(syntax.KindAssertionPortList, children...)
}

func (p *Parser) parseAssertionPort() NodeHandle {
	var children []syntax.Child
	if local, ok := p.accept(lexer.TokenKwLocal); ok {
		children = append(children, syntax.TokenChild(local))
		if dir, ok := p.acceptAny(lexer.TokenKwInput, lexer.TokenKwOutput, lexer.TokenKwInout); ok {
			children = append(children, syntax.TokenChild(dir))
		}
	}
	if seq, ok := p.accept(lexer.TokenKwSequence); ok {
		children = append(children, syntax.TokenChild(seq))
	} else if !(p.at(lexer.TokenIdentifier) && isAssertionPortTerminator(p.peek(1).Kind)) {
		// Anything else that can start a data type, including a bare
		// identifier used as a type name (covers both a user-defined type
		// and the contextual "untyped" keyword, which elaborate recognizes
		// by name since the lexer has no dedicated token for it).
		if dt, ok := p.tryParseDataType(); ok {
			children = append(children, syntax.NodeChild(dt))
		}
	}
	name := p.expectIdentifier("assertion port name")
	children = append(children, syntax.TokenChild(name))
	if p.at(lexer.TokenLBracket) {
		children = append(children, syntax.NodeChild(p.parsePackedDimension()))
	}
	if eq, ok := p.accept(lexer.TokenEqual); ok {
		children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	}
	return p.tree.NewNode(syntax.KindAssertionPort, children...)
}

func isAssertionPortTerminator(k lexer.TokenKind) bool {
	return k == lexer.TokenComma || k == lexer.TokenRParen || k == lexer.TokenEqual || k == lexer.TokenLBracket
}

// parseSequenceDeclaration and parsePropertyDeclaration both parse a header
// (name, optional assertion-port list) and skip the sequence/property
// expression body as opaque trivia, the same way parseUdpTable treats a UDP
// state table: the body's operator grammar (##, |->, |=>, throughout, ...)
// is out of scope, while the port typing/`local` rules the body sits
// between are what spec §4.H actually requires.
func (p *Parser) parseSequenceDeclaration() NodeHandle {
	kw := p.next()
	name := p.expectIdentifier("sequence name")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(name)}
	children = p.appendAssertionPortsAndBody(children, lexer.TokenKwEndsequence)
	end := p.expect(lexer.TokenKwEndsequence, diagnostics.CodeExpectedToken, "'endsequence'")
	children = append(children, syntax.TokenChild(end))
	if colon, ok := p.accept(lexer.TokenColon); ok {
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(p.expectIdentifier("name after ':'")))
	}
	return p.tree.NewNode(syntax.KindSequenceDeclaration, children...)
}

func (p *Parser) parsePropertyDeclaration() NodeHandle {
	kw := p.next()
	name := p.expectIdentifier("property name")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(name)}
	children = p.appendAssertionPortsAndBody(children, lexer.TokenKwEndproperty)
	end := p.expect(lexer.TokenKwEndproperty, diagnostics.CodeExpectedToken, "'endproperty'")
	children = append(children, syntax.TokenChild(end))
	if colon, ok := p.accept(lexer.TokenColon); ok {
		children = append(children, syntax.TokenChild(colon), syntax.TokenChild(p.expectIdentifier("name after ':'")))
	}
	return p.tree.NewNode(syntax.KindPropertyDeclaration, children...)
}

func (p *Parser) appendAssertionPortsAndBody(children []syntax.Child, end lexer.TokenKind) []syntax.Child {
	if open, ok := p.accept(lexer.TokenLParen); ok {
		children = append(children, syntax.TokenChild(open))
		if !p.at(lexer.TokenRParen) {
			children = append(children, syntax.NodeChild(p.parseAssertionPortList()))
		}
		close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
		children = append(children, syntax.TokenChild(close))
	}
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	for !p.at(end) && !p.at(lexer.TokenEOF) {
		p.skipOne()
	}
	return children
}

// parseLetDeclaration parses `let name [(ports)] = expr;`. Unlike sequence/
// property, a let body is a plain expression already within parseExpression's
// grammar, so no body is skipped.
func (p *Parser) parseLetDeclaration() NodeHandle {
	kw := p.next()
	name := p.expectIdentifier("let name")
	children := []syntax.Child{syntax.TokenChild(kw), syntax.TokenChild(name)}
	if open, ok := p.accept(lexer.TokenLParen); ok {
		children = append(children, syntax.TokenChild(open))
		if !p.at(lexer.TokenRParen) {
			children = append(children, syntax.NodeChild(p.parseAssertionPortList()))
		}
		close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
		children = append(children, syntax.TokenChild(close))
	}
	eq := p.expect(lexer.TokenEqual, diagnostics.CodeExpectedToken, "'=' in let declaration")
	children = append(children, syntax.TokenChild(eq), syntax.NodeChild(p.parseExpression()))
	semi := p.expectSemi()
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindLetDeclaration, children...)
}
