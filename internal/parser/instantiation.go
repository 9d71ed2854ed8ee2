package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

// tryParseHierarchicalInstantiation parses a hierarchical module/interface/
// program instantiation (spec §4.H: "hierarchical instantiation" builds an
// instance body keyed by bound parameter values). It is tried, under
// speculate, ahead of tryParseDataType's `identifier identifier` heuristic:
// a data declarator is never directly followed by `(`, and a data type is
// never directly followed by `#`, so both shapes are an unambiguous
// instantiation signal and the common case never needs a rollback.
func (p *Parser) tryParseHierarchicalInstantiation() (NodeHandle, bool) {
	typeName, ok := p.accept(lexer.TokenIdentifier)
	if !ok {
		return NodeHandle{}, false
	}
	children := []syntax.Child{syntax.TokenChild(typeName)}
	if p.at(lexer.TokenHash) {
		children = append(children, syntax.NodeChild(p.parseParameterValueAssignment()))
	}
	inst, ok := p.tryParseHierarchicalInstance()
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.NodeChild(inst))
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		next, ok := p.tryParseHierarchicalInstance()
		if !ok {
			return NodeHandle{}, false
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(next))
	}
	semi, ok := p.accept(lexer.TokenSemi)
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.TokenChild(semi))
	return p.tree.NewNode(syntax.KindHierarchicalInstantiation, children...), true
}

// tryParseHierarchicalInstance parses one `name [range] (connections)` item.
// Failure here (no '(' where one is required) signals the caller's shape
// was not an instantiation at all, letting speculate roll back cleanly.
func (p *Parser) tryParseHierarchicalInstance() (NodeHandle, bool) {
	name, ok := p.accept(lexer.TokenIdentifier)
	if !ok {
		return NodeHandle{}, false
	}
	children := []syntax.Child{syntax.TokenChild(name)}
	if p.at(lexer.TokenLBracket) {
		children = append(children, syntax.NodeChild(p.parsePackedDimension()))
	}
	open, ok := p.accept(lexer.TokenLParen)
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.TokenChild(open))
	if !p.at(lexer.TokenRParen) {
		children = append(children, syntax.NodeChild(p.parsePortConnectionList()))
	}
	close, ok := p.accept(lexer.TokenRParen)
	if !ok {
		return NodeHandle{}, false
	}
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindHierarchicalInstance, children...), true
}

func (p *Parser) parsePortConnectionList() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parsePortConnection())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma))
		if p.at(lexer.TokenRParen) {
			break
		}
		children = append(children, syntax.NodeChild(p.parsePortConnection()))
	}
	return p.tree.NewNode(syntax.KindSeparatedList, children...)
}

// parsePortConnection parses `.*`, `.name`, `.name(expr)`, or a bare ordered
// connection expression.
func (p *Parser) parsePortConnection() NodeHandle {
	if p.at(lexer.TokenDotStar) {
		star := p.next()
		return p.tree.NewNode(syntax.KindWildcardPortConnection, syntax.TokenChild(star))
	}
	if dot, ok := p.accept(lexer.TokenDot); ok {
		name := p.expectIdentifier("port name after '.'")
		children := []syntax.Child{syntax.TokenChild(dot), syntax.TokenChild(name)}
		if open, ok := p.accept(lexer.TokenLParen); ok {
			children = append(children, syntax.TokenChild(open))
			if !p.at(lexer.TokenRParen) {
				children = append(children, syntax.NodeChild(p.parseExpression()))
			}
			close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
			children = append(children, syntax.TokenChild(close))
		}
		return p.tree.NewNode(syntax.KindNamedPortConnection, children...)
	}
	return p.parseExpression()
}

// parseParameterValueAssignment parses a `#( ... )` parameter override list
// on a hierarchical instantiation.
func (p *Parser) parseParameterValueAssignment() NodeHandle {
	hash := p.next()
	open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' after '#'")
	children := []syntax.Child{syntax.TokenChild(hash), syntax.TokenChild(open)}
	if !p.at(lexer.TokenRParen) {
		children = append(children, syntax.NodeChild(p.parseParamAssignmentList()))
	}
	close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
	children = append(children, syntax.TokenChild(close))
	return p.tree.NewNode(syntax.KindParameterValueAssignment, children...)
}

func (p *Parser) parseParamAssignmentList() NodeHandle {
	children := []syntax.Child{syntax.NodeChild(p.parseParamAssignment())}
	for {
		comma, ok := p.accept(lexer.TokenComma)
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(comma), syntax.NodeChild(p.parseParamAssignment()))
	}
	return p.tree.NewNode(syntax.KindSeparatedList, children...)
}

func (p *Parser) parseParamAssignment() NodeHandle {
	if dot, ok := p.accept(lexer.TokenDot); ok {
		name := p.expectIdentifier("parameter name after '.'")
		open := p.expect(lexer.TokenLParen, diagnostics.CodeExpectedToken, "'(' in named parameter override")
		children := []syntax.Child{syntax.TokenChild(dot), syntax.TokenChild(name), syntax.TokenChild(open)}
		if !p.at(lexer.TokenRParen) {
			children = append(children, syntax.NodeChild(p.parseExpression()))
		}
		close := p.expect(lexer.TokenRParen, diagnostics.CodeExpectedToken, "')'")
		children = append(children, syntax.TokenChild(close))
		return p.tree.NewNode(syntax.KindNamedParamAssignment, children...)
	}
	return p.parseExpression()
}
