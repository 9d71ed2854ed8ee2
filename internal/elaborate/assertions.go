package elaborate

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

// elaborateSequenceDeclaration elaborates `sequence name(ports); ...
// endsequence` (spec §4.H: sequence assertion-port typing, `local in` only).
func (c *Compilation) elaborateSequenceDeclaration(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	nameTok := childToken(n.Children, 1)
	sym := Symbol{Kind: KindSequence, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	ports := c.findAssertionPortList(tree, n)
	sym.Assertion = &AssertionData{Ports: c.elaborateAssertionPorts(tree, scope, ports, false)}
	scope.AddMember(c.newSymbol(sym))
}

// elaboratePropertyDeclaration elaborates `property name(ports); ...
// endproperty` (spec §4.H: property assertion-port typing, `local
// in/out/inout` with local out/inout rejected).
func (c *Compilation) elaboratePropertyDeclaration(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	nameTok := childToken(n.Children, 1)
	sym := Symbol{Kind: KindProperty, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	ports := c.findAssertionPortList(tree, n)
	sym.Assertion = &AssertionData{Ports: c.elaborateAssertionPorts(tree, scope, ports, true)}
	scope.AddMember(c.newSymbol(sym))
}

// elaborateLetDeclaration elaborates `let name(ports) = expr;`.
func (c *Compilation) elaborateLetDeclaration(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	nameTok := childToken(n.Children, 1)
	sym := Symbol{Kind: KindLet, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	ports := c.findAssertionPortList(tree, n)
	sym.Assertion = &AssertionData{Ports: c.elaborateAssertionPorts(tree, scope, ports, false)}
	scope.AddMember(c.newSymbol(sym))
}

func (c *Compilation) findAssertionPortList(tree *syntax.Tree, n *syntax.Node) nodeHandle {
	for _, ch := range n.Children {
		if !ch.IsToken && tree.Get(ch.Node).Kind == syntax.KindAssertionPortList {
			return ch.Node
		}
	}
	return nodeHandle{}
}

func (c *Compilation) elaborateAssertionPorts(tree *syntax.Tree, scope *Scope, listHandle nodeHandle, isProperty bool) []AssertionPortData {
	if listHandle.IsNil() {
		return nil
	}
	list := tree.Get(listHandle)
	var ports []AssertionPortData
	var inherited *DeclaredType
	inheritedUntyped := false
	for _, ch := range list.Children {
		if ch.IsToken {
			continue
		}
		portNode := tree.Get(ch.Node)
		if portNode.Kind != syntax.KindAssertionPort {
			continue
		}
		ports = append(ports, c.elaborateAssertionPort(tree, scope, portNode, isProperty, &inherited, &inheritedUntyped))
	}
	return ports
}

// elaborateAssertionPort resolves one formal port of a sequence/property/let
// declaration: its `local` modifier and direction, its declared type (own,
// "untyped", or inherited from the nearest preceding typed port), and its
// default-value expression (spec §4.H assertion declarations).
func (c *Compilation) elaborateAssertionPort(tree *syntax.Tree, scope *Scope, n *syntax.Node, isProperty bool, inherited **DeclaredType, inheritedUntyped *bool) AssertionPortData {
	idx := 0
	var port AssertionPortData
	if idx < len(n.Children) && n.Children[idx].IsToken && n.Children[idx].Tok.Kind == lexer.TokenKwLocal {
		port.Local = true
		idx++
		if idx < len(n.Children) && n.Children[idx].IsToken {
			switch n.Children[idx].Tok.Kind {
			case lexer.TokenKwInput, lexer.TokenKwOutput, lexer.TokenKwInout:
				port.Direction = n.Children[idx].Tok.Kind
				idx++
			}
		}
	}

	hasOwnType := false
	sawUntyped := false
	requireSeq := false
	var dtHandle nodeHandle
	if idx < len(n.Children) && n.Children[idx].IsToken && n.Children[idx].Tok.Kind == lexer.TokenKwSequence {
		requireSeq = true
		hasOwnType = true
		idx++
	} else if idx < len(n.Children) && !n.Children[idx].IsToken && tree.Get(n.Children[idx].Node).Kind == syntax.KindDataType {
		dtHandle = n.Children[idx].Node
		hasOwnType = true
		idx++
		dtNode := tree.Get(dtHandle)
		if len(dtNode.Children) > 0 && !dtNode.Children[0].IsToken &&
			c.identifierText(tree, dtNode.Children[0].Node) == "untyped" {
			sawUntyped = true
		}
	}

	var nameTok syntax.Token
	if idx < len(n.Children) && n.Children[idx].IsToken {
		nameTok = n.Children[idx].Tok
		idx++
	}
	lookupOffset := int(nameTok.Range.Start.Offset)

	var defaultExpr nodeHandle
	for ; idx < len(n.Children); idx++ {
		ch := n.Children[idx]
		if ch.IsToken && ch.Tok.Kind == lexer.TokenEqual {
			if idx+1 < len(n.Children) && !n.Children[idx+1].IsToken {
				defaultExpr = n.Children[idx+1].Node
			}
			break
		}
	}

	port.RequireSequence = requireSeq
	switch {
	case requireSeq:
		port.Untyped = false
	case sawUntyped:
		port.Untyped = true
		*inherited = nil
		*inheritedUntyped = true
	case hasOwnType:
		t, _, _ := c.resolveDataType(tree, scope, lookupOffset, dtHandle, nameTok.Range)
		declared := constDeclaredType(t)
		port.DeclaredType = declared
		*inherited = declared
		*inheritedUntyped = false
	default:
		port.DeclaredType = *inherited
		port.Untyped = *inheritedUntyped
	}
	port.Default = defaultExpr

	dirIsOutOrInout := port.Direction == lexer.TokenKwOutput || port.Direction == lexer.TokenKwInout
	if port.Local {
		if !isProperty && port.Direction != 0 && port.Direction != lexer.TokenKwInput {
			diagnostics.ReportError(c.Diags, diagnostics.CodeAssertionPortLocalOutDir, nameTok.Range,
				"a sequence's local ports may only be declared 'input'").Emit()
		} else if isProperty && dirIsOutOrInout {
			diagnostics.ReportError(c.Diags, diagnostics.CodeAssertionPortLocalOutDir, nameTok.Range,
				"a property's local ports may not be declared 'output' or 'inout'").Emit()
		}
		if dirIsOutOrInout && !defaultExpr.IsNil() {
			diagnostics.ReportError(c.Diags, diagnostics.CodeAssertionPortDefaultOnOut, nameTok.Range,
				"a local output/inout port may not have a default value").Emit()
		}
	}

	return port
}
