package elaborate

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// elaborateModportDeclaration elaborates `modport a(...), b(...);` inside an
// interface body (spec §4.H modports).
func (c *Compilation) elaborateModportDeclaration(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	for _, ch := range n.Children {
		if ch.IsToken {
			continue
		}
		item := tree.Get(ch.Node)
		if item.Kind == syntax.KindModportItem {
			c.elaborateModportItem(tree, scope, ch.Node, item)
		}
	}
}

func (c *Compilation) elaborateModportItem(tree *syntax.Tree, scope *Scope, h nodeHandle, item *syntax.Node) {
	nameTok := childToken(item.Children, 0)
	sym := Symbol{Kind: KindModport, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	handle := c.newSymbol(sym)
	modScope := newScope(c, handle, scope)
	c.Symbol(handle).Scope = modScope
	scope.AddMember(handle)

	lookupOffset := int(nameTok.Range.Start.Offset)
	for _, ch := range item.Children {
		if ch.IsToken {
			continue
		}
		if list := tree.Get(ch.Node); list.Kind == syntax.KindSeparatedList {
			for _, pch := range list.Children {
				if !pch.IsToken {
					c.elaborateModportPort(tree, scope, modScope, pch.Node, lookupOffset)
				}
			}
		}
	}
}

func (c *Compilation) elaborateModportPort(tree *syntax.Tree, outerScope, modScope *Scope, h nodeHandle, lookupOffset int) {
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindModportClockingPort:
		nameTok := childToken(n.Children, 1)
		sym := Symbol{Kind: KindModport, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
		data := &ModportData{}
		if target, ok := outerScope.Lookup(c.text(nameTok), lookupOffset, 0); ok {
			data.Clocking = target
		} else {
			diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, nameTok.Range,
				"unknown clocking block '%s'", c.text(nameTok)).Emit()
		}
		sym.Modport = data
		modScope.AddMember(c.newSymbol(sym))
	case syntax.KindModportSimplePort:
		dirTok := childToken(n.Children, 0)
		nameTok := childToken(n.Children, 1)
		c.addModportPort(tree, outerScope, modScope, h, dirTok, nameTok, nodeHandle{}, lookupOffset)
	case syntax.KindModportExplicitPort:
		dirTok := childToken(n.Children, 0)
		nameTok := childToken(n.Children, 2)
		var exprHandle nodeHandle
		for i := 3; i < len(n.Children); i++ {
			if !n.Children[i].IsToken {
				exprHandle = n.Children[i].Node
				break
			}
		}
		c.addModportPort(tree, outerScope, modScope, h, dirTok, nameTok, exprHandle, lookupOffset)
	}
}

// addModportPort resolves a simple or explicit modport port's bound target
// and checks the direction-dependent lvalue/subroutine rule (spec §4.H:
// "direction applied to resolved internal variable/net rejecting subroutines
// with lvalue/ref-arg rules per direction").
func (c *Compilation) addModportPort(tree *syntax.Tree, outerScope, modScope *Scope, h nodeHandle, dirTok, nameTok syntax.Token, exprHandle nodeHandle, lookupOffset int) {
	sym := Symbol{Kind: KindModport, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	data := &ModportData{Direction: dirTok.Kind, Expr: exprHandle}
	targetName := c.text(nameTok)
	if !exprHandle.IsNil() {
		targetName = c.identifierText(tree, exprHandle)
	}
	if targetName != "" {
		if target, ok := outerScope.Lookup(targetName, lookupOffset, 0); ok {
			data.Target = target
			c.checkModportDirection(dirTok, target, nameTok.Range)
		} else {
			diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, nameTok.Range,
				"unknown identifier '%s'", targetName).Emit()
		}
	}
	sym.Modport = data
	modScope.AddMember(c.newSymbol(sym))
}

// checkModportDirection rejects an output/inout modport port bound to a
// target that can't serve as an lvalue: a constant, or any symbol kind other
// than a variable/net/field/formal argument (a method, module, or similar;
// spec §4.H: "rejecting subroutines with lvalue/ref-arg rules per
// direction").
func (c *Compilation) checkModportDirection(dirTok syntax.Token, target SymbolHandle, rng text.Range) {
	sym := c.Symbol(target)
	switch sym.Kind {
	case KindVariable, KindNet, KindField, KindFormalArgument:
		if dirTok.Kind != lexer.TokenKwInput && sym.Value != nil && sym.Value.Flags&FlagConst != 0 {
			diagnostics.ReportError(c.Diags, diagnostics.CodeModportNotLvalue, rng,
				"modport port is not an lvalue: '%s' is a constant", sym.Name).Emit()
		}
	default:
		diagnostics.ReportError(c.Diags, diagnostics.CodeModportOnSubroutine, rng,
			"modport port '%s' must name a variable or net, not a %s", sym.Name, sym.Kind).Emit()
	}
}
