package elaborate

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// elaborateClockingDeclaration elaborates both forms of a clocking block: a
// bare designation (`clocking cb;`, referencing one declared elsewhere) and
// a full definition with an event control and a body of skew/variable items
// (spec §4.H clocking blocks).
func (c *Compilation) elaborateClockingDeclaration(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	idx := 0
	if n.Children[idx].IsToken && n.Children[idx].Tok.Kind == lexer.TokenKwDefault {
		idx++
	}
	idx++ // 'clocking'
	var nameTok syntax.Token
	haveName := false
	if idx < len(n.Children) && n.Children[idx].IsToken && n.Children[idx].Tok.Kind == lexer.TokenIdentifier {
		nameTok = n.Children[idx].Tok
		haveName = true
		idx++
	}

	if idx < len(n.Children) && n.Children[idx].IsToken && n.Children[idx].Tok.Kind == lexer.TokenSemi {
		if haveName {
			if _, ok := scope.Lookup(c.text(nameTok), int(nameTok.Range.Start.Offset), 0); !ok {
				diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, nameTok.Range,
					"unknown clocking block '%s'", c.text(nameTok)).Emit()
			}
		}
		return
	}

	name := "clocking"
	rng := n.Children[0].Tok.Range
	if haveName {
		name = c.text(nameTok)
		rng = nameTok.Range
	}
	sym := Symbol{Kind: KindClockingBlock, Name: name, Range: rng}
	sym.Clocking = &ClockingBlockData{}
	handle := c.newSymbol(sym)
	cbScope := newScope(c, handle, scope)
	c.Symbol(handle).Scope = cbScope
	scope.AddMember(handle)

	idx++ // event control node
	for ; idx < len(n.Children); idx++ {
		ch := n.Children[idx]
		if ch.IsToken {
			continue
		}
		item := tree.Get(ch.Node)
		switch item.Kind {
		case syntax.KindClockingSkewItem:
			c.elaborateClockingSkewItem(handle, item)
		case syntax.KindClockingVarDecl:
			c.elaborateClockingVarDecl(tree, scope, cbScope, item)
		}
	}
}

// elaborateClockingSkewItem enforces at most one default input skew and one
// default output skew per clocking block (spec §4.H: "at most one input/one
// output else MultipleDefaultXxxSkew").
func (c *Compilation) elaborateClockingSkewItem(blockHandle SymbolHandle, item *syntax.Node) {
	data := c.Symbol(blockHandle).Clocking
	idx := 1
	for idx+1 < len(item.Children) {
		ch := item.Children[idx]
		if !ch.IsToken {
			break
		}
		c.recordDefaultSkew(data, ch.Tok, childNode(item.Children, idx+1), ch.Tok.Range)
		idx += 2
	}
}

func (c *Compilation) recordDefaultSkew(data *ClockingBlockData, dirTok syntax.Token, skewHandle nodeHandle, rng text.Range) {
	switch dirTok.Kind {
	case lexer.TokenKwInput:
		if data.HasDefaultInput {
			diagnostics.ReportError(c.Diags, diagnostics.CodeMultipleDefaultInSkew, rng,
				"clocking block already has a default input skew").Emit()
			return
		}
		data.HasDefaultInput = true
		data.DefaultInputSkew = skewHandle
	case lexer.TokenKwOutput:
		if data.HasDefaultOutput {
			diagnostics.ReportError(c.Diags, diagnostics.CodeMultipleDefaultOutSkew, rng,
				"clocking block already has a default output skew").Emit()
			return
		}
		data.HasDefaultOutput = true
		data.DefaultOutputSkew = skewHandle
	}
}

// elaborateClockingVarDecl elaborates `input|output|inout [skew] name [=
// expr | name] ...;` clocking variable declarations (spec §4.H: "a
// clocking-variable symbol with direction in/out/inout, optional skews,
// either an initializer expression or a signal reference whose
// declared-type is linked; outputs/inouts require lvalue referenced
// expression and register as drivers").
func (c *Compilation) elaborateClockingVarDecl(tree *syntax.Tree, parentScope, cbScope *Scope, item *syntax.Node) {
	dirTok := childToken(item.Children, 0)
	idx := 1
	var inputSkew, outputSkew nodeHandle
	if idx < len(item.Children) && !item.Children[idx].IsToken {
		if sk := tree.Get(item.Children[idx].Node); sk.Kind == syntax.KindClockingSkew {
			inputSkew = item.Children[idx].Node
			idx++
		}
	}
	if idx < len(item.Children) && item.Children[idx].IsToken && item.Children[idx].Tok.Kind == lexer.TokenKwOutput {
		idx++
		if idx < len(item.Children) && !item.Children[idx].IsToken {
			if sk := tree.Get(item.Children[idx].Node); sk.Kind == syntax.KindClockingSkew {
				outputSkew = item.Children[idx].Node
				idx++
			}
		}
	}

	lookupOffset := int(dirTok.Range.Start.Offset)
	isDriver := dirTok.Kind == lexer.TokenKwOutput || dirTok.Kind == lexer.TokenKwInout
	for ; idx < len(item.Children); idx++ {
		ch := item.Children[idx]
		if ch.IsToken {
			continue
		}
		decl := tree.Get(ch.Node)
		if decl.Kind != syntax.KindVariableDeclarator {
			continue
		}
		name, nameTok := c.declaratorName(tree, ch.Node)
		exprHandle := declaratorInitializer(decl)
		if isDriver && !exprHandle.IsNil() {
			if refName := c.identifierText(tree, exprHandle); refName != "" {
				if _, ok := parentScope.Lookup(refName, lookupOffset, 0); !ok {
					diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, nameTok.Range,
						"unknown identifier '%s'", refName).Emit()
				}
			}
		}
		sym := Symbol{Kind: KindClockingVar, Name: name, Range: nameTok.Range, Decl: ch.Node}
		sym.ClockingVar = &ClockingVarData{
			Direction: dirTok.Kind, InputSkew: inputSkew, OutputSkew: outputSkew,
			Expr: exprHandle, IsDriver: isDriver,
		}
		cbScope.AddMember(c.newSymbol(sym))
	}
}
