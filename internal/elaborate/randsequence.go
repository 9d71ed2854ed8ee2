package elaborate

import "github.com/VeriOpen/slang/internal/syntax"

// elaborateRandSequenceStatement elaborates `randsequence(start) production
// ... endsequence`, adding one KindRandSequenceProduction symbol per
// production to the enclosing scope (spec §4.H rand-sequence productions).
// Productions are mutually visible regardless of declaration order
// (allowsDeclaredAfter already covers KindRandSequenceProduction).
func (c *Compilation) elaborateRandSequenceStatement(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	for _, ch := range n.Children {
		if ch.IsToken {
			continue
		}
		prod := tree.Get(ch.Node)
		if prod.Kind == syntax.KindRsProduction {
			c.elaborateRsProduction(tree, scope, ch.Node, prod)
		}
	}
}

func (c *Compilation) elaborateRsProduction(tree *syntax.Tree, scope *Scope, h nodeHandle, n *syntax.Node) {
	idx := 0
	var dtHandle nodeHandle
	if idx < len(n.Children) && !n.Children[idx].IsToken && tree.Get(n.Children[idx].Node).Kind == syntax.KindDataType {
		dtHandle = n.Children[idx].Node
		idx++
	}
	if idx >= len(n.Children) || !n.Children[idx].IsToken {
		return
	}
	nameTok := childToken(n.Children, idx)
	idx++

	lookupOffset := int(nameTok.Range.Start.Offset)
	var returnType *DeclaredType
	if !dtHandle.IsNil() {
		t, _, _ := c.resolveDataType(tree, scope, lookupOffset, dtHandle, nameTok.Range)
		returnType = constDeclaredType(t)
	}

	ruleCount := 0
	for i := idx; i < len(n.Children); i++ {
		ch := n.Children[i]
		if ch.IsToken {
			continue
		}
		if tree.Get(ch.Node).Kind == syntax.KindRsRule {
			ruleCount++
			c.elaborateRsRule(tree, scope, ch.Node)
		}
	}

	sym := Symbol{Kind: KindRandSequenceProduction, Name: c.text(nameTok), Range: nameTok.Range, Decl: h}
	sym.RandSeqProd = &RandSeqProductionData{ReturnType: returnType, RuleCount: ruleCount}
	scope.AddMember(c.newSymbol(sym))
}

// elaborateRsRule walks a rule's production-item sequence (weight/case
// binding is realized structurally here: the grammar's own nesting already
// pairs each weight with its rule and each case item with its selector, so
// no separate binding table is needed).
func (c *Compilation) elaborateRsRule(tree *syntax.Tree, scope *Scope, h nodeHandle) {
	n := tree.Get(h)
	for _, ch := range n.Children {
		if !ch.IsToken {
			c.elaborateRsProdItem(tree, scope, ch.Node)
		}
	}
}

func (c *Compilation) elaborateRsProdItem(tree *syntax.Tree, scope *Scope, h nodeHandle) {
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindRsIfElse, syntax.KindRsRepeat:
		for _, ch := range n.Children {
			if ch.IsToken {
				continue
			}
			switch tree.Get(ch.Node).Kind {
			case syntax.KindRsProdItem, syntax.KindRsCodeBlock, syntax.KindRsIfElse, syntax.KindRsRepeat, syntax.KindRsCase:
				c.elaborateRsProdItem(tree, scope, ch.Node)
			}
		}
	case syntax.KindRsCase:
		for _, ch := range n.Children {
			if !ch.IsToken && tree.Get(ch.Node).Kind == syntax.KindRsCaseItem {
				c.elaborateRsCaseItem(tree, scope, ch.Node)
			}
		}
	}
}

func (c *Compilation) elaborateRsCaseItem(tree *syntax.Tree, scope *Scope, h nodeHandle) {
	n := tree.Get(h)
	for _, ch := range n.Children {
		if ch.IsToken {
			continue
		}
		switch tree.Get(ch.Node).Kind {
		case syntax.KindRsProdItem, syntax.KindRsCodeBlock, syntax.KindRsIfElse, syntax.KindRsRepeat, syntax.KindRsCase:
			c.elaborateRsProdItem(tree, scope, ch.Node)
		}
	}
}
