package elaborate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// elaborateHierarchicalInstantiation elaborates `Def #(params) a(...), b(...);`
// (spec §4.H: "Instance body ... a parameter-bound realization of a
// module/interface/program"). All named instances in the statement share one
// parameter binding, and therefore one instance body (spec §4.H: "Two
// instances with identical parameter bindings share a body").
func (c *Compilation) elaborateHierarchicalInstantiation(tree *syntax.Tree, scope *Scope, n *syntax.Node) {
	typeTok := childToken(n.Children, 0)
	typeName := c.text(typeTok)
	lookupOffset := int(typeTok.Range.Start.Offset)
	defHandle, ok := scope.Lookup(typeName, lookupOffset, LookupAllowDeclaredAfter)
	if !ok {
		diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, typeTok.Range,
			"unknown type '%s' in hierarchical instantiation", typeName).Emit()
		return
	}
	def := c.Symbol(defHandle)
	if def.Kind != KindModule && def.Kind != KindInterface && def.Kind != KindProgram {
		diagnostics.ReportError(c.Diags, diagnostics.CodeUnknownIdentifier, typeTok.Range,
			"'%s' does not name a module, interface, or program", typeName).Emit()
		return
	}

	idx := 1
	var paramAssign nodeHandle
	if idx < len(n.Children) && !n.Children[idx].IsToken {
		if tree.Get(n.Children[idx].Node).Kind == syntax.KindParameterValueAssignment {
			paramAssign = n.Children[idx].Node
			idx++
		}
	}
	params := c.bindInstanceParams(tree, def, paramAssign)
	bodyHandle := c.getOrCreateInstanceBody(defHandle, params, typeTok.Range)
	body := c.Symbol(bodyHandle)

	for ; idx < len(n.Children); idx++ {
		ch := n.Children[idx]
		if ch.IsToken {
			continue
		}
		inst := tree.Get(ch.Node)
		if inst.Kind != syntax.KindHierarchicalInstance {
			continue
		}
		nameTok := childToken(inst.Children, 0)
		sym := Symbol{Kind: KindInstanceBody, Name: c.text(nameTok), Range: nameTok.Range, Decl: ch.Node}
		sym.Instance = &InstanceData{Definition: defHandle, Params: params}
		scope.AddMember(c.newSymbol(sym))
		body.Instance.InstanceNames = append(body.Instance.InstanceNames, c.text(nameTok))
	}
}

// getOrCreateInstanceBody looks up (or creates) the single instance-body
// symbol backing def's parameter binding params, realizing the spec's
// instance-sharing property: two instantiations that evaluate to the same
// bound parameter values reuse the same KindInstanceBody handle.
func (c *Compilation) getOrCreateInstanceBody(defHandle SymbolHandle, params map[string]int64, rng text.Range) SymbolHandle {
	key := instanceKey{def: defHandle, params: canonicalizeParams(params)}
	if h, ok := c.instanceBodies[key]; ok {
		return h
	}
	def := c.Symbol(defHandle)
	sym := Symbol{Kind: KindInstanceBody, Name: def.Name, Range: rng}
	sym.Instance = &InstanceData{Definition: defHandle, Params: params}
	handle := c.newSymbol(sym)
	c.instanceBodies[key] = handle
	return handle
}

// bindInstanceParams evaluates def's formal parameter defaults, then applies
// any positional or named overrides from paramAssign (spec §4.H: "Parameter
// binding uses the definition's formal parameter list and defaults").
func (c *Compilation) bindInstanceParams(tree *syntax.Tree, def *Symbol, paramAssign nodeHandle) map[string]int64 {
	params := map[string]int64{}
	var order []string
	if def.Scope != nil {
		for _, mh := range def.Scope.Members() {
			msym := c.Symbol(mh)
			if msym.Kind != KindVariable || msym.Value == nil || msym.Value.Flags&FlagConst == 0 {
				continue
			}
			v := int64(0)
			if !msym.Value.Initializer.IsNil() {
				if ev, ok := c.evalConstant(tree, msym.Value.Initializer); ok {
					v = ev
				}
			}
			params[msym.Name] = v
			order = append(order, msym.Name)
		}
	}
	if paramAssign.IsNil() {
		return params
	}
	pva := tree.Get(paramAssign)
	var listHandle nodeHandle
	for _, ch := range pva.Children {
		if !ch.IsToken {
			listHandle = ch.Node
			break
		}
	}
	if listHandle.IsNil() {
		return params
	}
	list := tree.Get(listHandle)
	pos := 0
	for _, ch := range list.Children {
		if ch.IsToken {
			continue
		}
		item := tree.Get(ch.Node)
		if item.Kind == syntax.KindNamedParamAssignment {
			nameTok := childToken(item.Children, 1)
			if exprHandle, ok := namedAssignExpr(item); ok {
				if v, ok := c.evalConstant(tree, exprHandle); ok {
					params[c.text(nameTok)] = v
				}
			}
			continue
		}
		if pos < len(order) {
			if v, ok := c.evalConstant(tree, ch.Node); ok {
				params[order[pos]] = v
			}
		}
		pos++
	}
	return params
}

// namedAssignExpr returns a NamedParamAssignment's bound expression, if it
// supplied one (`.W(8)` vs. the defaulting `.W()`).
func namedAssignExpr(item *syntax.Node) (nodeHandle, bool) {
	for i, ch := range item.Children {
		if ch.IsToken && ch.Tok.Kind == lexer.TokenLParen && i+1 < len(item.Children) {
			if next := item.Children[i+1]; !next.IsToken {
				return next.Node, true
			}
		}
	}
	return nodeHandle{}, false
}

// canonicalizeParams renders params as a stable string so equal bindings
// compare equal regardless of Go's unordered map iteration.
func canonicalizeParams(params map[string]int64) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%d;", k, params[k])
	}
	return b.String()
}
