package elaborate

import (
	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

type nodeHandle = arena.Handle[syntax.Node]

// text returns tok's raw spelling as a string.
func (c *Compilation) text(tok syntax.Token) string {
	return string(tok.Bytes(c.SM))
}

// childToken returns children[i]'s token, assuming it is one.
func childToken(children []syntax.Child, i int) syntax.Token {
	return children[i].Tok
}

// childNode returns children[i]'s node handle, assuming it is one.
func childNode(children []syntax.Child, i int) nodeHandle {
	return children[i].Node
}

// trailingNodes returns the node-kind children of n starting at index
// start, stopping at the first token child encountered (the shared shape
// of module/package/primitive bodies: a run of member nodes terminated by
// an "end..." keyword token, optionally followed by ": name").
func trailingNodes(n *syntax.Node, start int) []nodeHandle {
	var out []nodeHandle
	for i := start; i < len(n.Children); i++ {
		c := n.Children[i]
		if c.IsToken {
			break
		}
		out = append(out, c.Node)
	}
	return out
}

// identifierText extracts the name from an IdentifierName or ScopedName
// expression node (the last segment for a scoped name).
func (c *Compilation) identifierText(tree *syntax.Tree, h nodeHandle) string {
	if h.IsNil() {
		return ""
	}
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindIdentifierName:
		for _, ch := range n.Children {
			if ch.IsToken {
				return c.text(ch.Tok)
			}
		}
	case syntax.KindScopedName:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i].IsToken {
				return c.text(n.Children[i].Tok)
			}
		}
	}
	return ""
}

// declaratorName extracts the leading name token from a VariableDeclarator
// or NetDeclarator node (both start with the name token).
func (c *Compilation) declaratorName(tree *syntax.Tree, h nodeHandle) (string, syntax.Token) {
	n := tree.Get(h)
	if len(n.Children) == 0 || !n.Children[0].IsToken {
		return "", syntax.Token{}
	}
	tok := n.Children[0].Tok
	return c.text(tok), tok
}

// declaratorInitializer returns the declarator's initializer expression, if
// any (the node child following an '=' token).
func declaratorInitializer(n *syntax.Node) nodeHandle {
	for i, ch := range n.Children {
		if ch.IsToken && ch.Tok.Kind == lexer.TokenEqual && i+1 < len(n.Children) {
			if next := n.Children[i+1]; !next.IsToken {
				return next.Node
			}
		}
	}
	return nodeHandle{}
}

// firstToken returns the first leaf token reachable from h, depth-first.
func firstToken(tree *syntax.Tree, h nodeHandle) (syntax.Token, bool) {
	if h.IsNil() {
		return syntax.Token{}, false
	}
	n := tree.Get(h)
	for _, ch := range n.Children {
		if ch.IsToken {
			return ch.Tok, true
		}
		if tok, ok := firstToken(tree, ch.Node); ok {
			return tok, true
		}
	}
	return syntax.Token{}, false
}

// constDeclaredType wraps an already-resolved Type as a DeclaredType, for
// declaration sites that never need lazy cycle protection (everything but a
// user-defined nettype's own element type).
func constDeclaredType(t *Type) *DeclaredType {
	return NewDeclaredType(func() *Type { return t })
}
