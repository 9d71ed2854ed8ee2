package syntax

import "github.com/VeriOpen/slang/internal/arena"

// Visitor receives a callback for every node and token reached by Walk, in
// depth-first, list-respecting order (spec §4.G: "traversal is depth-first
// and respects list ordering"). VisitNode returning false skips that node's
// children, but the traversal otherwise continues with its siblings.
type Visitor interface {
	VisitNode(t *Tree, kind NodeKind, h arena.Handle[Node]) bool
	VisitToken(tok Token)
}

// Walk performs a depth-first traversal of the subtree rooted at h,
// dispatching each node and token to v.
func Walk(t *Tree, h arena.Handle[Node], v Visitor) {
	if h.IsNil() {
		return
	}
	n := t.Get(h)
	if !v.VisitNode(t, n.Kind, h) {
		return
	}
	for _, c := range n.Children {
		if c.IsToken {
			v.VisitToken(c.Tok)
			continue
		}
		Walk(t, c.Node, v)
	}
}

// funcVisitor adapts two plain functions into a Visitor, for callers that
// want handler dispatch on kind without defining a named type (spec §4.G:
// "generic traversal supports visiting any node type via a handler dispatch
// on kind").
type funcVisitor struct {
	onNode  func(t *Tree, kind NodeKind, h arena.Handle[Node]) bool
	onToken func(tok Token)
}

func (f funcVisitor) VisitNode(t *Tree, kind NodeKind, h arena.Handle[Node]) bool {
	if f.onNode == nil {
		return true
	}
	return f.onNode(t, kind, h)
}

func (f funcVisitor) VisitToken(tok Token) {
	if f.onToken != nil {
		f.onToken(tok)
	}
}

// WalkFunc is the function-based form of Walk.
func WalkFunc(t *Tree, h arena.Handle[Node], onNode func(t *Tree, kind NodeKind, h arena.Handle[Node]) bool, onToken func(tok Token)) {
	Walk(t, h, funcVisitor{onNode: onNode, onToken: onToken})
}
