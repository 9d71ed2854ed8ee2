package syntax

import "github.com/VeriOpen/slang/internal/arena"

// RewriteFunc inspects the node at h (already rewritten children supplied as
// the function's own responsibility to request, via Rewrite's recursion) and
// optionally replaces it. Returning rewritten=false keeps the node, now with
// any already-rewritten children; returning true with a children slice
// discards the original children in favor of the replacement.
type RewriteFunc func(t *Tree, kind NodeKind, h arena.Handle[Node]) (children []Child, rewritten bool)

// Rewrite produces a new subtree by applying fn bottom-up to every node
// under h (spec §4.G: "unchanged subtrees are referenced directly; changed
// subtrees and their ancestors up to the root are re-built"). Nodes are
// immutable once allocated, so an "unchanged" result is literally the same
// arena handle — no allocation — and only nodes on the path from a change up
// to h get a fresh Node appended to the (shared) arena.
func Rewrite(t *Tree, h arena.Handle[Node], fn RewriteFunc) arena.Handle[Node] {
	if h.IsNil() {
		return h
	}
	n := t.Get(h)
	newChildren := make([]Child, len(n.Children))
	changed := false
	for i, c := range n.Children {
		if c.IsToken {
			newChildren[i] = c
			continue
		}
		rewritten := Rewrite(t, c.Node, fn)
		newChildren[i] = NodeChild(rewritten)
		if rewritten != c.Node {
			changed = true
		}
	}
	if repl, ok := fn(t, n.Kind, h); ok {
		return t.NewNode(n.Kind, repl...)
	}
	if !changed {
		return h
	}
	return t.NewNode(n.Kind, newChildren...)
}
