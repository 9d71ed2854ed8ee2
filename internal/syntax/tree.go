package syntax

import (
	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/preprocessor"
)

// Token is a leaf of the syntax tree: a preprocessor-stage token together
// with its buffer-located trivia. The preprocessor already produces exactly
// this shape (spec §3's Token carries raw text view, range, decoded value,
// synthetic flag, and leading trivia list), so the syntax tree reuses it
// directly instead of wrapping it a second time.
type Token = preprocessor.Token

// Trivia is buffer-located trivia attached to a Token's Leading slice.
type Trivia = preprocessor.Trivia

// Child is one entry of a Node's children: either a Token leaf or a handle
// to another Node. Exactly one of the two is meaningful, selected by IsToken.
type Child struct {
	IsToken bool
	Tok     Token
	Node    arena.Handle[Node]
}

// TokenChild wraps tok as a leaf child.
func TokenChild(tok Token) Child { return Child{IsToken: true, Tok: tok} }

// NodeChild wraps h as a node child.
func NodeChild(h arena.Handle[Node]) Child { return Child{Node: h} }

// Node is one production instance: a kind tag, a parent back-link (nil only
// at the root, spec §3 invariant 1), and an ordered child list mixing tokens
// and subnodes. Grammar lists (spec §3: homogeneous node list, token list,
// separated list) are themselves Nodes of kind KindNodeList/KindTokenList/
// KindSeparatedList whose Children hold the list's elements (and, for a
// separated list, the interleaved delimiter tokens).
type Node struct {
	Kind     NodeKind
	Parent   arena.Handle[Node]
	Children []Child
}

// Tree owns every Node reachable from Root, allocated from a single arena
// for the lifetime of the compilation that built it (spec §3: "Lifecycle").
type Tree struct {
	Nodes *arena.Arena[Node]
	Root  arena.Handle[Node]
}

// NewTree returns an empty tree ready to have its root set by the parser's
// top-level entry point.
func NewTree() *Tree {
	return &Tree{Nodes: arena.NewArena[Node](0)}
}

// NewNode allocates a Node of kind with the given children, links every
// child Node's Parent back to it, and returns its handle. This is the single
// construction path every parser production goes through, which is what
// makes "every node built by the parser sets parent pointers on its
// children before being returned" (spec §4.F) true by construction rather
// than by convention.
func (t *Tree) NewNode(kind NodeKind, children ...Child) arena.Handle[Node] {
	h := t.Nodes.New(Node{Kind: kind, Children: children})
	for _, c := range children {
		if !c.IsToken && !c.Node.IsNil() {
			t.Nodes.Get(c.Node).Parent = h
		}
	}
	return h
}

// Get dereferences h.
func (t *Tree) Get(h arena.Handle[Node]) *Node { return t.Nodes.Get(h) }

// SetRoot records h as the tree's root. The root's own Parent stays Nil,
// matching spec §3 invariant 1 ("null only at the root").
func (t *Tree) SetRoot(h arena.Handle[Node]) { t.Root = h }
