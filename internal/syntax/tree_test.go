package syntax

import (
	"testing"

	"github.com/VeriOpen/slang/internal/arena"
)

func TestNewNodeLinksParentPointers(t *testing.T) {
	tree := NewTree()
	leaf := tree.NewNode(KindIdentifierName, TokenChild(Token{}))
	parent := tree.NewNode(KindExpressionStatement, NodeChild(leaf))

	if got := tree.Get(leaf).Parent; got != parent {
		t.Fatalf("leaf parent = %v, want %v", got, parent)
	}
	if got := tree.Get(parent).Parent; !got.IsNil() {
		t.Fatalf("root-ish parent = %v, want Nil", got)
	}
}

func TestRewriteSharesUnchangedSubtrees(t *testing.T) {
	tree := NewTree()
	leafA := tree.NewNode(KindIdentifierName, TokenChild(Token{}))
	leafB := tree.NewNode(KindIdentifierName, TokenChild(Token{}))
	root := tree.NewNode(KindBinaryExpression, NodeChild(leafA), NodeChild(leafB))

	out := Rewrite(tree, root, func(t *Tree, kind NodeKind, h arena.Handle[Node]) ([]Child, bool) {
		if h == leafA {
			return []Child{TokenChild(Token{Kind: 7})}, true
		}
		return nil, false
	})

	if out == root {
		t.Fatalf("expected a new root handle once a descendant changed")
	}
	newRoot := tree.Get(out)
	if len(newRoot.Children) != 2 {
		t.Fatalf("new root children = %d, want 2", len(newRoot.Children))
	}
	if left := tree.Get(newRoot.Children[0].Node); newRoot.Children[0].Node == leafA || len(left.Children) != 1 || left.Children[0].Tok.Kind != 7 {
		t.Fatalf("left child = %+v, want a rebuilt leaf holding the replacement token", left)
	}
	if newRoot.Children[1].Node != leafB {
		t.Fatalf("unchanged right child should keep its original handle")
	}
}

func TestWalkVisitsDepthFirstInOrder(t *testing.T) {
	tree := NewTree()
	leafA := tree.NewNode(KindIdentifierName, TokenChild(Token{Kind: 1}))
	leafB := tree.NewNode(KindIdentifierName, TokenChild(Token{Kind: 2}))
	root := tree.NewNode(KindBinaryExpression, NodeChild(leafA), NodeChild(leafB))

	var order []NodeKind
	var tokenKinds []int
	WalkFunc(tree, root,
		func(t *Tree, kind NodeKind, h arena.Handle[Node]) bool {
			order = append(order, kind)
			return true
		},
		func(tok Token) {
			tokenKinds = append(tokenKinds, int(tok.Kind))
		},
	)

	wantOrder := []NodeKind{KindBinaryExpression, KindIdentifierName, KindIdentifierName}
	if len(order) != len(wantOrder) {
		t.Fatalf("visited %v, want %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("visited[%d] = %v, want %v", i, order[i], wantOrder[i])
		}
	}
	if len(tokenKinds) != 2 || tokenKinds[0] != 1 || tokenKinds[1] != 2 {
		t.Fatalf("tokenKinds = %v", tokenKinds)
	}
}
