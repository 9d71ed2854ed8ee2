package parser

import (
	"testing"

	"github.com/viant/afs"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/preprocessor"
	"github.com/VeriOpen/slang/internal/sourcemgr"
	"github.com/VeriOpen/slang/internal/syntax"
)

func newParser(t *testing.T, src string) (*Parser, *sourcemgr.Manager, *diagnostics.Bag) {
	t.Helper()
	sm := sourcemgr.NewManager(afs.New())
	id := sm.LoadMemory("top.sv", []byte(src))
	bag := diagnostics.NewBag()
	pp := preprocessor.New(sm, id, bag, preprocessor.Config{})
	return New(pp, bag), sm, bag
}

func TestParseModuleRoundTrips(t *testing.T) {
	t.Parallel()
	src := "module m(input logic clk, output wire q);\n  wire n;\n  assign n = clk;\n  assign q = n;\nendmodule\n"
	p, sm, bag := newParser(t, src)
	root := p.ParseCompilationUnit()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	got := string(syntax.Print(p.Tree(), root, sm))
	if got != src {
		t.Fatalf("round trip mismatch:\n got: %q\nwant: %q", got, src)
	}
}

func TestParseModuleNonAnsiPorts(t *testing.T) {
	t.Parallel()
	src := "module m(a, b);\n  input a;\n  output b;\nendmodule\n"
	p, sm, bag := newParser(t, src)
	root := p.ParseCompilationUnit()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	got := string(syntax.Print(p.Tree(), root, sm))
	if got != src {
		t.Fatalf("round trip mismatch:\n got: %q\nwant: %q", got, src)
	}
}

func TestParseBinaryExpressionPrecedence(t *testing.T) {
	t.Parallel()
	p, _, bag := newParser(t, "a + b * c")
	root := p.ParseExpression()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	tree := p.Tree()
	n := tree.Get(root)
	if n.Kind != syntax.KindBinaryExpression {
		t.Fatalf("root kind = %v, want BinaryExpression", n.Kind)
	}
	// children: [lhs, '+', rhs]; rhs should itself be a '*' BinaryExpression
	// since '*' binds tighter than '+'.
	rhs := n.Children[2]
	if rhs.IsToken {
		t.Fatalf("rhs is a token, want a nested BinaryExpression node")
	}
	rhsNode := tree.Get(rhs.Node)
	if rhsNode.Kind != syntax.KindBinaryExpression {
		t.Fatalf("rhs kind = %v, want BinaryExpression", rhsNode.Kind)
	}
}

func TestParseConditionalExpressionNestsRight(t *testing.T) {
	t.Parallel()
	p, _, bag := newParser(t, "a ? b : c ? d : e")
	root := p.ParseExpression()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	tree := p.Tree()
	n := tree.Get(root)
	if n.Kind != syntax.KindConditionalExpression {
		t.Fatalf("root kind = %v, want ConditionalExpression", n.Kind)
	}
	elseChild := n.Children[4]
	if elseChild.IsToken {
		t.Fatalf("else branch is a token, want nested ConditionalExpression")
	}
	if tree.Get(elseChild.Node).Kind != syntax.KindConditionalExpression {
		t.Fatalf("else branch kind = %v, want ConditionalExpression", tree.Get(elseChild.Node).Kind)
	}
}

func TestParseMissingSemicolonReportsAndRecovers(t *testing.T) {
	t.Parallel()
	src := "module m()\n  wire n;\nendmodule\n"
	p, _, bag := newParser(t, src)
	p.ParseCompilationUnit()
	if bag.Len() == 0 {
		t.Fatalf("expected a diagnostic for the missing ';' after the module header")
	}
	found := false
	for _, d := range bag.All() {
		if d.Code == diagnostics.CodeExpectedToken {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeExpectedToken among diagnostics, got %+v", bag.All())
	}
}

func TestParseSkipsUnexpectedTokenAsTrivia(t *testing.T) {
	t.Parallel()
	// A stray '@' before the semicolon is not a valid continuation of the
	// assignment, so the statement parser should skip it as trivia and
	// still find the closing ';'.
	p, _, bag := newParser(t, "assign a = b @ ;")
	p.next() // 'assign'
	assignment := p.parseNetAssignment()
	if assignment.IsNil() {
		t.Fatalf("expected a NetAssignment node")
	}
	semi := p.expectSemi()
	if len(semi.Leading) == 0 {
		t.Fatalf("expected skipped-token trivia attached to the ';' token")
	}
	if bag.Len() == 0 {
		t.Fatalf("expected at least one diagnostic from the stray token")
	}
}

func TestParseReplicationExpression(t *testing.T) {
	t.Parallel()
	p, _, bag := newParser(t, "{4{a}}")
	root := p.ParseExpression()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if p.Tree().Get(root).Kind != syntax.KindReplicationExpression {
		t.Fatalf("root kind = %v, want ReplicationExpression", p.Tree().Get(root).Kind)
	}
}
