package preprocessor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/viant/afs"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/sourcemgr"
)

func newPreprocessor(t *testing.T, src string, cfg Config) (*Preprocessor, *sourcemgr.Manager, *diagnostics.Bag) {
	t.Helper()
	sm := sourcemgr.NewManager(afs.New())
	id := sm.LoadMemory("top.sv", []byte(src))
	bag := diagnostics.NewBag()
	return New(sm, id, bag, cfg), sm, bag
}

func allKinds(t *testing.T, p *Preprocessor) []lexer.TokenKind {
	t.Helper()
	var kinds []lexer.TokenKind
	for {
		tok := p.Next()
		if tok.Kind == lexer.TokenEOF {
			return kinds
		}
		kinds = append(kinds, tok.Kind)
	}
}

func allBytes(t *testing.T, p *Preprocessor, sm *sourcemgr.Manager) []string {
	t.Helper()
	var out []string
	for {
		tok := p.Next()
		if tok.Kind == lexer.TokenEOF {
			return out
		}
		out = append(out, string(tok.Bytes(sm)))
	}
}

func TestObjectLikeMacroExpandsToItsBody(t *testing.T) {
	t.Parallel()
	p, sm, bag := newPreprocessor(t, "`define WIDTH 8\nlogic [`WIDTH-1:0] x;", Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	want := []string{"logic", "[", "8", "-", "1", ":", "0", "]", "x", ";"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestFunctionLikeMacroSubstitutesArguments(t *testing.T) {
	t.Parallel()
	p, sm, bag := newPreprocessor(t, "`define MAX(a,b) ((a) > (b) ? (a) : (b))\n`MAX(x, y)", Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	joined := ""
	for _, s := range got {
		joined += s
	}
	if joined != "((x)>(y)?(x):(y))" {
		t.Fatalf("expanded = %q", joined)
	}
}

func TestFunctionLikeMacroUsesParameterDefault(t *testing.T) {
	t.Parallel()
	p, sm, bag := newPreprocessor(t, "`define INC(a,b=1) ((a)+(b))\n`INC(x)", Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	joined := ""
	for _, s := range got {
		joined += s
	}
	if joined != "((x)+(1))" {
		t.Fatalf("expanded = %q", joined)
	}
}

func TestTooFewMacroArgumentsReportsDiagnostic(t *testing.T) {
	t.Parallel()
	p, _, bag := newPreprocessor(t, "`define PAIR(a,b) a b\n`PAIR(x)", Config{})
	_ = allKinds(t, p)
	if bag.Len() != 1 || bag.All()[0].Code != diagnostics.CodeTooFewMacroArgs {
		t.Fatalf("diagnostics = %+v", bag.All())
	}
}

func TestRecursiveMacroEmitsInvocationVerbatim(t *testing.T) {
	t.Parallel()
	p, sm, bag := newPreprocessor(t, "`define LOOP `LOOP\n`LOOP", Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 1 || got[0] != "`LOOP" {
		t.Fatalf("got %v, want one verbatim `LOOP token", got)
	}
}

func TestIfdefTakesTrueBranchOnly(t *testing.T) {
	t.Parallel()
	src := "`define FOO\n`ifdef FOO\nA\n`else\nB\n`endif\n"
	p, sm, bag := newPreprocessor(t, src, Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 1 || got[0] != "A" {
		t.Fatalf("got %v, want [A]", got)
	}
}

func TestIfndefElsifElseChain(t *testing.T) {
	t.Parallel()
	src := "`ifndef FOO\n`ifdef BAR\nX\n`elsif BAZ\nY\n`else\nZ\n`endif\n`endif\n"
	p, sm, bag := newPreprocessor(t, src, Config{Predefines: map[string]string{"BAZ": "1"}})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 1 || got[0] != "Y" {
		t.Fatalf("got %v, want [Y]", got)
	}
}

func TestDisabledRegionTracksNestingAcrossUnknownDirectives(t *testing.T) {
	t.Parallel()
	// Inside a taken-false region, a directive this front end otherwise
	// wouldn't recognize must not be reported: it's accumulated as disabled
	// text, not processed.
	src := "`ifdef NOPE\n`totally_unknown_directive_xyz\n`endif\nkept;"
	p, sm, bag := newPreprocessor(t, src, Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 2 || got[0] != "kept" || got[1] != ";" {
		t.Fatalf("got %v", got)
	}
}

func TestUndefRemovesMacro(t *testing.T) {
	t.Parallel()
	p, _, bag := newPreprocessor(t, "`define FOO 1\n`undef FOO\n`ifdef FOO\nA\n`else\nB\n`endif\n", Config{})
	got := allKinds(t, p)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 1 || got[0] != lexer.TokenIdentifier {
		t.Fatalf("got %v", got)
	}
}

func TestTokenPasteConcatenatesAdjacentIdentifiers(t *testing.T) {
	t.Parallel()
	p, sm, bag := newPreprocessor(t, "`define CAT(a,b) a``b\n`CAT(foo,bar)", Config{})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 1 || got[0] != "foobar" {
		t.Fatalf("got %v, want one pasted token \"foobar\"", got)
	}
}

func TestStringifyOperatorProducesOneStringLiteral(t *testing.T) {
	t.Parallel()
	p, _, bag := newPreprocessor(t, "`define STR(x) `\"x`\"\n`STR(hello world)", Config{})
	var lastTok Token
	for {
		tok := p.Next()
		if tok.Kind == lexer.TokenEOF {
			break
		}
		lastTok = tok
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if lastTok.Kind != lexer.TokenStringLiteral || lastTok.Literal == nil || lastTok.Literal.Decoded != "hello world" {
		t.Fatalf("lastTok = %+v", lastTok)
	}
}

func TestIncludeSplicesInNestedFileTokens(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "defs.svh"), []byte("`define FOO 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sm := sourcemgr.NewManager(afs.New())
	id := sm.LoadMemory("top.sv", []byte("a `include \"defs.svh\"\nb `FOO"))
	bag := diagnostics.NewBag()
	p := New(sm, id, bag, Config{UserIncludeDirs: []string{dir}})
	got := allBytes(t, p, sm)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "1" {
		t.Fatalf("got %v", got)
	}
}

func TestUndefinedMacroReportsUnknownDirectiveByDefault(t *testing.T) {
	t.Parallel()
	p, _, bag := newPreprocessor(t, "`NOT_A_MACRO", Config{})
	_ = allKinds(t, p)
	if bag.Len() != 1 || bag.All()[0].Code != diagnostics.CodeUnknownDirective {
		t.Fatalf("diagnostics = %+v", bag.All())
	}
}

func TestUndefinedMacroReportsUndefinedMacroInStrictMode(t *testing.T) {
	t.Parallel()
	p, _, bag := newPreprocessor(t, "`NOT_A_MACRO", Config{StrictUndefinedMacro: true})
	_ = allKinds(t, p)
	if bag.Len() != 1 || bag.All()[0].Code != diagnostics.CodeUndefinedMacro {
		t.Fatalf("diagnostics = %+v", bag.All())
	}
}
