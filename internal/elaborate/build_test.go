package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/parser"
	"github.com/VeriOpen/slang/internal/preprocessor"
	"github.com/VeriOpen/slang/internal/sourcemgr"
	"github.com/VeriOpen/slang/internal/text"
)

// elaborateSource runs the full pipeline (preprocessor -> parser ->
// elaborate) over src and returns the resulting Compilation plus its
// diagnostic bag, mirroring the seed tests' "feed source text in, inspect
// symbols/diagnostics out" shape (spec §8).
func elaborateSource(t *testing.T, src string) (*Compilation, *diagnostics.Bag) {
	t.Helper()
	sm := sourcemgr.NewManager(nil)
	id := sm.LoadMemory("<test>", []byte(src))
	diags := diagnostics.NewBag()

	pp := preprocessor.New(sm, id, diags, preprocessor.Config{})
	p := parser.New(pp, diags)
	p.ParseCompilationUnit()

	comp := New(sm, diags)
	comp.AddTree(p.Tree())
	return comp, diags
}

func codesOf(diags *diagnostics.Bag) []diagnostics.Code {
	var out []diagnostics.Code
	for _, d := range diags.All() {
		out = append(out, d.Code)
	}
	return out
}

func hasCode(diags *diagnostics.Bag, code diagnostics.Code) bool {
	for _, d := range diags.All() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestElaborateModuleWithNetsAndAssign(t *testing.T) {
	comp, diags := elaborateSource(t, `
module adder;
  wire a, b;
  wire sum;
  assign sum = a;
endmodule
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))

	mh, ok := comp.LookupTopLevel("adder")
	require.True(t, ok)
	mod := comp.Symbol(mh)
	require.Equal(t, KindModule, mod.Kind)
	require.NotNil(t, mod.Scope)

	sumH, ok := mod.Scope.Lookup("sum", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	sum := comp.Symbol(sumH)
	require.Equal(t, KindNet, sum.Kind)
	require.NotNil(t, sum.Value)
	typ := sum.Value.DeclaredType.Type(diags, sum.Range)
	require.Equal(t, 1, typ.BitWidth)
}

func TestElaborateMacroExpandedConstant(t *testing.T) {
	comp, diags := elaborateSource(t, "`define WIDTH 1+3\nmodule m;\n  parameter int w = `WIDTH;\nendmodule\n")
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))

	mh, ok := comp.LookupTopLevel("m")
	require.True(t, ok)
	mod := comp.Symbol(mh)
	wH, ok := mod.Scope.Lookup("w", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	w := comp.Symbol(wH)
	require.NotEqual(t, nodeHandle{}, w.Value.Initializer)
}

func TestElaborateImplicitNetFromContinuousAssign(t *testing.T) {
	comp, diags := elaborateSource(t, `
module m;
  wire a;
  assign y = a;
endmodule
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))
	mh, _ := comp.LookupTopLevel("m")
	mod := comp.Symbol(mh)
	yH, ok := mod.Scope.Lookup("y", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	y := comp.Symbol(yH)
	require.Equal(t, KindNet, y.Kind)
	require.True(t, y.Value.Flags&FlagCompilerGenerated != 0)
}

func TestElaborateTimescaleMismatchReported(t *testing.T) {
	_, diags := elaborateSource(t, `
module a;
  timeunit 1ns;
endmodule
module b;
  timeunit 1ps;
endmodule
`)
	require.True(t, hasCode(diags, diagnostics.CodeMismatchedTimeScales))
}

func TestElaborateUdpSequentialClassification(t *testing.T) {
	comp, diags := elaborateSource(t, `
primitive dff (q, clk, d);
  output q;
  reg q;
  input clk, d;
  initial q = 0;
endprimitive
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))
	h, ok := comp.LookupTopLevel("dff")
	require.True(t, ok)
	prim := comp.Symbol(h)
	require.Equal(t, KindPrimitive, prim.Kind)
	require.NotNil(t, prim.Udp)
	require.True(t, prim.Udp.Sequential)
	require.Equal(t, "q", prim.Udp.OutputPort)
	require.ElementsMatch(t, []string{"clk", "d"}, prim.Udp.InputPorts)
	require.Equal(t, byte('0'), prim.Udp.InitialValue)
}

func TestElaborateUdpWildcardPortListRejected(t *testing.T) {
	_, diags := elaborateSource(t, `
primitive bad (.*);
  output q;
  input a;
endprimitive
`)
	require.True(t, hasCode(diags, diagnostics.CodeUnsupportedUdpPortList))
}

func TestElaborateNonAnsiPortInAnsiModuleFlagged(t *testing.T) {
	_, diags := elaborateSource(t, `
module m(input a, output b);
  input c;
endmodule
`)
	require.True(t, hasCode(diags, diagnostics.CodePortDeclInANSIModule))
}

func TestElaborateNettypeSelfReferenceCycleDetected(t *testing.T) {
	_, diags := elaborateSource(t, `
package p;
  nettype foo foo;
endpackage
`)
	require.True(t, hasCode(diags, diagnostics.CodeRecursiveDefinition))
}

func TestScopeLookupRespectsDeclarationOrder(t *testing.T) {
	comp, _ := elaborateSource(t, `
module m;
  wire a;
  wire b;
endmodule
`)
	mh, _ := comp.LookupTopLevel("m")
	mod := comp.Symbol(mh)
	aH, _ := mod.Scope.Lookup("a", 1<<30, LookupAllowDeclaredAfter)
	a := comp.Symbol(aH)

	_, ok := mod.Scope.Lookup("b", int(a.Range.Start.Offset), 0)
	require.False(t, ok, "b should not be visible before its own declaration")

	_, ok = mod.Scope.Lookup("a", int(a.Range.Start.Offset)+1000, 0)
	require.True(t, ok)
}

func TestDeclaredTypeCycleGuard(t *testing.T) {
	var dtA, dtB *DeclaredType
	dtA = NewDeclaredType(func() *Type { return dtB.Type(nil, text.Range{}) })
	dtB = NewDeclaredType(func() *Type { return dtA.Type(nil, text.Range{}) })

	diags := diagnostics.NewBag()
	got := dtA.Type(diags, text.Range{})
	require.Nil(t, got)
	require.True(t, hasCode(diags, diagnostics.CodeRecursiveDefinition))
}
