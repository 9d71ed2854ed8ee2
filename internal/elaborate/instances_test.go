package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
)

func TestElaborateInstanceSharing(t *testing.T) {
	comp, diags := elaborateSource(t, `
module leaf #(parameter int WIDTH = 8);
  wire [WIDTH-1:0] data;
endmodule

module top;
  leaf #(.WIDTH(16)) a(), b();
  leaf #(.WIDTH(16)) c();
  leaf #(.WIDTH(32)) d();
endmodule
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))

	topH, ok := comp.LookupTopLevel("top")
	require.True(t, ok)
	top := comp.Symbol(topH)

	aH, ok := top.Scope.Lookup("a", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	bH, ok := top.Scope.Lookup("b", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	cH, ok := top.Scope.Lookup("c", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	dH, ok := top.Scope.Lookup("d", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)

	a, b, c, d := comp.Symbol(aH), comp.Symbol(bH), comp.Symbol(cH), comp.Symbol(dH)
	require.Equal(t, KindInstanceBody, a.Kind)
	require.Equal(t, int64(16), a.Instance.Params["WIDTH"])
	require.Equal(t, int64(16), b.Instance.Params["WIDTH"])
	require.Equal(t, int64(16), c.Instance.Params["WIDTH"])
	require.Equal(t, int64(32), d.Instance.Params["WIDTH"])

	key16 := instanceKey{def: a.Instance.Definition, params: canonicalizeParams(a.Instance.Params)}
	key32 := instanceKey{def: d.Instance.Definition, params: canonicalizeParams(d.Instance.Params)}
	require.NotEqual(t, key16, key32)

	body16, ok := comp.instanceBodies[key16]
	require.True(t, ok)
	body32, ok := comp.instanceBodies[key32]
	require.True(t, ok)
	require.NotEqual(t, body16, body32)

	names := comp.Symbol(body16).Instance.InstanceNames
	require.ElementsMatch(t, []string{"a", "b", "c"}, names)
}

func TestElaborateModportDirectionRules(t *testing.T) {
	comp, diags := elaborateSource(t, `
interface bus_if;
  wire [7:0] data;
  parameter int P = 1;
  modport master(output data);
  modport bad(output P);
endinterface
`)
	require.True(t, hasCode(diags, diagnostics.CodeModportNotLvalue), "expected a const-output diagnostic, got: %v", codesOf(diags))

	ifH, ok := comp.LookupTopLevel("bus_if")
	require.True(t, ok)
	iface := comp.Symbol(ifH)

	masterH, ok := iface.Scope.Lookup("master", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	master := comp.Symbol(masterH)
	require.Equal(t, KindModport, master.Kind)
	require.NotNil(t, master.Scope)

	dataH, ok := master.Scope.Lookup("data", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	data := comp.Symbol(dataH)
	require.Equal(t, lexer.TokenKwOutput, data.Modport.Direction)
}

func TestElaborateClockingDefaultSkewConflict(t *testing.T) {
	_, diags := elaborateSource(t, `
module m;
  wire clk, a, b;
  clocking cb @(posedge clk);
    default input #1 input #2;
    output a;
  endclocking
endmodule
`)
	require.True(t, hasCode(diags, diagnostics.CodeMultipleDefaultInSkew))
}

func TestElaborateClockingVarDirectionAndDriver(t *testing.T) {
	comp, diags := elaborateSource(t, `
module m;
  wire clk, a;
  clocking cb @(posedge clk);
    output a;
  endclocking
endmodule
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))

	mh, ok := comp.LookupTopLevel("m")
	require.True(t, ok)
	mod := comp.Symbol(mh)
	cbH, ok := mod.Scope.Lookup("cb", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	cb := comp.Symbol(cbH)
	require.Equal(t, KindClockingBlock, cb.Kind)

	aH, ok := cb.Scope.Lookup("a", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	a := comp.Symbol(aH)
	require.Equal(t, KindClockingVar, a.Kind)
	require.True(t, a.ClockingVar.IsDriver)
	require.Equal(t, lexer.TokenKwOutput, a.ClockingVar.Direction)
}

func TestElaborateSequencePortLocalDirectionRejected(t *testing.T) {
	_, diags := elaborateSource(t, `
module m;
  sequence s(local output int x);
    1
  endsequence
endmodule
`)
	require.True(t, hasCode(diags, diagnostics.CodeAssertionPortLocalOutDir))
}

func TestElaborateAssertionPortTypeInheritanceAndUntyped(t *testing.T) {
	comp, diags := elaborateSource(t, `
module m;
  property p(int a, b, untyped c);
    1
  endproperty
endmodule
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))

	mh, ok := comp.LookupTopLevel("m")
	require.True(t, ok)
	mod := comp.Symbol(mh)
	pH, ok := mod.Scope.Lookup("p", 1<<30, LookupAllowDeclaredAfter)
	require.True(t, ok)
	p := comp.Symbol(pH)
	require.Equal(t, KindProperty, p.Kind)
	require.Len(t, p.Assertion.Ports, 3)
	require.NotNil(t, p.Assertion.Ports[0].DeclaredType)
	require.NotNil(t, p.Assertion.Ports[1].DeclaredType)
	require.True(t, p.Assertion.Ports[2].Untyped)
}

func TestElaborateRandSequenceProductions(t *testing.T) {
	comp, diags := elaborateSource(t, `
module m;
  initial begin
    randsequence(main)
      main : first second;
      first : { } := 1;
      second : { } := 2;
    endsequence
  end
endmodule
`)
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %v", codesOf(diags))

	mh, ok := comp.LookupTopLevel("m")
	require.True(t, ok)
	mod := comp.Symbol(mh)

	mainH, ok := mod.Scope.Lookup("main", 1<<30, 0)
	require.True(t, ok)
	main := comp.Symbol(mainH)
	require.Equal(t, KindRandSequenceProduction, main.Kind)
	require.Equal(t, 1, main.RandSeqProd.RuleCount)

	firstH, ok := mod.Scope.Lookup("first", 1<<30, 0)
	require.True(t, ok)
	require.Equal(t, KindRandSequenceProduction, comp.Symbol(firstH).Kind)
}
