package slang

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VeriOpen/slang/internal/elaborate"
)

func TestCompilationParseStringAndLookup(t *testing.T) {
	comp := New(nil)
	tree := comp.ParseString("<test>", `
package p;
  parameter int answer = 42;
endpackage
`, Options{})
	require.NotNil(t, tree)
	require.False(t, comp.Diags.HasErrors())
	require.Len(t, comp.Trees(), 1)

	h, err := comp.Lookup("p.answer")
	require.NoError(t, err)
	sym := comp.Symbol(h)
	require.Equal(t, "answer", sym.Name)
	require.Equal(t, elaborate.KindVariable, sym.Kind)
}

func TestCompilationLookupMissingDefinition(t *testing.T) {
	comp := New(nil)
	comp.ParseString("<test>", "module m; endmodule\n", Options{})

	_, err := comp.Lookup("nope")
	require.ErrorIs(t, err, ErrNoSuchDefinition)

	_, err = comp.Lookup("m.nope")
	require.ErrorIs(t, err, ErrNoSuchDefinition)
}

func TestCompilationDefinitionsEnumeratesTopLevel(t *testing.T) {
	comp := New(nil)
	comp.ParseString("<test>", `
module a; endmodule
module b; endmodule
`, Options{})

	defs := comp.Definitions()
	require.Len(t, defs, 2)
	require.Equal(t, "a", comp.Symbol(defs[0]).Name)
	require.Equal(t, "b", comp.Symbol(defs[1]).Name)
}

func TestCompilationPrintRoundTrips(t *testing.T) {
	comp := New(nil)
	src := "module m;\n  wire a;\nendmodule\n"
	tree := comp.ParseString("<test>", src, Options{})

	out := comp.Print(tree, tree.Root)
	require.Equal(t, src, string(out))
}

func TestCompilationPredefinesReachMacros(t *testing.T) {
	comp := New(nil)
	comp.ParseString("<test>", "module m;\n  parameter int w = `WIDTH;\nendmodule\n", Options{
		Predefines: map[string]string{"WIDTH": "8"},
	})
	require.False(t, comp.Diags.HasErrors())
}
