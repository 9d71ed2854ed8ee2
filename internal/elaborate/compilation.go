package elaborate

import (
	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/sourcemgr"
	"github.com/VeriOpen/slang/internal/syntax"
)

// Compilation owns the elaborated hierarchy built from one or more parsed
// syntax trees: the symbol arena, the compilation-unit scope every
// top-level definition is added to, and the diagnostic bag elaboration
// reports into (spec §5: "The arena, source manager, diagnostic engine,
// and symbol/type interners are owned by the compilation").
type Compilation struct {
	SM    *sourcemgr.Manager
	Diags *diagnostics.Bag

	symbols *arena.Arena[Symbol]
	unit    SymbolHandle
	units   *Scope

	// defaultNettype is the nettype new implicit nets are created with
	// (spec §4.H: "Continuous assignments may create implicit nets on
	// their LHS when the default nettype is not none"). nil means "none".
	defaultNettype *Type

	timescale *timescaleState

	// nettypeCells caches the lazy DeclaredType resolving each user-defined
	// nettype's element type, keyed by the nettype's own symbol. Looking a
	// chained nettype reference up through this cache (rather than reading
	// NettypeData.ElementType directly) is what lets a cycle between two
	// nettypes be caught by DeclaredType's in-progress guard instead of
	// recursing forever.
	nettypeCells map[SymbolHandle]*DeclaredType

	// instanceBodies caches one instance-body symbol per (definition,
	// evaluated parameter bindings) pair (spec §4.H: "Two instances with
	// identical parameter bindings share a body").
	instanceBodies map[instanceKey]SymbolHandle
}

// instanceKey identifies one parameter binding of a module/interface/program
// definition: the defining symbol plus a canonical rendering of every bound
// parameter's evaluated value. Two instantiations that produce equal keys
// share one KindInstanceBody symbol.
type instanceKey struct {
	def    SymbolHandle
	params string
}

type timescaleState struct {
	unit, precision string
}

// New returns an empty Compilation rooted at a fresh compilation-unit scope.
func New(sm *sourcemgr.Manager, diags *diagnostics.Bag) *Compilation {
	c := &Compilation{
		SM: sm, Diags: diags,
		symbols:        arena.NewArena[Symbol](64),
		defaultNettype: builtinType_wire(),
		nettypeCells:   make(map[SymbolHandle]*DeclaredType),
		instanceBodies: make(map[instanceKey]SymbolHandle),
	}
	unit := &Symbol{Kind: KindCompilationUnit, Name: "$unit"}
	c.unit = c.symbols.New(*unit)
	c.units = newScope(c, c.unit, nil)
	c.Symbol(c.unit).Scope = c.units
	return c
}

func builtinType_wire() *Type {
	return &Type{Kind: TypeKindIntegral, Name: "wire", BitWidth: 1}
}

// Symbol dereferences h.
func (c *Compilation) Symbol(h SymbolHandle) *Symbol { return c.symbols.Get(h) }

// Unit returns the root compilation-unit symbol/scope.
func (c *Compilation) Unit() SymbolHandle { return c.unit }

func (c *Compilation) newSymbol(sym Symbol) SymbolHandle { return c.symbols.New(sym) }

// AddTree elaborates every top-level definition in tree's compilation unit,
// adding them to the shared compilation-unit scope (spec §6: "Add a syntax
// tree to a compilation").
func (c *Compilation) AddTree(tree *syntax.Tree) {
	root := tree.Get(tree.Root)
	if root.Kind != syntax.KindCompilationUnit {
		return
	}
	for _, child := range root.Children {
		if child.IsToken {
			continue
		}
		c.elaborateTopLevel(tree, child.Node)
	}
}

// LookupTopLevel resolves a top-level definition name (module, interface,
// program, package, primitive) directly in the compilation-unit scope.
func (c *Compilation) LookupTopLevel(name string) (SymbolHandle, bool) {
	return c.units.Lookup(name, 1<<30, LookupAllowDeclaredAfter)
}
