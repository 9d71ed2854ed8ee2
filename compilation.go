// Package slang is the programmatic surface consumed by the CLI, bindings,
// and linters (spec §6): build a syntax tree from a path or an in-memory
// string, add it to a compilation, look up a definition by dotted name,
// enumerate definitions/packages, and read back accumulated diagnostics.
// It holds no parsing or elaboration logic of its own — it only wires
// internal/sourcemgr, internal/preprocessor, internal/parser, internal/
// syntax, and internal/elaborate together behind one entry point.
package slang

import (
	"context"
	"errors"
	"strings"

	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/elaborate"
	"github.com/VeriOpen/slang/internal/parser"
	"github.com/VeriOpen/slang/internal/preprocessor"
	"github.com/VeriOpen/slang/internal/sourcemgr"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// ErrNoSuchDefinition is returned by Lookup when a dotted name does not
// resolve to any top-level definition or nested package member.
var ErrNoSuchDefinition = errors.New("slang: no such definition")

// Options configures how a source unit is parsed (spec §6: "optionally with
// a source-manager, macro predefines, and include directories").
type Options struct {
	UserIncludeDirs   []string
	SystemIncludeDirs []string
	Predefines        map[string]string
}

func (o Options) preprocessorConfig() preprocessor.Config {
	return preprocessor.Config{
		UserIncludeDirs:   o.UserIncludeDirs,
		SystemIncludeDirs: o.SystemIncludeDirs,
		Predefines:        o.Predefines,
	}
}

// Compilation is a whole elaborated program: one or more parsed syntax
// trees added to a shared symbol hierarchy, plus every diagnostic produced
// along the way (spec §5: "The arena, source manager, diagnostic engine,
// and symbol/type interners are owned by the compilation").
type Compilation struct {
	SM    *sourcemgr.Manager
	Diags *diagnostics.Bag

	elab  *elaborate.Compilation
	trees []*syntax.Tree
}

// New returns an empty Compilation backed by a fresh source manager and
// diagnostic bag. Pass nil for sm to have one created automatically.
func New(sm *sourcemgr.Manager) *Compilation {
	if sm == nil {
		sm = sourcemgr.NewManager(nil)
	}
	diags := diagnostics.NewBag()
	return &Compilation{SM: sm, Diags: diags, elab: elaborate.New(sm, diags)}
}

// ParseString parses src (registered under display name `name`) and adds
// the resulting tree to the compilation, returning the tree for callers
// that want to walk, rewrite, or print it directly.
func (c *Compilation) ParseString(name, src string, opts Options) *syntax.Tree {
	id := c.SM.LoadMemory(name, []byte(src))
	return c.parseBuffer(id, opts)
}

// ParseFile reads path through the compilation's source manager, parses
// it, and adds the resulting tree to the compilation.
func (c *Compilation) ParseFile(ctx context.Context, path string, opts Options) (*syntax.Tree, error) {
	id, err := c.SM.LoadPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.parseBuffer(id, opts), nil
}

func (c *Compilation) parseBuffer(id text.BufferID, opts Options) *syntax.Tree {
	pp := preprocessor.New(c.SM, id, c.Diags, opts.preprocessorConfig())
	p := parser.New(pp, c.Diags)
	p.ParseCompilationUnit()
	tree := p.Tree()
	c.trees = append(c.trees, tree)
	c.elab.AddTree(tree)
	return tree
}

// Trees returns every syntax tree added to the compilation so far, in the
// order they were added.
func (c *Compilation) Trees() []*syntax.Tree { return c.trees }

// Definitions enumerates every top-level definition (module, interface,
// program, package, primitive) in the compilation, in source order.
func (c *Compilation) Definitions() []elaborate.SymbolHandle {
	return c.elab.Symbol(c.elab.Unit()).Scope.Members()
}

// Lookup resolves a dotted name (e.g. "my_pkg.my_param") against the
// compilation unit scope: the first segment is looked up as a top-level
// definition, and each further segment as a member of the previous
// segment's scope. A name with no dot resolves directly at the top level.
func (c *Compilation) Lookup(dotted string) (elaborate.SymbolHandle, error) {
	segments := strings.Split(dotted, ".")
	h, ok := c.elab.LookupTopLevel(segments[0])
	if !ok {
		return elaborate.SymbolHandle{}, ErrNoSuchDefinition
	}
	for _, seg := range segments[1:] {
		sym := c.elab.Symbol(h)
		if sym.Scope == nil {
			return elaborate.SymbolHandle{}, ErrNoSuchDefinition
		}
		h, ok = sym.Scope.Lookup(seg, 1<<30, elaborate.LookupAllowDeclaredAfter|elaborate.LookupNoParentScope)
		if !ok {
			return elaborate.SymbolHandle{}, ErrNoSuchDefinition
		}
	}
	return h, nil
}

// Symbol dereferences h against the compilation's symbol arena.
func (c *Compilation) Symbol(h elaborate.SymbolHandle) *elaborate.Symbol {
	return c.elab.Symbol(h)
}

// Diagnostics returns every diagnostic accumulated so far, ordered by
// location (spec §6: "Enumerate diagnostics with severities and
// locations").
func (c *Compilation) Diagnostics() []diagnostics.Diagnostic {
	return c.Diags.Sorted()
}

// Walk walks tree starting at h with v (spec §6: "Walk a tree with a
// visitor").
func Walk(tree *syntax.Tree, h arena.Handle[syntax.Node], v syntax.Visitor) {
	syntax.Walk(tree, h, v)
}

// Rewrite applies fn to every node reachable from h and returns the handle
// of the (possibly new) rewritten root (spec §6: "rewrite with a rewriter
// producing a new tree").
func Rewrite(tree *syntax.Tree, h arena.Handle[syntax.Node], fn syntax.RewriteFunc) arena.Handle[syntax.Node] {
	return syntax.Rewrite(tree, h, fn)
}

// Print renders h back to source text (spec §6: "print a tree or subtree
// back to text"; spec §8's round-trip property holds when h is the tree's
// root and nothing has been rewritten).
func (c *Compilation) Print(tree *syntax.Tree, h arena.Handle[syntax.Node]) []byte {
	return syntax.Print(tree, h, c.SM)
}
