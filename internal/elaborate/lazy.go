package elaborate

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/text"
)

// cellState is the three states a lazily-computed field moves through (spec
// §9: "a 'not-yet-computed / in-progress / computed' three-state cell per
// field, with in-progress acting as the cycle guard").
type cellState uint8

const (
	cellUnresolved cellState = iota
	cellInProgress
	cellResolved
)

// Cell is a generic memoized lazy value. Resolve runs compute at most once;
// re-entrant calls while compute is still running (a genuine dependency
// cycle) return the zero value and false instead of recursing forever.
type Cell[T any] struct {
	state cellState
	value T
}

// Resolve returns the memoized value, computing it with compute on first
// call. ok is false only when compute is already in progress (a cycle).
func (c *Cell[T]) Resolve(compute func() T) (T, bool) {
	switch c.state {
	case cellResolved:
		return c.value, true
	case cellInProgress:
		var zero T
		return zero, false
	}
	c.state = cellInProgress
	c.value = compute()
	c.state = cellResolved
	return c.value, true
}

// IsResolved reports whether Resolve has already completed for this cell.
func (c *Cell[T]) IsResolved() bool { return c.state == cellResolved }

// DeclaredType models spec §4.H's three states for a value symbol's type:
// unresolved (only syntax available), linked (an alias of another
// DeclaredType), or resolved (a concrete *Type). Resolution is lazy,
// recursion-guarded via the embedded Cell, and idempotent.
type DeclaredType struct {
	cell Cell[*Type]

	// link, when non-nil, makes this DeclaredType an alias: Resolve defers
	// to link's own resolution instead of running resolve.
	link *DeclaredType

	// Flags control policy during resolution (spec §4.H: "require-sequence-
	// type, interface-variable, net-type, automatic-initializer,
	// formal-arg-merge-var").
	Flags DeclaredTypeFlag

	resolveFn func() *Type
}

// DeclaredTypeFlag is a bit in DeclaredType.Flags.
type DeclaredTypeFlag uint8

const (
	DTFRequireSequenceType DeclaredTypeFlag = 1 << iota
	DTFInterfaceVariable
	DTFNetType
	DTFAutomaticInitializer
	DTFFormalArgMergeVar
)

// NewDeclaredType returns a DeclaredType that computes its concrete Type by
// calling resolveFn exactly once, the first time Resolve or Type is called.
func NewDeclaredType(resolveFn func() *Type) *DeclaredType {
	return &DeclaredType{resolveFn: resolveFn}
}

// LinkTo makes dt an alias of other: resolving dt resolves other instead.
func (dt *DeclaredType) LinkTo(other *DeclaredType) { dt.link = other }

// Type returns the resolved concrete type, or nil and reports
// CodeRecursiveDefinition against bag at rng if resolving dt would require
// resolving dt itself (a cycle).
func (dt *DeclaredType) Type(bag *diagnostics.Bag, rng text.Range) *Type {
	if dt.link != nil {
		return dt.link.Type(bag, rng)
	}
	t, ok := dt.cell.Resolve(dt.resolveFn)
	if !ok {
		if bag != nil {
			diagnostics.ReportError(bag, diagnostics.CodeRecursiveDefinition, rng,
				"recursive type definition").Emit()
		}
		return nil
	}
	return t
}
