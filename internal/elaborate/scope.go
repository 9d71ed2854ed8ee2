package elaborate

// LookupFlag modifies Scope.Lookup (spec §4.H: "Unqualified lookup at a
// given 'lookup location'... with optional flags: allow-declared-after,
// no-parent-scope").
type LookupFlag uint8

const (
	LookupAllowDeclaredAfter LookupFlag = 1 << iota
	LookupNoParentScope
)

// Scope is a symbol that also owns an ordered member list and a
// name-to-member lookup table (spec §4.H: "A scope is a symbol that also
// contains an ordered list of member symbols and a name-to-member lookup").
type Scope struct {
	owner   SymbolHandle
	parent  *Scope
	comp    *Compilation
	members []SymbolHandle
	byName  map[string][]SymbolHandle // declaration order per name

	imports         []SymbolHandle // explicit and wildcard Import symbols, in source order
}

func newScope(comp *Compilation, owner SymbolHandle, parent *Scope) *Scope {
	return &Scope{owner: owner, parent: parent, comp: comp, byName: make(map[string][]SymbolHandle)}
}

// AddMember appends h to the scope in source order (spec §4.H: "Adding
// members (pushing in source order)").
func (s *Scope) AddMember(h SymbolHandle) {
	s.members = append(s.members, h)
	sym := s.comp.Symbol(h)
	sym.Parent = s.owner
	if sym.Name != "" {
		s.byName[sym.Name] = append(s.byName[sym.Name], h)
	}
	if sym.Kind == KindImport {
		s.imports = append(s.imports, h)
	}
}

// Members returns the scope's members in source order.
func (s *Scope) Members() []SymbolHandle { return s.members }

// Lookup resolves name visible at lookupOffset (a byte offset in source
// order used as the "lookup location"; spec §4.H / §5: "restricts
// visibility to members whose source position precedes that location,
// except for names flagged as allow-declared-after"); a member whose name
// starts exactly at lookupOffset is visible as well. It tries this
// scope's own members first, then explicit imports, then wildcard imports,
// then (unless LookupNoParentScope) the parent scope.
func (s *Scope) Lookup(name string, lookupOffset int, flags LookupFlag) (SymbolHandle, bool) {
	if h, ok := s.lookupLocal(name, lookupOffset, flags); ok {
		return h, true
	}
	if h, ok := s.lookupImports(name, lookupOffset, flags); ok {
		return h, true
	}
	if flags&LookupNoParentScope != 0 || s.parent == nil {
		return SymbolHandle{}, false
	}
	return s.parent.Lookup(name, lookupOffset, flags)
}

func (s *Scope) lookupLocal(name string, lookupOffset int, flags LookupFlag) (SymbolHandle, bool) {
	candidates := s.byName[name]
	for i := len(candidates) - 1; i >= 0; i-- {
		h := candidates[i]
		sym := s.comp.Symbol(h)
		if flags&LookupAllowDeclaredAfter != 0 || allowsDeclaredAfter(sym.Kind) || int(sym.Range.Start.Offset) <= lookupOffset {
			return h, true
		}
	}
	return SymbolHandle{}, false
}

// allowsDeclaredAfter reports whether a symbol kind is visible regardless
// of declaration order (spec §5: "functions, productions, let declarations
// in certain contexts").
func allowsDeclaredAfter(k Kind) bool {
	switch k {
	case KindSequence, KindProperty, KindLet, KindRandSequenceProduction:
		return true
	default:
		return false
	}
}

func (s *Scope) lookupImports(name string, lookupOffset int, flags LookupFlag) (SymbolHandle, bool) {
	// Explicit (named) imports resolve before wildcard imports.
	for _, ih := range s.imports {
		imp := s.comp.Symbol(ih).Import
		if imp == nil || imp.Wildcard || imp.MemberName != name {
			continue
		}
		if pkg, ok := s.resolveImportPackage(imp); ok {
			if h, ok := pkg.Scope.lookupLocal(name, lookupOffset, flags|LookupAllowDeclaredAfter); ok {
				return h, true
			}
		}
	}
	for _, ih := range s.imports {
		imp := s.comp.Symbol(ih).Import
		if imp == nil || !imp.Wildcard {
			continue
		}
		if pkg, ok := s.resolveImportPackage(imp); ok {
			if h, ok := pkg.Scope.lookupLocal(name, lookupOffset, flags|LookupAllowDeclaredAfter); ok {
				return h, true
			}
		}
	}
	return SymbolHandle{}, false
}

func (s *Scope) resolveImportPackage(imp *ImportData) (*Symbol, bool) {
	if !imp.Package.IsNil() {
		return s.comp.Symbol(imp.Package), true
	}
	h, ok := s.comp.units.Lookup(imp.PackageName, 1<<30, LookupAllowDeclaredAfter)
	if !ok {
		return nil, false
	}
	imp.Package = h
	return s.comp.Symbol(h), true
}
