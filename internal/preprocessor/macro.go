package preprocessor

import (
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/text"
)

// MacroDef is one `` `define `` entry (spec §4.E: "a macro table mapping
// name -> definition (parameter list optional, default values optional,
// replacement token list)").
type MacroDef struct {
	Name       string
	Params     []string        // nil for an object-like (parameterless) macro
	Defaults   [][]lexer.Token // Defaults[i] is param i's default token list; nil if none
	HasDefault []bool
	Body       []lexer.Token
	// Src holds the source bytes Body's (and Defaults') token Spans index
	// into: the buffer active when `define was parsed, which is generally
	// not the buffer of whatever frame later invokes the macro.
	Src       []byte
	DefinedAt text.Location
}

// IsFunctionLike reports whether the macro takes an argument list, i.e. was
// defined as `` `define NAME(params) ... `` with no space before '('.
func (m *MacroDef) IsFunctionLike() bool { return m.Params != nil }

// sameDefinition reports whether two definitions are textually identical
// (spelling of params and body, ignoring trivia and source position),
// matching the LRM's redefinition-without-warning rule.
func (m *MacroDef) sameDefinition(other *MacroDef, srcA, srcB []byte) bool {
	if len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != other.Params[i] {
			return false
		}
	}
	if len(m.Body) != len(other.Body) {
		return false
	}
	for i := range m.Body {
		if string(m.Body[i].Bytes(srcA)) != string(other.Body[i].Bytes(srcB)) {
			return false
		}
	}
	return true
}

// MacroTable holds every macro currently defined, keyed by name.
type MacroTable struct {
	defs map[string]*MacroDef
}

// NewMacroTable returns an empty table.
func NewMacroTable() *MacroTable {
	return &MacroTable{defs: make(map[string]*MacroDef)}
}

// Define installs def, returning the previous definition (or nil) so the
// caller can check sameDefinition before reporting MacroRedefinition.
func (t *MacroTable) Define(def *MacroDef) *MacroDef {
	prev := t.defs[def.Name]
	t.defs[def.Name] = def
	return prev
}

// Undef removes name, reporting whether it had been defined.
func (t *MacroTable) Undef(name string) bool {
	if _, ok := t.defs[name]; !ok {
		return false
	}
	delete(t.defs, name)
	return true
}

// UndefAll clears every macro, implementing `` `undefineall ``.
func (t *MacroTable) UndefAll() {
	t.defs = make(map[string]*MacroDef)
}

// Lookup returns name's definition, or (nil, false) if undefined.
func (t *MacroTable) Lookup(name string) (*MacroDef, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// Snapshot returns the names of every currently-defined macro, implementing
// `` defined_macros() ``.
func (t *MacroTable) Snapshot() []string {
	names := make([]string, 0, len(t.defs))
	for name := range t.defs {
		names = append(names, name)
	}
	return names
}
