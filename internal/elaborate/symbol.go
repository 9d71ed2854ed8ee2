// Package elaborate implements spec §4.H: the symbol/elaboration layer that
// resolves a parsed syntax tree's declarations into a typed hierarchy of
// scopes and symbols. Every cross-reference between symbols (a net's
// nettype, an import's source package, a modport's bound member) is a
// non-owning arena.Handle rather than a pointer, matching spec §9's "all
// cross-references are non-owning handles into the compilation's arena".
package elaborate

import (
	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// SymbolHandle is a non-owning reference to a Symbol in a Compilation's arena.
type SymbolHandle = arena.Handle[Symbol]

// Kind discriminates a Symbol's concrete variety (spec §9: "a closed
// discriminant tag plus kind-gated downcasts"). Common behavior (is this a
// scope? is this a value symbol?) is expressed through the narrow
// capability queries below rather than a deep type hierarchy.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindCompilationUnit
	KindPackage
	KindModule
	KindInterface
	KindProgram
	KindPrimitive
	KindInstanceBody
	KindVariable
	KindNet
	KindField
	KindFormalArgument
	KindGenvar
	KindContinuousAssign
	KindEmptyMember
	KindElabSystemTask
	KindNettype
	KindImport
	KindModport
	KindClockingBlock
	KindClockingVar
	KindSequence
	KindProperty
	KindLet
	KindRandSequenceProduction
	KindUdpOutputPort
	KindUdpInputPort
)

func (k Kind) String() string {
	switch k {
	case KindCompilationUnit:
		return "CompilationUnit"
	case KindPackage:
		return "Package"
	case KindModule:
		return "Module"
	case KindInterface:
		return "Interface"
	case KindProgram:
		return "Program"
	case KindPrimitive:
		return "Primitive"
	case KindInstanceBody:
		return "InstanceBody"
	case KindVariable:
		return "Variable"
	case KindNet:
		return "Net"
	case KindField:
		return "Field"
	case KindFormalArgument:
		return "FormalArgument"
	case KindGenvar:
		return "Genvar"
	case KindContinuousAssign:
		return "ContinuousAssign"
	case KindEmptyMember:
		return "EmptyMember"
	case KindElabSystemTask:
		return "ElabSystemTask"
	case KindNettype:
		return "Nettype"
	case KindImport:
		return "Import"
	case KindModport:
		return "Modport"
	case KindClockingBlock:
		return "ClockingBlock"
	case KindClockingVar:
		return "ClockingVar"
	case KindSequence:
		return "Sequence"
	case KindProperty:
		return "Property"
	case KindLet:
		return "Let"
	case KindRandSequenceProduction:
		return "RandSequenceProduction"
	case KindUdpOutputPort:
		return "UdpOutputPort"
	case KindUdpInputPort:
		return "UdpInputPort"
	default:
		return "Invalid"
	}
}

// Flag is a bit in a value symbol's flag set (spec §4.H: "a flag bitset
// (const, compiler-generated, interface-variable, immutable-coverage-option,
// etc.)").
type Flag uint16

const (
	FlagConst Flag = 1 << iota
	FlagCompilerGenerated
	FlagInterfaceVariable
	FlagAutomatic
	FlagStatic
)

// Lifetime is a value symbol's storage lifetime.
type Lifetime uint8

const (
	LifetimeStatic Lifetime = iota
	LifetimeAutomatic
)

// Symbol is one entry in the elaborated hierarchy. Every kind shares Name,
// the declaration's source range, and its owning Scope; kind-specific data
// lives in one of the payload fields below, selected by Kind (spec §9:
// "narrow capability interfaces... prefer tag + payload variants").
type Symbol struct {
	Kind   Kind
	Name   string
	Range  text.Range
	Decl   arena.Handle[syntax.Node]
	Parent SymbolHandle // owning scope's symbol; Nil at the compilation unit

	Scope *Scope // non-nil for every symbol that is also a scope

	Value        *ValueData
	Assign       *ContinuousAssignData
	Nettype      *NettypeData
	Import       *ImportData
	ElabTask     *ElabTaskData
	Udp          *UdpData
	Instance     *InstanceData
	Modport      *ModportData
	Clocking     *ClockingBlockData
	ClockingVar  *ClockingVarData
	Assertion    *AssertionData
	RandSeqProd  *RandSeqProductionData
}

// ValueData is shared by Variable, Net, Field, Formal argument, and Genvar
// symbols (spec §4.H: "All derive from a value-symbol interface exposing
// declared type, optional initializer, lifetime... and a flag bitset").
type ValueData struct {
	DeclaredType *DeclaredType
	Initializer  arena.Handle[syntax.Node] // Nil if none
	Lifetime     Lifetime
	Flags        Flag

	// NetType is set only for Kind == KindNet: the resolved nettype
	// symbol backing this net (built-in nettypes have no symbol and leave
	// this Nil; spec §4.H: "A net declaration has a net-type (built-in or
	// user-defined)").
	NetType SymbolHandle
}

// ContinuousAssignData holds an assign statement's resolved LHS/RHS pair.
type ContinuousAssignData struct {
	LHS arena.Handle[syntax.Node]
	RHS arena.Handle[syntax.Node]
}

// NettypeData is a user-defined nettype's resolved element type and
// optional resolution function name (spec §4.H: "nettype type name [with
// function]").
type NettypeData struct {
	ElementType    *Type
	ResolutionFunc string
}

// ImportData records one `pkg::name` or `pkg::*` import item.
type ImportData struct {
	PackageName string
	MemberName  string // "" for a wildcard import
	Wildcard    bool
	Package     SymbolHandle // resolved lazily; Nil until first lookup needs it
}

// ElabTaskData is a `$fatal`/`$error`/`$warning`/`$info`/`$static_assert`
// call recognized during elaboration (spec §4.H: "Elaboration system
// tasks").
type ElabTaskData struct {
	TaskName     string
	FinishNumber int // only meaningful for $fatal
	Message      string
	Severity     string // "fatal"|"error"|"warning"|"info"
	Condition    arena.Handle[syntax.Node] // only set for $static_assert
}

// UdpData classifies a primitive's shape once its body has been scanned
// (spec §4.H: "Exactly one output port is required... determines
// combinational vs. sequential").
type UdpData struct {
	Sequential   bool
	OutputPort   string
	InputPorts   []string
	InitialValue byte // '0', '1', or 'x' from the initial statement; 0 if there is none
}

// InstanceData is an instance body's (KindInstanceBody) realized parameter
// bindings: the definition it was bound from and the evaluated value each
// overridden-or-defaulted parameter took (spec §4.H: "Instances of
// parameterized definitions are keyed by their bound parameter values").
type InstanceData struct {
	Definition SymbolHandle
	Params     map[string]int64
	// InstanceNames lists every hierarchical-instance name bound to this
	// instance body (two instances with identical parameter bindings share
	// one body, so a body may back more than one name).
	InstanceNames []string
}

// ModportData is one modport port member: its direction (for simple/
// explicit ports), the internal symbol it resolves to, and, for an explicit
// port, the bound expression (spec §4.H modports).
type ModportData struct {
	Direction lexer.TokenKind // TokenKwInput/Output/Inout; zero for a clocking port
	Target    SymbolHandle    // resolved internal variable/net; Nil if an explicit port's expr is not a plain name, or the name does not resolve
	Expr      arena.Handle[syntax.Node]
	Clocking  SymbolHandle // resolved clocking-block symbol, for a clocking port
}

// ClockingBlockData records a clocking block's default input/output skew
// expressions (spec §4.H: "at most one input/one output else
// MultipleDefaultXxxSkew").
type ClockingBlockData struct {
	DefaultInputSkew  arena.Handle[syntax.Node]
	DefaultOutputSkew arena.Handle[syntax.Node]
	HasDefaultInput   bool
	HasDefaultOutput  bool
}

// ClockingVarData is one clocking-block variable: its direction, optional
// skew, and either an initializer expression or a reference to a signal in
// the parent scope (spec §4.H: "outputs/inouts require lvalue referenced
// expression and register as drivers").
type ClockingVarData struct {
	Direction  lexer.TokenKind
	InputSkew  arena.Handle[syntax.Node]
	OutputSkew arena.Handle[syntax.Node]
	Expr       arena.Handle[syntax.Node]
	IsDriver   bool
}

// AssertionPortData backs a sequence/property/let declaration's formal port
// list entry (spec §4.H: "untyped" default, type inheritance, `local`
// modifier with direction rules).
type AssertionPortData struct {
	Local           bool
	Direction       lexer.TokenKind // zero when no direction was written
	Untyped         bool
	DeclaredType    *DeclaredType
	Default         arena.Handle[syntax.Node]
	RequireSequence bool
}

// AssertionData is a sequence/property/let declaration's resolved formal
// port list.
type AssertionData struct {
	Ports []AssertionPortData
}

// RandSeqProductionData is one rand-sequence production's return type and
// rule count (spec §4.H: "rule/weight/case binding").
type RandSeqProductionData struct {
	ReturnType *DeclaredType
	RuleCount  int
}

// IsScope reports whether sym introduces its own nested scope.
func (s *Symbol) IsScope() bool { return s.Scope != nil }
