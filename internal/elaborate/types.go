package elaborate

import "github.com/VeriOpen/slang/internal/lexer"

// TypeKind discriminates Type's concrete variety.
type TypeKind uint8

const (
	TypeKindError TypeKind = iota
	TypeKindIntegral
	TypeKindReal
	TypeKindString
	TypeKindVoid
	TypeKindEvent
	TypeKindChandle
	TypeKindNetAlias
)

// Type is a resolved data type. Integral types (the common case for ports,
// nets, and variables) carry a bit width and signedness; everything else is
// a singleton by kind.
type Type struct {
	Kind     TypeKind
	Name     string
	BitWidth int
	Signed   bool
	Unpacked bool

	// Alias is set only for TypeKindNetAlias: the element type a
	// user-defined nettype actually resolves to.
	Alias *Type
}

func (t *Type) String() string {
	if t == nil {
		return "<error>"
	}
	return t.Name
}

var errorType = &Type{Kind: TypeKindError, Name: "<error>"}

// builtinIntegralWidths gives the default bit width for scalar integral
// keyword types (spec's vector types carry an explicit packed dimension
// instead and are sized from that).
var builtinIntegralWidths = map[lexer.TokenKind]int{
	lexer.TokenKwByte:     8,
	lexer.TokenKwShortint: 16,
	lexer.TokenKwInt:      32,
	lexer.TokenKwLongint:  64,
	lexer.TokenKwInteger:  32,
	lexer.TokenKwTime:     64,
	lexer.TokenKwBit:      1,
	lexer.TokenKwLogic:    1,
	lexer.TokenKwReg:      1,
}

var builtinSignedByDefault = map[lexer.TokenKind]bool{
	lexer.TokenKwByte:     true,
	lexer.TokenKwShortint: true,
	lexer.TokenKwInt:      true,
	lexer.TokenKwLongint:  true,
	lexer.TokenKwInteger:  true,
}

// builtinType returns the singleton Type for a builtin keyword, applying an
// explicit packed dimension width and a signed/unsigned override when given.
func builtinType(kw lexer.TokenKind, width int, hasWidth bool, signed bool, signedSet bool) *Type {
	switch kw {
	case lexer.TokenKwReal, lexer.TokenKwShortreal, lexer.TokenKwRealtime:
		return &Type{Kind: TypeKindReal, Name: "real"}
	case lexer.TokenKwString:
		return &Type{Kind: TypeKindString, Name: "string"}
	case lexer.TokenKwVoid:
		return &Type{Kind: TypeKindVoid, Name: "void"}
	case lexer.TokenKwEvent:
		return &Type{Kind: TypeKindEvent, Name: "event"}
	case lexer.TokenKwChandle:
		return &Type{Kind: TypeKindChandle, Name: "chandle"}
	}
	w := builtinIntegralWidths[kw]
	if hasWidth {
		w = width
	}
	if w == 0 {
		w = 1
	}
	s := builtinSignedByDefault[kw]
	if signedSet {
		s = signed
	}
	return &Type{Kind: TypeKindIntegral, Name: kw.String(), BitWidth: w, Signed: s}
}
