// Package lexer provides a lossless token/trivia lexer for SystemVerilog
// source (spec §4.D): every byte of the input is accounted for either as a
// token or as trivia attached to the following token.
package lexer

import (
	"fmt"

	"github.com/VeriOpen/slang/internal/text"
)

// TokenKind identifies the syntactic category of a token.
type TokenKind uint16

// TokenKind values used by the SystemVerilog lexer. Keywords start at
// tokenKeywordBase (see keywords.go); IsKeyword looks a kind up in
// keywordNameByKind rather than testing a range.
const (
	TokenError TokenKind = iota
	TokenEOF

	TokenIdentifier
	TokenEscapedIdentifier
	TokenSystemIdentifier
	TokenDirective // a `name directive token; its spelling is read with Bytes

	TokenIntLiteral          // plain decimal integer, e.g. 42
	TokenBasedIntLiteral     // [size]'[s]base digits, e.g. 8'hFF, 'd3
	TokenUnbasedUnsizedLiteral // '0 '1 'x 'z
	TokenRealLiteral
	TokenTimeLiteral
	TokenStringLiteral

	tokenKeywordBase
)

//go:generate stringer -type=TokenKind
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	if s := Spelling(k); s != "" {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

var tokenKindNames = map[TokenKind]string{
	TokenError:                 "Error",
	TokenEOF:                   "EOF",
	TokenIdentifier:            "Identifier",
	TokenEscapedIdentifier:     "EscapedIdentifier",
	TokenSystemIdentifier:      "SystemIdentifier",
	TokenDirective:             "Directive",
	TokenIntLiteral:            "IntLiteral",
	TokenBasedIntLiteral:       "BasedIntLiteral",
	TokenUnbasedUnsizedLiteral: "UnbasedUnsizedLiteral",
	TokenRealLiteral:           "RealLiteral",
	TokenTimeLiteral:           "TimeLiteral",
	TokenStringLiteral:         "StringLiteral",
}

// IsKeyword reports whether k denotes a reserved word under some keyword
// profile.
func (k TokenKind) IsKeyword() bool {
	_, ok := keywordNameByKind[k]
	return ok
}

// Punctuation and operator tokens. The scanner's longest-match order comes
// from punctTable, not from the order of this list.
const (
	TokenLBrace TokenKind = iota + 2000
	TokenRBrace
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenSemi
	TokenColon
	TokenColonColon
	TokenComma
	TokenDot
	TokenDotStar
	TokenAt
	TokenHash
	TokenHashHash
	TokenHashMinusHash
	TokenHashEqualHash
	TokenQuestion
	TokenApostrophe // bare ' (used before '{ assignment patterns)
	TokenLBraceTick // '{

	TokenPlus
	TokenMinus
	TokenStar
	TokenStarStar
	TokenSlash
	TokenPercent
	TokenAmp
	TokenAmpAmp
	TokenAmpAmpAmp
	TokenPipe
	TokenPipePipe
	TokenCaret
	TokenTilde
	TokenTildeAmp
	TokenTildePipe
	TokenTildeCaret
	TokenCaretTilde
	TokenBang
	TokenBangEqual
	TokenBangEqualEqual
	TokenBangEqualQuestion
	TokenEqual
	TokenEqualEqual
	TokenEqualEqualEqual
	TokenEqualEqualQuestion
	TokenEqualGreater
	TokenLess
	TokenLessEqual
	TokenLessLess
	TokenLessLessLess
	TokenLessLessEqual
	TokenLessLessLessEqual
	TokenGreater
	TokenGreaterEqual
	TokenGreaterGreater
	TokenGreaterGreaterGreater
	TokenGreaterGreaterEqual
	TokenGreaterGreaterGreaterEqual

	TokenPlusEqual
	TokenMinusEqual
	TokenStarEqual
	TokenSlashEqual
	TokenPercentEqual
	TokenAmpEqual
	TokenPipeEqual
	TokenCaretEqual

	TokenPlusPlus
	TokenMinusMinus
	TokenPlusColon
	TokenMinusColon
	TokenAtAt
)

var punctSpellings = map[TokenKind]string{
	TokenLBrace: "{", TokenRBrace: "}", TokenLParen: "(", TokenRParen: ")",
	TokenLBracket: "[", TokenRBracket: "]", TokenSemi: ";", TokenColon: ":",
	TokenColonColon: "::", TokenComma: ",", TokenDot: ".", TokenDotStar: ".*",
	TokenAt: "@", TokenHash: "#", TokenHashHash: "##", TokenHashMinusHash: "#-#",
	TokenHashEqualHash: "#=#", TokenQuestion: "?", TokenApostrophe: "'", TokenLBraceTick: "'{",
	TokenPlus: "+", TokenMinus: "-", TokenStar: "*", TokenStarStar: "**",
	TokenSlash: "/", TokenPercent: "%", TokenAmp: "&", TokenAmpAmp: "&&",
	TokenAmpAmpAmp: "&&&", TokenPipe: "|", TokenPipePipe: "||", TokenCaret: "^",
	TokenTilde: "~", TokenTildeAmp: "~&", TokenTildePipe: "~|", TokenTildeCaret: "~^",
	TokenCaretTilde: "^~", TokenBang: "!", TokenBangEqual: "!=", TokenBangEqualEqual: "!==",
	TokenBangEqualQuestion: "!=?", TokenEqual: "=", TokenEqualEqual: "==",
	TokenEqualEqualEqual: "===", TokenEqualEqualQuestion: "==?", TokenEqualGreater: "=>",
	TokenLess: "<", TokenLessEqual: "<=", TokenLessLess: "<<", TokenLessLessLess: "<<<",
	TokenLessLessEqual: "<<=", TokenLessLessLessEqual: "<<<=", TokenGreater: ">",
	TokenGreaterEqual: ">=", TokenGreaterGreater: ">>", TokenGreaterGreaterGreater: ">>>",
	TokenGreaterGreaterEqual: ">>=", TokenGreaterGreaterGreaterEqual: ">>>=",
	TokenPlusEqual: "+=", TokenMinusEqual: "-=", TokenStarEqual: "*=", TokenSlashEqual: "/=",
	TokenPercentEqual: "%=", TokenAmpEqual: "&=", TokenPipeEqual: "|=", TokenCaretEqual: "^=",
	TokenPlusPlus: "++", TokenMinusMinus: "--", TokenPlusColon: "+:", TokenMinusColon: "-:",
	TokenAtAt: "@@",
}

// TokenFlags carry metadata about the token's provenance or recovery state.
type TokenFlags uint8

// TokenFlags values describe token provenance or recovery state.
const (
	TokenFlagMalformed TokenFlags = 1 << iota
	TokenFlagSynthesized // zero-width "missing" token manufactured by the parser (spec §4.F)
	TokenFlagSkipped     // token the parser could not place and demoted to trivia
)

// Has reports whether all bits in mask are set.
func (f TokenFlags) Has(mask TokenFlags) bool {
	return f&mask == mask
}

// Token is a lexed token with a source span and leading trivia.
type Token struct {
	Kind    TokenKind
	Span    text.Span
	Leading []Trivia
	Flags   TokenFlags

	// Literal holds the decoded value for literal tokens (IntLiteral,
	// BasedIntLiteral, UnbasedUnsizedLiteral, RealLiteral, TimeLiteral,
	// StringLiteral). Populated by the scanner; nil for every other kind.
	Literal *LiteralValue
}

// Bytes returns the token's raw spelling, read from src, or nil if the
// token's span is invalid or synthetic (zero-width synthesized tokens carry
// no source bytes by definition).
func (t Token) Bytes(src []byte) []byte {
	return bytesForSpan(src, t.Span)
}

func bytesForSpan(src []byte, sp text.Span) []byte {
	if !sp.IsValid() {
		return nil
	}
	if sp.End > text.ByteOffset(len(src)) {
		return nil
	}
	return src[sp.Start:sp.End]
}
