package lexer

import (
	"strings"

	"github.com/VeriOpen/slang/internal/diagnostics"
)

// Stringify converts the raw spelling of a run of tokens into a single
// string-literal token, implementing the preprocessor's `` `" `` operator
// (spec §4.D: "convert a slice of tokens into a single string-literal
// token"). The tokens' spellings are joined with exactly one space between
// each pair, whether or not any trivia separated them in the source.
func Stringify(src []byte, tokens []Token) Token {
	parts := make([][]byte, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Bytes(src)
	}
	return StringifyBytes(parts)
}

// StringifyBytes is Stringify's byte-level twin, for callers whose operand
// tokens were lexed from different source buffers.
func StringifyBytes(parts [][]byte) Token {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(part)
	}
	return Token{
		Kind: TokenStringLiteral,
		Literal: &LiteralValue{
			Kind:    TokenStringLiteral,
			Decoded: sb.String(),
		},
		Flags: TokenFlagSynthesized,
	}
}

// Concat concatenates the raw text of two adjacent tokens and re-lexes the
// result, implementing the preprocessor's token-pasting operator
// (spec §4.E step 3: "concatenates the raw text of the adjacent tokens then
// re-lexes the result in place"). Returns ok=false if the pasted text does
// not re-lex as a single token (spec's `InvalidMacroPaste`).
func Concat(src []byte, a, b Token) (Token, bool) {
	tok, _, ok := ConcatBytes(a.Bytes(src), b.Bytes(src))
	return tok, ok
}

// ConcatBytes is Concat's byte-level twin, for callers (the preprocessor's
// macro substitution) whose two operand tokens were lexed from different
// source buffers and so have no single shared src to read Bytes() from. The
// returned []byte is the pasted text the result token's Span indexes into;
// callers must keep it alive alongside the token (e.g. in a stok pair).
func ConcatBytes(a, b []byte) (Token, []byte, bool) {
	pasted := append(append([]byte{}, a...), b...)
	tok, ok := relexSingleToken(pasted)
	return tok, pasted, ok
}

func relexSingleToken(pasted []byte) (Token, bool) {
	l := New(0, pasted, diagnostics.NewBag())
	tok := l.Next()
	if tok.Kind == TokenError || l.pos != len(pasted) {
		return Token{}, false
	}
	tok.Leading = nil
	return tok, true
}

// NeedsSpaceBetween reports whether printing b immediately after a (with no
// trivia in between) would change how the pair re-lexes — e.g. two `+`
// tokens must never be printed back-to-back as `++` (spec §4.D: "compute
// whether two adjacent tokens would require intervening whitespace to
// preserve meaning").
func NeedsSpaceBetween(a, b TokenKind) bool {
	if isWordlike(a) && isWordlike(b) {
		return true
	}
	aText, bText := Spelling(a), Spelling(b)
	if aText == "" || bText == "" {
		// At least one side is an identifier/literal with variable spelling;
		// only a punctuation-led neighbor is safe to print without a space.
		return !isPunctStart(bText)
	}
	_, ok := relexSingleToken([]byte(aText + bText))
	return ok // combined text re-lexing as one token means a space is required
}

func isWordlike(k TokenKind) bool {
	switch k {
	case TokenIdentifier, TokenEscapedIdentifier, TokenSystemIdentifier,
		TokenIntLiteral, TokenBasedIntLiteral, TokenUnbasedUnsizedLiteral,
		TokenRealLiteral, TokenTimeLiteral, TokenDirective:
		return true
	default:
		return k.IsKeyword()
	}
}

func isPunctStart(s string) bool {
	return s != "" && !isIdentStart(s[0]) && !isDigit(s[0])
}
