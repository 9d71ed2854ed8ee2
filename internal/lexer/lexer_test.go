package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/text"
)

func lexAll(src []byte) ([]Token, *diagnostics.Bag) {
	bag := diagnostics.NewBag()
	l := New(1, src, bag)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, bag
		}
	}
}

func TestTokenAndTriviaBytesUseRawSpans(t *testing.T) {
	t.Parallel()

	src := []byte("  abc")
	tr := Trivia{Kind: TriviaWhitespace, Span: text.Span{Start: 0, End: 2}}
	tok := Token{Kind: TokenIdentifier, Span: text.Span{Start: 2, End: 5}}

	if got := string(tr.Bytes(src)); got != "  " {
		t.Fatalf("Trivia.Bytes() = %q, want %q", got, "  ")
	}
	if got := string(tok.Bytes(src)); got != "abc" {
		t.Fatalf("Token.Bytes() = %q, want %q", got, "abc")
	}
}

func TestLexGoldenModuleHeader(t *testing.T) {
	t.Parallel()

	src := []byte("module /* m */ top #(parameter W = 8) (input logic clk, output wire [W-1:0] q);\nendmodule\n")
	toks, bag := lexAll(src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}

	got := renderTokens(src, toks)
	want := strings.TrimSpace(`
module("module") lead=[]
Identifier("top") lead=[Whitespace(" "),BlockComment("/* m */"),Whitespace(" ")]
#("#") lead=[Whitespace(" ")]
(("(") lead=[]
parameter("parameter") lead=[]
Identifier("W") lead=[Whitespace(" ")]
=("=") lead=[Whitespace(" ")]
IntLiteral("8") lead=[Whitespace(" ")]
)(")") lead=[]
(("(") lead=[Whitespace(" ")]
input("input") lead=[]
logic("logic") lead=[Whitespace(" ")]
Identifier("clk") lead=[Whitespace(" ")]
,(",") lead=[]
output("output") lead=[Whitespace(" ")]
wire("wire") lead=[Whitespace(" ")]
[("[") lead=[Whitespace(" ")]
Identifier("W") lead=[]
-("-") lead=[]
IntLiteral("1") lead=[]
:(":") lead=[]
IntLiteral("0") lead=[]
]("]") lead=[]
Identifier("q") lead=[Whitespace(" ")]
)(")") lead=[]
;(";") lead=[]
endmodule("endmodule") lead=[Newline("\n")]
EOF("") lead=[Newline("\n")]
`)
	if got != want {
		t.Fatalf("golden mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestLexBasedAndUnsizedLiterals(t *testing.T) {
	t.Parallel()

	toks, bag := lexAll([]byte("8'hFF 4'b10x1 'o17 'sd9 '0 '1 'z"))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}

	var kinds []TokenKind
	for _, tok := range toks {
		if tok.Kind != TokenEOF {
			kinds = append(kinds, tok.Kind)
		}
	}
	for _, k := range kinds[:4] {
		if k != TokenBasedIntLiteral {
			t.Fatalf("expected BasedIntLiteral, got %v in %v", k, kinds)
		}
	}
	for _, k := range kinds[4:] {
		if k != TokenUnbasedUnsizedLiteral {
			t.Fatalf("expected UnbasedUnsizedLiteral, got %v in %v", k, kinds)
		}
	}

	hexLit := toks[0].Literal
	if hexLit.SizeInBits != 8 || !hexLit.HasSize || hexLit.Base != 'h' || hexLit.Digits != "FF" {
		t.Fatalf("unexpected literal decode: %+v", hexLit)
	}
	mixedLit := toks[1].Literal
	if !mixedLit.Unknown || mixedLit.Digits != "10x1" {
		t.Fatalf("unexpected literal decode: %+v", mixedLit)
	}
}

func TestLexRealAndTimeLiterals(t *testing.T) {
	t.Parallel()

	toks, bag := lexAll([]byte("1.5 2.0e-3 10ns 3.3ms"))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	wantKinds := []TokenKind{TokenRealLiteral, TokenRealLiteral, TokenTimeLiteral, TokenTimeLiteral}
	for i, want := range wantKinds {
		if toks[i].Kind != want {
			t.Fatalf("token[%d] kind = %v, want %v", i, toks[i].Kind, want)
		}
	}
	if toks[2].Literal.TimeUnit != "ns" || toks[2].Literal.TimeMagnitude != "10" {
		t.Fatalf("unexpected time literal: %+v", toks[2].Literal)
	}
}

func TestLexEscapedAndSystemIdentifiers(t *testing.T) {
	t.Parallel()

	toks, bag := lexAll([]byte(`\my-signal[3] $display`))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if toks[0].Kind != TokenEscapedIdentifier || string(toks[0].Bytes([]byte(`\my-signal[3] $display`))) != `\my-signal[3]` {
		t.Fatalf("unexpected escaped identifier token: %+v", toks[0])
	}
	if toks[1].Kind != TokenSystemIdentifier {
		t.Fatalf("expected SystemIdentifier, got %v", toks[1].Kind)
	}
}

func TestLexDirectiveAndMacroOperators(t *testing.T) {
	t.Parallel()

	src := []byte("`define FOO(x) x``_suffix\n`FOO(bar)")
	toks, bag := lexAll(src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	var directives []string
	for _, tok := range toks {
		if tok.Kind == TokenDirective {
			directives = append(directives, string(tok.Bytes(src)))
		}
	}
	want := []string{"`define", "``", "`FOO"}
	if fmt.Sprint(directives) != fmt.Sprint(want) {
		t.Fatalf("directives = %v, want %v", directives, want)
	}
}

func TestLexStringEscapeDecoding(t *testing.T) {
	t.Parallel()

	toks, bag := lexAll([]byte(`"a\nb\"c\x41"`))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.All())
	}
	if toks[0].Literal.Decoded != "a\nb\"cA" {
		t.Fatalf("Decoded = %q", toks[0].Literal.Decoded)
	}
}

func TestLexMalformedInputsEmitErrorTokensAndDiagnostics(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src      []byte
		wantCode diagnostics.Code
	}{
		"unterminated string":       {src: []byte(`"abc`), wantCode: diagnostics.CodeUnterminatedString},
		"unterminated block comment": {src: []byte("/* abc"), wantCode: diagnostics.CodeUnterminatedBlockComment},
		"invalid byte":              {src: []byte{0xff}, wantCode: diagnostics.CodeUnknownToken},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			toks, bag := lexAll(tc.src)
			if bag.Len() == 0 {
				t.Fatalf("expected diagnostics for %q", tc.src)
			}
			if bag.All()[0].Code != tc.wantCode {
				t.Fatalf("code = %s, want %s", bag.All()[0].Code, tc.wantCode)
			}
			if len(toks) == 0 || toks[0].Kind != TokenError {
				t.Fatalf("expected first token to be TokenError, got %+v", toks)
			}
			if !toks[0].Flags.Has(TokenFlagMalformed) {
				t.Fatalf("expected malformed flag, got %v", toks[0].Flags)
			}
			if toks[len(toks)-1].Kind != TokenEOF {
				t.Fatalf("expected EOF at end, got %s", toks[len(toks)-1].Kind)
			}
		})
	}
}

func TestLexerSeekRestartsAtSavedPosition(t *testing.T) {
	t.Parallel()

	src := []byte("module top; endmodule")
	bag := diagnostics.NewBag()
	l := New(1, src, bag)

	first := l.Next()
	checkpoint := l.Position()
	second := l.Next()
	l.Seek(checkpoint)
	replay := l.Next()

	if first.Kind != TokenKwModule {
		t.Fatalf("first = %v", first.Kind)
	}
	if second.Kind != replay.Kind || second.Span != replay.Span {
		t.Fatalf("replay after Seek mismatched: second=%+v replay=%+v", second, replay)
	}
}

func TestNeedsSpaceBetweenAdjacentOperators(t *testing.T) {
	t.Parallel()

	if !NeedsSpaceBetween(TokenPlus, TokenPlus) {
		t.Fatal("'+' followed by '+' must require a space to avoid becoming '++'")
	}
	if NeedsSpaceBetween(TokenLParen, TokenRParen) {
		t.Fatal("'(' followed by ')' never needs a separating space")
	}
	if !NeedsSpaceBetween(TokenIdentifier, TokenIdentifier) {
		t.Fatal("two identifiers always need a separator")
	}
}

func TestStringifyCollapsesTokensToOneStringLiteral(t *testing.T) {
	t.Parallel()

	src := []byte("foo bar")
	toks, _ := lexAll(src)
	tok := Stringify(src, toks[:2])
	if tok.Kind != TokenStringLiteral || tok.Literal.Decoded != "foo bar" {
		t.Fatalf("Stringify() = %+v", tok)
	}
}

func TestConcatPastesAdjacentTokensAndRelexes(t *testing.T) {
	t.Parallel()

	src := []byte("foo bar")
	toks, _ := lexAll(src)
	tok, ok := Concat(src, toks[0], toks[1])
	if !ok || tok.Kind != TokenIdentifier {
		t.Fatalf("Concat() = %+v, ok=%v", tok, ok)
	}

	src2 := []byte("foo;")
	toks2, _ := lexAll(src2)
	if _, ok := Concat(src2, toks2[0], toks2[1]); ok {
		t.Fatal("pasting an identifier with ';' should not re-lex as a single token")
	}
}

func renderTokens(src []byte, tokens []Token) string {
	lines := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		lines = append(lines, fmt.Sprintf("%s(%q) lead=%s", tok.Kind, tok.Bytes(src), renderLeading(src, tok.Leading)))
	}
	return strings.Join(lines, "\n")
}

func renderLeading(src []byte, trivia []Trivia) string {
	if len(trivia) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(trivia))
	for _, tr := range trivia {
		parts = append(parts, fmt.Sprintf("%s(%q)", tr.Kind, tr.Bytes(src)))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
