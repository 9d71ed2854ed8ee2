package lexer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/text"
)

var errNotDecimal = errors.New("lexer: not a decimal digit sequence")

// timeUnits lists valid time-literal suffixes, longest first so a greedy
// match never stops early (e.g. "ms" must win over "s").
var timeUnits = []string{"ms", "us", "ns", "ps", "fs", "s"}

// Lexer tokenizes one source buffer into a lossless token stream with
// leading trivia (spec §4.D). It is restartable from any byte offset, which
// is what lets the parser implement arbitrary-length speculative lookahead
// without re-tokenizing from the start of the buffer.
type Lexer struct {
	buffer  text.BufferID
	src     []byte
	pos     int
	diags   *diagnostics.Bag
	profile KeywordProfile
}

// New returns a Lexer over src, attributing token spans to buffer and
// routing diagnostics into diags.
func New(buffer text.BufferID, src []byte, diags *diagnostics.Bag) *Lexer {
	return &Lexer{buffer: buffer, src: src, diags: diags, profile: ProfileDefault}
}

// SetKeywordProfile records the active keyword profile. The preprocessor's
// `` `begin_keywords `` / `` `end_keywords `` handling does not call it, and
// LookupKeyword gives the same result under every profile.
func (l *Lexer) SetKeywordProfile(p KeywordProfile) { l.profile = p }

// KeywordProfile returns the active keyword profile.
func (l *Lexer) KeywordProfile() KeywordProfile { return l.profile }

// Position returns the current byte offset, suitable for passing to Seek to
// restart the lexer from this point (spec §4.D: "restartable from a saved
// position, used by the parser's lookahead").
func (l *Lexer) Position() int { return l.pos }

// Seek restarts the lexer at byte offset pos.
func (l *Lexer) Seek(pos int) { l.pos = pos }

// Next scans and returns the next token, including its leading trivia. Once
// EOF is reached, Next keeps returning a TokenEOF token at the same
// position (spec §4.D: "the end-of-file token is emitted exactly once and
// is also a valid token" — repeated calls past it are idempotent so the
// parser's peek buffer can safely over-read).
func (l *Lexer) Next() Token {
	leading, errTok := l.scanLeadingTrivia()
	if errTok != nil {
		errTok.Leading = leading
		return *errTok
	}

	if l.eof() {
		return Token{Kind: TokenEOF, Span: l.span(l.pos, l.pos), Leading: leading}
	}

	tok := l.scanToken()
	tok.Leading = leading
	return tok
}

func (l *Lexer) scanLeadingTrivia() ([]Trivia, *Token) {
	var out []Trivia

	for !l.eof() {
		start := l.pos
		switch b := l.src[l.pos]; b {
		case ' ', '\t', '\v', '\f':
			for !l.eof() && isHorizontalSpace(l.src[l.pos]) {
				l.pos++
			}
			out = append(out, Trivia{Kind: TriviaWhitespace, Span: l.span(start, l.pos)})
		case '\n':
			l.pos++
			out = append(out, Trivia{Kind: TriviaNewline, Span: l.span(start, l.pos)})
		case '\r':
			l.pos++
			if !l.eof() && l.src[l.pos] == '\n' {
				l.pos++
			}
			out = append(out, Trivia{Kind: TriviaNewline, Span: l.span(start, l.pos)})
		case '/':
			if l.peekByte(1) == '/' {
				l.pos += 2
				l.scanLineComment()
				out = append(out, Trivia{Kind: TriviaLineComment, Span: l.span(start, l.pos)})
				continue
			}
			if l.peekByte(1) == '*' {
				t, errTok := l.scanBlockCommentOrError()
				if errTok != nil {
					return out, errTok
				}
				out = append(out, t)
				continue
			}
			return out, nil
		default:
			if b >= utf8.RuneSelf {
				if r, size := utf8.DecodeRune(l.src[l.pos:]); r == utf8.RuneError && size == 1 {
					start := l.pos
					l.pos++
					return out, l.makeErrorToken(start, l.pos, diagnostics.CodeUnknownToken, "invalid UTF-8 byte")
				}
			}
			return out, nil
		}
	}

	return out, nil
}

func (l *Lexer) scanToken() Token {
	start := l.pos
	b := l.src[l.pos]

	switch {
	case b == '\\':
		return l.scanEscapedIdentifier()
	case b == '$':
		return l.scanSystemIdentifierOrKeyword()
	case b == '`':
		return l.scanDirective()
	case isIdentStart(b):
		return l.scanIdentifierOrKeyword()
	case isDigit(b):
		return l.scanNumber()
	case b == '\'':
		return l.scanTickLiteralOrPunct()
	case b == '"':
		return l.scanString()
	default:
		if tok, ok := l.scanPunctuation(); ok {
			return tok
		}
		if b >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(l.src[l.pos:])
			if r == utf8.RuneError && size == 1 {
				l.pos++
				return *l.makeErrorToken(start, start+1, diagnostics.CodeUnknownToken, "invalid UTF-8 byte")
			}
			l.pos += size
			return *l.makeErrorToken(start, l.pos, diagnostics.CodeUnknownToken, "unsupported non-ASCII token character")
		}
		l.pos++
		return *l.makeErrorToken(start, l.pos, diagnostics.CodeUnknownToken, "unknown character")
	}
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	start := l.pos
	l.pos++
	for !l.eof() && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	name := string(l.src[start:l.pos])
	if kind, ok := LookupKeyword(name, l.profile); ok {
		return Token{Kind: kind, Span: l.span(start, l.pos)}
	}
	return Token{Kind: TokenIdentifier, Span: l.span(start, l.pos)}
}

func (l *Lexer) scanEscapedIdentifier() Token {
	start := l.pos
	l.pos++ // '\'
	for !l.eof() && !isHorizontalSpace(l.src[l.pos]) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
		l.pos++
	}
	if l.eof() {
		l.diags.Report(diagnostics.Diagnostic{
			Code:     diagnostics.CodeEscapedIdentifierNoSpace,
			Severity: diagnostics.SeverityWarning,
			Range:    l.rng(start, l.pos),
			Format:   "escaped identifier reaches end of file without a terminating whitespace",
		})
	}
	return Token{Kind: TokenEscapedIdentifier, Span: l.span(start, l.pos)}
}

func (l *Lexer) scanSystemIdentifierOrKeyword() Token {
	start := l.pos
	l.pos++ // '$'
	for !l.eof() && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	return Token{Kind: TokenSystemIdentifier, Span: l.span(start, l.pos)}
}

// scanDirective scans a backtick-introduced token: a named directive/macro
// invocation, the token-paste operator ``` `` ```, a stringification
// boundary ( `" ), or the escaped-quote stringification marker ( `\`" ).
// The preprocessor (spec §4.E) interprets the resulting spelling; the lexer
// only recognizes the shape.
func (l *Lexer) scanDirective() Token {
	start := l.pos
	l.pos++ // '`'

	switch {
	case !l.eof() && l.src[l.pos] == '`':
		l.pos++
	case !l.eof() && l.src[l.pos] == '\\' && l.peekByte(1) == '`' && l.peekByte(2) == '"':
		l.pos += 3
	case !l.eof() && l.src[l.pos] == '"':
		l.pos++
	case !l.eof() && isIdentStart(l.src[l.pos]):
		for !l.eof() && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
	default:
		// Bare backtick with no recognizable continuation; let the
		// preprocessor report it as an unknown directive.
	}
	return Token{Kind: TokenDirective, Span: l.span(start, l.pos)}
}

func (l *Lexer) scanString() Token {
	start := l.pos
	l.pos++ // opening quote

	var decoded strings.Builder
	for !l.eof() {
		switch l.src[l.pos] {
		case '"':
			l.pos++
			raw := l.src[start:l.pos]
			return Token{
				Kind: TokenStringLiteral,
				Span: l.span(start, l.pos),
				Literal: &LiteralValue{
					Kind:    TokenStringLiteral,
					Decoded: decoded.String(),
				},
				Flags: flagsFromRaw(raw),
			}
		case '\\':
			l.pos++
			if l.eof() {
				break
			}
			l.decodeEscape(&decoded)
			continue
		case '\n', '\r':
			return *l.makeErrorToken(start, l.pos, diagnostics.CodeUnterminatedString, "unterminated string literal")
		default:
			decoded.WriteByte(l.src[l.pos])
			l.pos++
		}
	}
	return *l.makeErrorToken(start, l.pos, diagnostics.CodeUnterminatedString, "unterminated string literal")
}

// flagsFromRaw is a hook point kept deliberately trivial; string literals
// never carry recovery flags today.
func flagsFromRaw(_ []byte) TokenFlags { return 0 }

func (l *Lexer) decodeEscape(out *strings.Builder) {
	b := l.src[l.pos]
	switch b {
	case 'n':
		out.WriteByte('\n')
		l.pos++
	case 't':
		out.WriteByte('\t')
		l.pos++
	case '\\':
		out.WriteByte('\\')
		l.pos++
	case '"':
		out.WriteByte('"')
		l.pos++
	case 'v':
		out.WriteByte('\v')
		l.pos++
	case 'f':
		out.WriteByte('\f')
		l.pos++
	case 'a':
		out.WriteByte(7)
		l.pos++
	case '\n':
		l.pos++ // line continuation: escaped newline is elided
	case 'x':
		l.pos++
		val, n := l.scanHexDigits(2)
		if n > 0 {
			out.WriteByte(byte(val))
		}
	default:
		if isOctalDigit(b) {
			val, n := l.scanOctalDigits(3)
			_ = n
			out.WriteByte(byte(val))
			return
		}
		out.WriteByte(b)
		l.pos++
	}
}

func (l *Lexer) scanHexDigits(max int) (int, int) {
	val, n := 0, 0
	for n < max && !l.eof() && isHexDigit(l.src[l.pos]) {
		val = val*16 + hexValue(l.src[l.pos])
		l.pos++
		n++
	}
	return val, n
}

func (l *Lexer) scanOctalDigits(max int) (int, int) {
	val, n := 0, 0
	for n < max && !l.eof() && isOctalDigit(l.src[l.pos]) {
		val = val*8 + int(l.src[l.pos]-'0')
		l.pos++
		n++
	}
	return val, n
}

// scanTickLiteralOrPunct handles everything that can start with a bare
// apostrophe: unbased-unsized literals ('0 '1 'x 'z), based literals with no
// size ('hFF), the assignment-pattern opener '{, and the bare apostrophe
// punctuation token used by casting-like contexts.
func (l *Lexer) scanTickLiteralOrPunct() Token {
	start := l.pos
	l.pos++ // '\''

	if !l.eof() && l.src[l.pos] == '{' {
		l.pos++
		return Token{Kind: TokenLBraceTick, Span: l.span(start, l.pos)}
	}

	if lit, ok := l.tryScanUnbasedUnsized(start); ok {
		return lit
	}

	if lit, ok := l.tryScanBasedLiteral(start, 0, false); ok {
		return lit
	}

	return Token{Kind: TokenApostrophe, Span: l.span(start, l.pos)}
}

func (l *Lexer) tryScanUnbasedUnsized(start int) (Token, bool) {
	if l.eof() {
		return Token{}, false
	}
	switch l.src[l.pos] {
	case '0', '1', 'x', 'X', 'z', 'Z':
		bit := lowerByte(l.src[l.pos])
		l.pos++
		// Reject if this is actually the start of a based literal, e.g. 'x
		// never continues into digits so no extra lookahead is needed: 'x
		// and 'h are distinguished because 'h is a base letter, not a value.
		return Token{
			Kind: TokenUnbasedUnsizedLiteral,
			Span: l.span(start, l.pos),
			Literal: &LiteralValue{
				Kind:       TokenUnbasedUnsizedLiteral,
				UnsizedBit: bit,
			},
		}, true
	default:
		return Token{}, false
	}
}

// tryScanBasedLiteral scans the "'[s]base digits" portion of a based
// integer literal, given an already-consumed optional size prefix.
func (l *Lexer) tryScanBasedLiteral(start int, sizeBits int, hasSize bool) (Token, bool) {
	pos := l.pos
	signed := false
	if pos < len(l.src) && (l.src[pos] == 's' || l.src[pos] == 'S') {
		signed = true
		pos++
	}
	if pos >= len(l.src) {
		return Token{}, false
	}
	base := lowerByte(l.src[pos])
	switch base {
	case 'b', 'o', 'd', 'h':
	default:
		return Token{}, false
	}
	pos++
	l.pos = pos

	digitsStart := l.pos
	unknown := false
	for !l.eof() && isBasedDigit(l.src[l.pos], base) {
		if isUnknownDigit(l.src[l.pos]) {
			unknown = true
		}
		l.pos++
	}
	if l.pos == digitsStart {
		return *l.makeErrorToken(start, l.pos, diagnostics.CodeInvalidNumericLit, "expected digits after numeric base"), true
	}

	return Token{
		Kind: TokenBasedIntLiteral,
		Span: l.span(start, l.pos),
		Literal: &LiteralValue{
			Kind:       TokenBasedIntLiteral,
			SizeInBits: sizeBits,
			HasSize:    hasSize,
			Signed:     signed,
			Base:       base,
			Digits:     string(l.src[digitsStart:l.pos]),
			Unknown:    unknown,
		},
	}, true
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	for !l.eof() && isDigitOrUnderscore(l.src[l.pos]) {
		l.pos++
	}
	digitsEnd := l.pos

	// size'base form, e.g. 8'hFF
	if !l.eof() && l.src[l.pos] == '\'' {
		size, sizeErr := parseDecimalDigits(l.src[start:digitsEnd])
		l.pos++ // '\''
		if tok, ok := l.tryScanUnbasedUnsized(start); ok {
			tok.Literal.SizeInBits = size
			tok.Literal.HasSize = sizeErr == nil
			return tok
		}
		if tok, ok := l.tryScanBasedLiteral(start, size, sizeErr == nil); ok {
			return tok
		}
		// Not actually a based literal (e.g. "4'" followed by garbage);
		// back up so the apostrophe is retried as its own token next call.
		l.pos = digitsEnd
	}

	kind := TokenIntLiteral
	if !l.eof() && l.src[l.pos] == '.' && isDigit(l.peekByte(1)) {
		kind = TokenRealLiteral
		l.pos++
		for !l.eof() && isDigitOrUnderscore(l.src[l.pos]) {
			l.pos++
		}
	}
	if l.tryScanExponent() {
		kind = TokenRealLiteral
	}

	if unit, ok := l.tryScanTimeUnit(); ok {
		return Token{
			Kind: TokenTimeLiteral,
			Span: l.span(start, l.pos),
			Literal: &LiteralValue{
				Kind:          TokenTimeLiteral,
				TimeMagnitude: string(l.src[start : l.pos-len(unit)]),
				TimeUnit:      unit,
			},
		}
	}

	lit := &LiteralValue{Kind: kind}
	if kind == TokenRealLiteral {
		lit.RealText = string(l.src[start:l.pos])
	}
	return Token{Kind: kind, Span: l.span(start, l.pos), Literal: lit}
}

func (l *Lexer) tryScanExponent() bool {
	if l.eof() || (l.src[l.pos] != 'e' && l.src[l.pos] != 'E') {
		return false
	}
	j := l.pos + 1
	if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
		j++
	}
	if j >= len(l.src) || !isDigit(l.src[j]) {
		return false
	}
	l.pos = j
	for !l.eof() && isDigitOrUnderscore(l.src[l.pos]) {
		l.pos++
	}
	return true
}

func (l *Lexer) tryScanTimeUnit() (string, bool) {
	rest := l.src[l.pos:]
	for _, unit := range timeUnits {
		if len(rest) < len(unit) || string(rest[:len(unit)]) != unit {
			continue
		}
		// Must not be followed by further identifier characters, or this is
		// really an identifier that happens to start with a unit spelling.
		if len(rest) > len(unit) && isIdentPart(rest[len(unit)]) {
			continue
		}
		l.pos += len(unit)
		return unit, true
	}
	return "", false
}

func (l *Lexer) scanLineComment() {
	for !l.eof() && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
		l.pos++
	}
}

func (l *Lexer) scanBlockCommentOrError() (Trivia, *Token) {
	start := l.pos
	l.pos += 2 // consume /*
	for !l.eof() {
		if l.src[l.pos] == '*' && l.peekByte(1) == '/' {
			l.pos += 2
			return Trivia{Kind: TriviaBlockComment, Span: l.span(start, l.pos)}, nil
		}
		l.pos++
	}
	return Trivia{}, l.makeErrorToken(start, l.pos, diagnostics.CodeUnterminatedBlockComment, "unterminated block comment")
}

func (l *Lexer) makeErrorToken(start, end int, code diagnostics.Code, msg string) *Token {
	sp := l.span(start, end)
	l.diags.Report(diagnostics.Diagnostic{
		Code:     code,
		Severity: diagnostics.SeverityError,
		Range:    rangeFromSpan(l.buffer, sp),
		Format:   msg,
	})
	return &Token{Kind: TokenError, Span: sp, Flags: TokenFlagMalformed}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte(delta int) byte {
	j := l.pos + delta
	if j < 0 || j >= len(l.src) {
		return 0
	}
	return l.src[j]
}

func (l *Lexer) span(start, end int) text.Span {
	return text.Span{Start: text.ByteOffset(start), End: text.ByteOffset(end)}
}

func (l *Lexer) rng(start, end int) text.Range {
	return rangeFromSpan(l.buffer, l.span(start, end))
}

func rangeFromSpan(buf text.BufferID, sp text.Span) text.Range {
	return text.NewRange(buf, sp)
}

func isHorizontalSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isDigitOrUnderscore(b byte) bool { return isDigit(b) || b == '_' }

func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

func isUnknownDigit(b byte) bool {
	switch b {
	case 'x', 'X', 'z', 'Z', '?':
		return true
	default:
		return false
	}
}

func isBasedDigit(b byte, base byte) bool {
	if b == '_' || isUnknownDigit(b) {
		return true
	}
	switch base {
	case 'b':
		return b == '0' || b == '1'
	case 'o':
		return isOctalDigit(b)
	case 'd':
		return isDigit(b)
	case 'h':
		return isHexDigit(b)
	default:
		return false
	}
}

func lowerByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '$'
}

func parseDecimalDigits(b []byte) (int, error) {
	n := 0
	saw := false
	for _, c := range b {
		if c == '_' {
			continue
		}
		if !isDigit(c) {
			return 0, errNotDecimal
		}
		n = n*10 + int(c-'0')
		saw = true
	}
	if !saw {
		return 0, errNotDecimal
	}
	return n, nil
}
