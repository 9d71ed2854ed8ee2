package lexer

// punctTable lists every multi-character punctuation spelling, longest
// first, so scanPunctuation can try them in order and fall through to the
// single-character table only once every longer match has failed.
var punctTable = []struct {
	spelling string
	kind     TokenKind
}{
	{"<<<=", TokenLessLessLessEqual},
	{">>>=", TokenGreaterGreaterGreaterEqual},
	{"<<<", TokenLessLessLess},
	{">>>", TokenGreaterGreaterGreater},
	{"<<=", TokenLessLessEqual},
	{">>=", TokenGreaterGreaterEqual},
	{"===", TokenEqualEqualEqual},
	{"!==", TokenBangEqualEqual},
	{"==?", TokenEqualEqualQuestion},
	{"!=?", TokenBangEqualQuestion},
	{"&&&", TokenAmpAmpAmp},
	{"#-#", TokenHashMinusHash},
	{"#=#", TokenHashEqualHash},
	{"::", TokenColonColon},
	{".*", TokenDotStar},
	{"##", TokenHashHash},
	{"<<", TokenLessLess},
	{">>", TokenGreaterGreater},
	{"<=", TokenLessEqual},
	{">=", TokenGreaterEqual},
	{"==", TokenEqualEqual},
	{"!=", TokenBangEqual},
	{"=>", TokenEqualGreater},
	{"&&", TokenAmpAmp},
	{"||", TokenPipePipe},
	{"~&", TokenTildeAmp},
	{"~|", TokenTildePipe},
	{"~^", TokenTildeCaret},
	{"^~", TokenCaretTilde},
	{"**", TokenStarStar},
	{"+=", TokenPlusEqual},
	{"-=", TokenMinusEqual},
	{"*=", TokenStarEqual},
	{"/=", TokenSlashEqual},
	{"%=", TokenPercentEqual},
	{"&=", TokenAmpEqual},
	{"|=", TokenPipeEqual},
	{"^=", TokenCaretEqual},
	{"++", TokenPlusPlus},
	{"--", TokenMinusMinus},
	{"+:", TokenPlusColon},
	{"-:", TokenMinusColon},
	{"@@", TokenAtAt},

	{"{", TokenLBrace}, {"}", TokenRBrace},
	{"(", TokenLParen}, {")", TokenRParen},
	{"[", TokenLBracket}, {"]", TokenRBracket},
	{";", TokenSemi}, {":", TokenColon}, {",", TokenComma}, {".", TokenDot},
	{"@", TokenAt}, {"#", TokenHash}, {"?", TokenQuestion},
	{"+", TokenPlus}, {"-", TokenMinus}, {"*", TokenStar}, {"/", TokenSlash},
	{"%", TokenPercent}, {"&", TokenAmp}, {"|", TokenPipe}, {"^", TokenCaret},
	{"~", TokenTilde}, {"!", TokenBang}, {"=", TokenEqual},
	{"<", TokenLess}, {">", TokenGreater},
}

// scanPunctuation tries the longest punctuation spelling starting at the
// current position. Reports ok=false if nothing matches (caller falls back
// to an unknown-character error token).
func (l *Lexer) scanPunctuation() (Token, bool) {
	start := l.pos
	rest := l.src[l.pos:]
	for _, entry := range punctTable {
		n := len(entry.spelling)
		if n > len(rest) {
			continue
		}
		if string(rest[:n]) != entry.spelling {
			continue
		}
		l.pos += n
		return Token{Kind: entry.kind, Span: l.span(start, l.pos)}, true
	}
	return Token{}, false
}

// Spelling returns the canonical spelling of a fixed-text token kind (every
// keyword and every punctuation/operator token). Returns "" for kinds whose
// spelling varies (identifiers, literals).
func Spelling(kind TokenKind) string {
	if s, ok := punctSpellings[kind]; ok {
		return s
	}
	if s, ok := keywordNameByKind[kind]; ok {
		return s
	}
	return ""
}
