package preprocessor

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/text"
)

// stok pairs a lexer.Token with the source bytes its Span indexes into.
// Needed throughout macro substitution because a single expansion mixes
// tokens lexed from two different buffers: the macro's own `define body
// (def.Src) and the call-site arguments bound to its parameters (f.src).
type stok struct {
	tok lexer.Token
	src []byte
}

func (s stok) bytes() []byte { return s.tok.Bytes(s.src) }

// tryExpandMacro looks up name as a macro invocation at the current point
// (spec §4.E steps 2-5). Returns false if name is not a known macro, letting
// the caller fall through to the unknown-directive/undefined-macro report.
func (p *Preprocessor) tryExpandMacro(name string, tok lexer.Token, f *frame) bool {
	def, ok := p.macros.Lookup(name)
	if !ok {
		return false
	}

	if p.expanding[name] {
		// Recursive self-reference (spec §4.E: "a per-expansion 'currently
		// expanding' guard to stop direct/indirect recursion"): emit the
		// invocation token verbatim instead of expanding it again.
		out := p.emit(tok, f, f.macroName)
		p.pendingToken = &out
		if def.IsFunctionLike() {
			p.skipArgumentListVerbatim(f)
		}
		return true
	}

	var args [][]stok
	if def.IsFunctionLike() {
		var ok bool
		args, ok = p.parseArguments(tok, f)
		if !ok {
			return true
		}
		if len(args) > len(def.Params) {
			diagnostics.ReportError(p.diags, diagnostics.CodeTooManyMacroArgs, p.rangeOf(f, tok),
				"too many arguments to macro %q", name).Emit()
			return true
		}
		for i := len(args); i < len(def.Params); i++ {
			if !def.HasDefault[i] {
				diagnostics.ReportError(p.diags, diagnostics.CodeTooFewMacroArgs, p.rangeOf(f, tok),
					"too few arguments to macro %q", name).Emit()
				return true
			}
			args = append(args, wrapTokens(def.Defaults[i], def.Src))
		}
	}

	body := p.substitute(def, args)
	expanded := renderTokenStream(body)

	p.expanding[name] = true
	id := p.sm.NewExpansionBuffer(name, p.loc(f, tok.Span.Start), expanded)
	p.pushBuffer(id, name)
	return true
}

func wrapTokens(toks []lexer.Token, src []byte) []stok {
	out := make([]stok, len(toks))
	for i, t := range toks {
		out[i] = stok{tok: t, src: src}
	}
	return out
}

// skipArgumentListVerbatim discards a parenthesized argument list without
// interpreting it, used when a recursive macro reference is emitted as-is.
func (p *Preprocessor) skipArgumentListVerbatim(f *frame) {
	savedPos := f.lex.Position()
	open := f.lex.Next()
	if open.Kind != lexer.TokenLParen {
		f.lex.Seek(savedPos)
		return
	}
	depth := 1
	for depth > 0 {
		tok := f.lex.Next()
		switch tok.Kind {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
		case lexer.TokenEOF:
			return
		}
	}
}

// parseArguments parses a macro invocation's parenthesized argument list,
// splitting on top-level commas while respecting nested (), [], {} (spec
// §4.E step 2). Returns ok=false (after reporting) if the list is
// unterminated.
func (p *Preprocessor) parseArguments(invocation lexer.Token, f *frame) ([][]stok, bool) {
	open := f.lex.Next()
	if open.Kind != lexer.TokenLParen {
		diagnostics.ReportError(p.diags, diagnostics.CodeUnterminatedMacroArgs, p.rangeOf(f, invocation),
			"expected '(' to begin macro argument list").Emit()
		return nil, false
	}

	var args [][]stok
	var current []stok
	depth := 0
	for {
		tok := f.lex.Next()
		wrapped := stok{tok: tok, src: f.src}
		switch tok.Kind {
		case lexer.TokenEOF:
			diagnostics.ReportError(p.diags, diagnostics.CodeUnterminatedMacroArgs, p.rangeOf(f, invocation),
				"unterminated macro argument list").Emit()
			return nil, false
		case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
			depth++
			current = append(current, wrapped)
		case lexer.TokenRParen:
			if depth == 0 {
				args = append(args, current)
				return args, true
			}
			depth--
			current = append(current, wrapped)
		case lexer.TokenRBracket, lexer.TokenRBrace:
			depth--
			current = append(current, wrapped)
		case lexer.TokenComma:
			if depth == 0 {
				args = append(args, current)
				current = nil
				continue
			}
			current = append(current, wrapped)
		default:
			current = append(current, wrapped)
		}
	}
}

// substitute builds a macro body's replacement token stream: parameters are
// replaced by their bound argument's tokens, `` `` `` pastes its neighbors,
// and `` `" ``/`` `\`" `` stringify the argument between them (spec §4.E
// steps 3-4).
func (p *Preprocessor) substitute(def *MacroDef, args [][]stok) []stok {
	bound := make(map[string][]stok, len(def.Params))
	for i, param := range def.Params {
		if i < len(args) {
			bound[param] = args[i]
		}
	}

	expanded := make([]stok, 0, len(def.Body))
	for i := 0; i < len(def.Body); i++ {
		tok := def.Body[i]

		if tok.Kind == lexer.TokenDirective {
			spelling := string(tok.Bytes(def.Src))
			switch spelling {
			case "``":
				rhs, rest, ok := nextSubstituted(def, bound, &i)
				if ok {
					expanded = p.pasteLast(expanded, rhs, def)
					expanded = append(expanded, rest...)
				}
				continue
			case "`\"":
				operand, consumed := collectStringifyOperand(def.Body, i+1, bound, def.Src)
				expanded = append(expanded, stok{tok: lexer.StringifyBytes(bytesOf(operand)), src: nil})
				i += consumed
				continue
			case "`\\`\"":
				// Escaped stringification quote inside an already-stringified
				// span: emit a literal '"' character token.
				expanded = append(expanded, stok{tok: lexer.Token{
					Kind:    lexer.TokenStringLiteral,
					Literal: &lexer.LiteralValue{Kind: lexer.TokenStringLiteral, Decoded: `"`},
					Flags:   lexer.TokenFlagSynthesized,
				}})
				continue
			}
		}

		if tok.Kind == lexer.TokenIdentifier {
			name := string(tok.Bytes(def.Src))
			if repl, ok := bound[name]; ok {
				expanded = append(expanded, repl...)
				continue
			}
		}

		expanded = append(expanded, stok{tok: tok, src: def.Src})
	}
	return expanded
}

// nextSubstituted returns the token to paste onto the left-hand operand
// (the next body token, or the first token of a bound parameter's
// replacement), plus any further tokens of that replacement that follow the
// pasted one unpasted (spec: only the token immediately adjacent to `` `` ``
// participates in the paste). Advances *i past the consumed body position.
// ok is false only when the paste operator was the last token in the body.
func nextSubstituted(def *MacroDef, bound map[string][]stok, i *int) (stok, []stok, bool) {
	*i++
	if *i >= len(def.Body) {
		return stok{}, nil, false
	}
	tok := def.Body[*i]
	if tok.Kind == lexer.TokenIdentifier {
		if repl, ok := bound[string(tok.Bytes(def.Src))]; ok && len(repl) > 0 {
			return repl[0], repl[1:], true
		}
	}
	return stok{tok: tok, src: def.Src}, nil, true
}

// pasteLast implements `` `` ``: concatenates the raw spelling of the last
// emitted token with rhs and re-lexes the result as one token (spec §4.E
// step 4). On failure the operands are left unpasted and a diagnostic is
// reported against the defining `` `define ``'s location (individual body
// tokens don't carry their own resolvable range once substitution starts
// mixing call-site and definition-site sources).
func (p *Preprocessor) pasteLast(expanded []stok, rhs stok, def *MacroDef) []stok {
	if len(expanded) == 0 {
		return append(expanded, rhs)
	}
	lhs := expanded[len(expanded)-1]
	pasted, backing, ok := lexer.ConcatBytes(lhs.bytes(), rhs.bytes())
	if !ok {
		diagnostics.ReportError(p.diags, diagnostics.CodeMacroPasteFailed,
			text.NewRange(def.DefinedAt.Buffer, text.Span{Start: def.DefinedAt.Offset, End: def.DefinedAt.Offset}),
			"invalid token paste in expansion of macro %q", def.Name).Emit()
		return append(expanded, rhs)
	}
	expanded[len(expanded)-1] = stok{tok: pasted, src: backing}
	return expanded
}

// collectStringifyOperand gathers body tokens from start until the matching
// `` `" `` close (or end of body), substituting any bound parameters inline,
// and returns the operand token list plus how many body positions it
// consumed.
func collectStringifyOperand(body []lexer.Token, start int, bound map[string][]stok, src []byte) ([]stok, int) {
	var operand []stok
	i := start
	for ; i < len(body); i++ {
		tok := body[i]
		if tok.Kind == lexer.TokenDirective && string(tok.Bytes(src)) == "`\"" {
			break
		}
		if tok.Kind == lexer.TokenIdentifier {
			if repl, ok := bound[string(tok.Bytes(src))]; ok {
				operand = append(operand, repl...)
				continue
			}
		}
		operand = append(operand, stok{tok: tok, src: src})
	}
	return operand, i - start + 1
}

func bytesOf(toks []stok) [][]byte {
	out := make([][]byte, len(toks))
	for i, t := range toks {
		out[i] = t.bytes()
	}
	return out
}

func (p *Preprocessor) reportUnresolvedDirective(name string, tok lexer.Token, f *frame) {
	if p.strictUndefined {
		diagnostics.ReportError(p.diags, diagnostics.CodeUndefinedMacro, p.rangeOf(f, tok),
			"undefined macro or directive `%s", name).Emit()
		return
	}
	diagnostics.ReportError(p.diags, diagnostics.CodeUnknownDirective, p.rangeOf(f, tok),
		"unknown compiler directive `%s", name).Emit()
}

// renderTokenStream re-spells toks back into bytes (joining with a single
// space wherever lexer.NeedsSpaceBetween requires one), producing the source
// text of a synthetic macro-expansion buffer that the preprocessor's normal
// lexer-frame machinery can then re-lex token by token.
func renderTokenStream(toks []stok) []byte {
	var out []byte
	var prevKind lexer.TokenKind
	havePrev := false
	for _, s := range toks {
		spelling := tokenSpelling(s)
		if havePrev && lexer.NeedsSpaceBetween(prevKind, s.tok.Kind) {
			out = append(out, ' ')
		}
		out = append(out, spelling...)
		prevKind = s.tok.Kind
		havePrev = true
	}
	return out
}

func tokenSpelling(s stok) []byte {
	if s.tok.Kind == lexer.TokenStringLiteral && s.tok.Flags.Has(lexer.TokenFlagSynthesized) && s.tok.Literal != nil {
		return append([]byte{'"'}, append([]byte(s.tok.Literal.Decoded), '"')...)
	}
	if b := s.bytes(); b != nil {
		return b
	}
	if spelling := lexer.Spelling(s.tok.Kind); spelling != "" {
		return []byte(spelling)
	}
	return nil
}
