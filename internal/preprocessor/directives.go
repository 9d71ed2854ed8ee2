package preprocessor

import (
	"context"
	"strings"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/text"
)

var conditionalDirectives = map[string]bool{
	"ifdef": true, "ifndef": true, "elsif": true, "else": true, "endif": true,
}

// compilerDirectives lists every directive spec §4.E names outside the
// conditional family, including the macro-definition directives.
var compilerDirectives = map[string]bool{
	"include": true, "define": true, "undef": true, "undefineall": true,
	"timescale": true, "default_nettype": true, "line": true, "resetall": true,
	"begin_keywords": true, "end_keywords": true,
	"unconnected_drive": true, "nounconnected_drive": true,
	"celldefine": true, "endcelldefine": true, "pragma": true,
}

func isConditionalDirective(name string) bool { return conditionalDirectives[name] }
func isCompilerDirective(name string) bool    { return compilerDirectives[name] }

func (p *Preprocessor) loc(f *frame, offset text.ByteOffset) text.Location {
	return text.Location{Buffer: f.buffer, Offset: offset}
}

func (p *Preprocessor) rangeOf(f *frame, tok lexer.Token) text.Range {
	return text.NewRange(f.buffer, tok.Span)
}

// handleConditional advances `ifdef/`ifndef/`elsif/`else/`endif. These are
// processed unconditionally (spec §4.E: "the conditional-inclusion stack...
// must be tracked even inside disabled regions").
func (p *Preprocessor) handleConditional(name string, tok lexer.Token, f *frame) {
	switch name {
	case "ifdef", "ifndef":
		ident := p.expectDirectiveIdentifier(f)
		defined := p.IsDefined(ident)
		if name == "ifndef" {
			defined = !defined
		}
		p.conds = append(p.conds, condFrame{taken: defined && p.currentlyTaken(), anyTaken: defined})
	case "elsif":
		ident := p.expectDirectiveIdentifier(f)
		if len(p.conds) == 0 {
			p.reportUnbalanced(tok, f)
			return
		}
		top := &p.conds[len(p.conds)-1]
		if top.elseSeen {
			p.reportUnbalanced(tok, f)
			return
		}
		defined := p.IsDefined(ident)
		parentTaken := p.currentlyTakenExcludingTop()
		top.taken = parentTaken && defined && !top.anyTaken
		if defined {
			top.anyTaken = true
		}
	case "else":
		if len(p.conds) == 0 {
			p.reportUnbalanced(tok, f)
			return
		}
		top := &p.conds[len(p.conds)-1]
		if top.elseSeen {
			p.reportUnbalanced(tok, f)
			return
		}
		top.elseSeen = true
		parentTaken := p.currentlyTakenExcludingTop()
		top.taken = parentTaken && !top.anyTaken
		top.anyTaken = true
	case "endif":
		if len(p.conds) == 0 {
			p.reportUnbalanced(tok, f)
			return
		}
		p.conds = p.conds[:len(p.conds)-1]
	}
}

func (p *Preprocessor) currentlyTakenExcludingTop() bool {
	for _, c := range p.conds[:len(p.conds)-1] {
		if !c.taken {
			return false
		}
	}
	return true
}

func (p *Preprocessor) reportUnbalanced(tok lexer.Token, f *frame) {
	diagnostics.ReportError(p.diags, diagnostics.CodeUnbalancedConditional, p.rangeOf(f, tok),
		"unbalanced conditional compilation directive").Emit()
}

// expectDirectiveIdentifier pulls the next raw token from f, expecting a
// plain identifier (the name argument to `ifdef/`ifndef/`elsif/`undef/
// `default_nettype), bypassing macro expansion entirely: these names are
// never themselves macro-expanded.
func (p *Preprocessor) expectDirectiveIdentifier(f *frame) string {
	tok := f.lex.Next()
	if tok.Kind != lexer.TokenIdentifier {
		diagnostics.ReportError(p.diags, diagnostics.CodeExpectedIdentifier, p.rangeOf(f, tok),
			"expected an identifier after directive").Emit()
		return ""
	}
	return string(tok.Bytes(f.src))
}

func (p *Preprocessor) handleCompilerDirective(name string, tok lexer.Token, f *frame) {
	switch name {
	case "include":
		p.handleInclude(tok, f)
	case "define":
		p.handleDefine(tok, f)
	case "undef":
		ident := p.expectDirectiveIdentifier(f)
		p.macros.Undef(ident)
	case "undefineall":
		p.macros.UndefAll()
	case "resetall", "celldefine", "endcelldefine":
		// No persistent preprocessor state beyond the macro table and
		// conditional stack to reset; parsed for vocabulary completeness only.
	case "timescale":
		p.skipToLineEnd(f)
	case "default_nettype":
		p.expectDirectiveIdentifier(f)
	case "line":
		p.skipToLineEnd(f)
	case "begin_keywords":
		p.skipToLineEnd(f)
	case "end_keywords":
		// no argument
	case "unconnected_drive", "nounconnected_drive":
		p.skipToLineEnd(f)
	case "pragma":
		p.skipToLineEnd(f)
	}
}

// skipToLineEnd consumes and discards tokens up to (but not past) the next
// newline trivia, used for directives whose argument grammar this front end
// does not need to interpret structurally (spec §4.E lists these as
// recognized-but-opaque: `timescale, `line, `begin_keywords, `pragma, ...).
func (p *Preprocessor) skipToLineEnd(f *frame) {
	for {
		pos := f.lex.Position()
		tok := f.lex.Next()
		for _, tr := range tok.Leading {
			if tr.Kind == lexer.TriviaNewline {
				f.lex.Seek(pos)
				return
			}
		}
		if tok.Kind == lexer.TokenEOF {
			return
		}
	}
}

func (p *Preprocessor) handleInclude(tok lexer.Token, f *frame) {
	raw := f.lex.Next()
	var name string
	switch raw.Kind {
	case lexer.TokenStringLiteral:
		if raw.Literal != nil {
			name = raw.Literal.Decoded
		}
	case lexer.TokenLess:
		var sb strings.Builder
		for {
			t := f.lex.Next()
			if t.Kind == lexer.TokenGreater || t.Kind == lexer.TokenEOF {
				break
			}
			sb.Write(t.Bytes(f.src))
		}
		name = sb.String()
	default:
		diagnostics.ReportError(p.diags, diagnostics.CodeExpectedToken, p.rangeOf(f, raw),
			"expected a filename after `include").Emit()
		return
	}

	id, err := p.sm.OpenInclude(context.Background(), name, f.buffer, p.loc(f, tok.Span.Start), p.userDirs, p.sysDirs)
	if err != nil {
		diagnostics.ReportError(p.diags, diagnostics.CodeIncludeNotFound, p.rangeOf(f, tok),
			"could not open include file %q: %v", name, err).Emit()
		return
	}
	p.pushBuffer(id, "")
}

// handleDefine parses `` `define NAME[(params)] body `` (spec §4.E step 1).
func (p *Preprocessor) handleDefine(directiveTok lexer.Token, f *frame) {
	nameTok := f.lex.Next()
	if nameTok.Kind != lexer.TokenIdentifier {
		diagnostics.ReportError(p.diags, diagnostics.CodeExpectedIdentifier, p.rangeOf(f, nameTok),
			"expected macro name after `define").Emit()
		return
	}
	name := string(nameTok.Bytes(f.src))

	def := &MacroDef{Name: name, DefinedAt: p.loc(f, nameTok.Span.Start)}

	// A '(' immediately following the name (no whitespace trivia) makes this
	// a function-like macro; any other following token (including one with
	// leading whitespace) makes it object-like, per the LRM's no-space rule.
	savedPos := f.lex.Position()
	next := f.lex.Next()
	if next.Kind == lexer.TokenLParen && len(next.Leading) == 0 {
		p.parseMacroParams(def, f)
	} else {
		f.lex.Seek(savedPos)
	}

	def.Body = p.scanMacroBody(f)
	def.Src = f.src

	if prev := p.macros.Define(def); prev != nil && !prev.sameDefinition(def, prev.Src, def.Src) {
		diagnostics.ReportWarning(p.diags, diagnostics.CodeMacroRedefinition, p.rangeOf(f, nameTok),
			"macro %q redefined with a different body", name).Emit()
	}
}

func (p *Preprocessor) parseMacroParams(def *MacroDef, f *frame) {
	f.lex.Next() // consume '('
	for {
		tok := f.lex.Next()
		if tok.Kind == lexer.TokenRParen || tok.Kind == lexer.TokenEOF {
			return
		}
		if tok.Kind != lexer.TokenIdentifier {
			continue
		}
		param := string(tok.Bytes(f.src))
		def.Params = append(def.Params, param)

		savedPos := f.lex.Position()
		peek := f.lex.Next()
		if peek.Kind == lexer.TokenEqual {
			def.Defaults = append(def.Defaults, p.scanDefaultValue(f))
			def.HasDefault = append(def.HasDefault, true)
		} else {
			f.lex.Seek(savedPos)
			def.Defaults = append(def.Defaults, nil)
			def.HasDefault = append(def.HasDefault, false)
		}

		savedPos = f.lex.Position()
		sep := f.lex.Next()
		if sep.Kind == lexer.TokenRParen {
			return
		}
		if sep.Kind != lexer.TokenComma {
			f.lex.Seek(savedPos)
		}
	}
}

// scanDefaultValue scans a parameter default: tokens up to the next
// top-level ',' or ')', respecting nested parens.
func (p *Preprocessor) scanDefaultValue(f *frame) []lexer.Token {
	var toks []lexer.Token
	depth := 0
	for {
		savedPos := f.lex.Position()
		tok := f.lex.Next()
		if depth == 0 && (tok.Kind == lexer.TokenComma || tok.Kind == lexer.TokenRParen) {
			f.lex.Seek(savedPos)
			return toks
		}
		switch tok.Kind {
		case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
			depth++
		case lexer.TokenRParen, lexer.TokenRBracket, lexer.TokenRBrace:
			depth--
		case lexer.TokenEOF:
			return toks
		}
		toks = append(toks, tok)
	}
}

// scanMacroBody consumes the replacement token list up to (not including)
// the first newline (spec §4.E: macro bodies end at end-of-line). Escaped
// line continuation inside a macro body is not supported; a trailing
// backslash-newline in source is treated like any other end-of-line.
func (p *Preprocessor) scanMacroBody(f *frame) []lexer.Token {
	var toks []lexer.Token
	for {
		savedPos := f.lex.Position()
		tok := f.lex.Next()
		for _, tr := range tok.Leading {
			if tr.Kind == lexer.TriviaNewline {
				f.lex.Seek(savedPos)
				return toks
			}
		}
		if tok.Kind == lexer.TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}
