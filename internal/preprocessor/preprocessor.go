// Package preprocessor implements spec §4.E: it pulls tokens from a stack
// of lexers (the current source buffer, any nested `include files, and any
// in-flight macro expansions), expanding macros and resolving conditional
// compilation, and exposes the result as a single `` next() ``-style token
// stream.
package preprocessor

import (
	"strings"

	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/sourcemgr"
	"github.com/VeriOpen/slang/internal/text"
)

// Trivia is buffer-located trivia, unlike lexer.Trivia which only carries a
// bare Span: the preprocessor's output can mix tokens whose bytes live in
// different buffers (a macro-expansion's synthetic buffer, an included
// file's buffer, ...), so every trivia run must say which buffer it is in.
type Trivia struct {
	Kind  lexer.TriviaKind
	Range text.Range
}

// Token is the preprocessor's output unit: a lexer.Token relocated to a
// buffer-aware Range, with its leading trivia relocated the same way.
type Token struct {
	Kind    lexer.TokenKind
	Range   text.Range
	Leading []Trivia
	Flags   lexer.TokenFlags
	Literal *lexer.LiteralValue

	// ExpandedFrom names the innermost macro this token was produced by
	// expanding, or "" if it came straight from source text.
	ExpandedFrom string
}

// Bytes returns the token's raw spelling.
func (t Token) Bytes(sm *sourcemgr.Manager) []byte {
	buf := sm.Buffer(t.Range.Start.Buffer)
	if buf == nil {
		return nil
	}
	return buf.Text[t.Range.Start.Offset:t.Range.End.Offset]
}

type frame struct {
	lex       *lexer.Lexer
	buffer    text.BufferID
	src       []byte
	macroName string // non-"" if this frame is a macro-expansion buffer
}

type condFrame struct {
	taken    bool
	anyTaken bool
	elseSeen bool
}

// Preprocessor pulls an expanded token stream from a stack of lexers (spec
// §4.E).
type Preprocessor struct {
	sm    *sourcemgr.Manager
	diags *diagnostics.Bag

	stack []*frame
	conds []condFrame

	macros    *MacroTable
	expanding map[string]bool

	userDirs, sysDirs []string
	strictUndefined   bool

	pendingDisabled []Trivia
	lastBuffer      text.BufferID // buffer of the most recently popped/consumed frame, for EOF trivia placement
	pendingToken    *Token        // set by tryExpandMacro when it resolves directly to an output token (recursion guard)
}

// Config configures include search and strictness.
type Config struct {
	UserIncludeDirs   []string
	SystemIncludeDirs []string
	// StrictUndefinedMacro, when true, reports UndefinedMacro for any
	// `name that resolves to neither a known directive nor a defined macro
	// (spec §4.E: "use of undefined macro (in strict mode)").
	StrictUndefinedMacro bool
	Predefines           map[string]string
}

// New returns a Preprocessor reading from root, seeded with cfg's
// predefines.
func New(sm *sourcemgr.Manager, root text.BufferID, diags *diagnostics.Bag, cfg Config) *Preprocessor {
	p := &Preprocessor{
		sm:              sm,
		diags:           diags,
		macros:          NewMacroTable(),
		expanding:       make(map[string]bool),
		userDirs:        cfg.UserIncludeDirs,
		sysDirs:         cfg.SystemIncludeDirs,
		strictUndefined: cfg.StrictUndefinedMacro,
	}
	p.pushBuffer(root, "")
	for name, value := range cfg.Predefines {
		p.Predefine(name, value)
	}
	return p
}

func (p *Preprocessor) pushBuffer(id text.BufferID, macroName string) {
	buf := p.sm.Buffer(id)
	var src []byte
	if buf != nil {
		src = buf.Text
	}
	l := lexer.New(id, src, p.diags)
	p.stack = append(p.stack, &frame{lex: l, buffer: id, src: src, macroName: macroName})
}

func (p *Preprocessor) popFrame() {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if top.macroName != "" {
		delete(p.expanding, top.macroName)
	}
	p.lastBuffer = top.buffer
}

func (p *Preprocessor) currentlyTaken() bool {
	for _, c := range p.conds {
		if !c.taken {
			return false
		}
	}
	return true
}

// Predefine installs name as an object-like macro whose body is value lexed
// as source text, so `name expands to value verbatim (spec §4.E:
// "predefine(name, text)").
func (p *Preprocessor) Predefine(name, value string) {
	src := []byte(value)
	l := lexer.New(text.NoBuffer, src, p.diags)
	var body []lexer.Token
	for tok := l.Next(); tok.Kind != lexer.TokenEOF; tok = l.Next() {
		body = append(body, tok)
	}
	p.macros.Define(&MacroDef{Name: name, Body: body, Src: src})
}

// IsDefined reports whether name is defined at the current point in the
// stream (spec §4.E: "is_defined(name) at current point").
func (p *Preprocessor) IsDefined(name string) bool {
	_, ok := p.macros.Lookup(name)
	return ok
}

// DefinedMacros returns every currently-defined macro name (spec §4.E:
// "defined_macros() -> snapshot").
func (p *Preprocessor) DefinedMacros() []string { return p.macros.Snapshot() }

// Next returns the next post-expansion token.
func (p *Preprocessor) Next() Token {
	for {
		if len(p.stack) == 0 {
			return p.eofToken()
		}
		top := p.stack[len(p.stack)-1]
		raw := top.lex.Next()

		if raw.Kind == lexer.TokenEOF {
			p.popFrame()
			continue
		}

		if raw.Kind == lexer.TokenDirective {
			name := directiveName(raw.Bytes(top.src))
			if isConditionalDirective(name) {
				p.handleConditional(name, raw, top)
				continue
			}
			if !p.currentlyTaken() {
				p.accumulateDisabled(raw, top)
				continue
			}
			if isCompilerDirective(name) {
				p.handleCompilerDirective(name, raw, top)
				continue
			}
			if handled := p.tryExpandMacro(name, raw, top); handled {
				if p.pendingToken != nil {
					out := *p.pendingToken
					p.pendingToken = nil
					return out
				}
				continue
			}
			p.reportUnresolvedDirective(name, raw, top)
			continue
		}

		if !p.currentlyTaken() {
			p.accumulateDisabled(raw, top)
			continue
		}

		return p.emit(raw, top, top.macroName)
	}
}

func (p *Preprocessor) eofToken() Token {
	return Token{Kind: lexer.TokenEOF, Range: text.NewRange(p.lastBuffer, text.Span{}), Leading: p.takeDisabled()}
}

func (p *Preprocessor) emit(tok lexer.Token, f *frame, expandedFrom string) Token {
	leading := p.takeDisabled()
	for _, tr := range tok.Leading {
		leading = append(leading, Trivia{Kind: tr.Kind, Range: text.NewRange(f.buffer, tr.Span)})
	}
	return Token{
		Kind:         tok.Kind,
		Range:        text.NewRange(f.buffer, tok.Span),
		Leading:      leading,
		Flags:        tok.Flags,
		Literal:      tok.Literal,
		ExpandedFrom: expandedFrom,
	}
}

func (p *Preprocessor) accumulateDisabled(tok lexer.Token, f *frame) {
	for _, tr := range tok.Leading {
		p.pendingDisabled = append(p.pendingDisabled, Trivia{Kind: tr.Kind, Range: text.NewRange(f.buffer, tr.Span)})
	}
	p.pendingDisabled = append(p.pendingDisabled, Trivia{Kind: lexer.TriviaDisabledText, Range: text.NewRange(f.buffer, tok.Span)})
}

func (p *Preprocessor) takeDisabled() []Trivia {
	if len(p.pendingDisabled) == 0 {
		return nil
	}
	out := p.pendingDisabled
	p.pendingDisabled = nil
	return out
}

func directiveName(raw []byte) string {
	return strings.TrimPrefix(string(raw), "`")
}
