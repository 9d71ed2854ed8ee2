// Package parser implements spec §4.F: a hand-written recursive-descent
// parser that turns a preprocessor's token stream into a concrete syntax
// tree, with synthetic-token error recovery, follow-set skip recovery, and
// checkpointable speculative parsing for the grammar's genuinely ambiguous
// corners.
package parser

import (
	"github.com/VeriOpen/slang/internal/diagnostics"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/preprocessor"
	"github.com/VeriOpen/slang/internal/syntax"
	"github.com/VeriOpen/slang/internal/text"
)

// Parser holds the mutable state of one parse: the token cursor, the
// diagnostic sink currently in effect (swapped out during a speculative
// parse), the syntax arena being built, and any skipped-token trivia still
// waiting to be attached to the next accepted token.
type Parser struct {
	cur   *cursor
	diags *diagnostics.Bag
	tree  *syntax.Tree

	skipped    []syntax.Trivia
	lastBuffer text.BufferID
}

// New returns a Parser pulling from pp and routing diagnostics to diags.
func New(pp *preprocessor.Preprocessor, diags *diagnostics.Bag) *Parser {
	return &Parser{cur: newCursor(pp), diags: diags, tree: syntax.NewTree()}
}

// Tree returns the syntax arena the parser builds into. Valid to call at
// any time; nodes already returned by a completed entry point remain valid
// even while parsing continues (e.g. ParseGuess followed by more parsing
// reuses the same arena).
func (p *Parser) Tree() *syntax.Tree { return p.tree }

func (p *Parser) peek(offset int) preprocessor.Token { return p.cur.peek(offset) }

func (p *Parser) at(kind lexer.TokenKind) bool { return p.peek(0).Kind == kind }

func (p *Parser) atAny(kinds ...lexer.TokenKind) bool {
	cur := p.peek(0).Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// next consumes and returns the next token, prepending any accumulated
// skipped-token trivia in front of its own leading trivia (spec §4.F:
// "the accumulated skipped-trivia are attached in front of its existing
// trivia").
func (p *Parser) next() preprocessor.Token {
	tok := p.cur.advance()
	if len(p.skipped) > 0 {
		leading := make([]syntax.Trivia, 0, len(p.skipped)+len(tok.Leading))
		leading = append(leading, p.skipped...)
		leading = append(leading, tok.Leading...)
		tok.Leading = leading
		p.skipped = nil
	}
	if tok.Range.Start.Buffer.IsValid() {
		p.lastBuffer = tok.Range.Start.Buffer
	}
	return tok
}

// accept consumes and returns the next token if it has kind; otherwise it
// leaves the cursor alone and reports ok=false.
func (p *Parser) accept(kind lexer.TokenKind) (preprocessor.Token, bool) {
	if !p.at(kind) {
		return preprocessor.Token{}, false
	}
	return p.next(), true
}

// expect consumes a token of kind, or materializes a zero-width synthetic
// one and reports code against the current position (spec §4.F: "Synthetic
// tokens... materialize a zero-width synthetic token of that kind marked
// 'missing' and emit ExpectedX. Parsing continues with the synthetic token
// in place").
func (p *Parser) expect(kind lexer.TokenKind, code diagnostics.Code, what string) preprocessor.Token {
	if tok, ok := p.accept(kind); ok {
		return tok
	}
	loc := p.peek(0).Range.Start
	diagnostics.ReportError(p.diags, code, text.Range{Start: loc, End: loc},
		"expected %s", what).Emit()
	return p.synthesize(kind)
}

// synthesize builds a zero-width, flagged-missing token at the cursor's
// current position.
func (p *Parser) synthesize(kind lexer.TokenKind) preprocessor.Token {
	loc := p.peek(0).Range.Start
	return preprocessor.Token{
		Kind:  kind,
		Range: text.Range{Start: loc, End: loc},
		Flags: lexer.TokenFlagSynthesized,
	}
}

// skipOne pulls the current token off as pending skipped-token trivia (spec
// §4.F: "pull it off, append it to a pending skipped-trivia list, and
// continue").
func (p *Parser) skipOne() {
	tok := p.cur.advance()
	p.skipped = append(p.skipped, tok.Leading...)
	p.skipped = append(p.skipped, syntax.Trivia{Kind: lexer.TriviaSkippedText, Range: tok.Range})
}

// expectSemi expects a terminating ';', first skipping any stray tokens in
// front of it as trivia so one malformed item doesn't desynchronize every
// sibling that follows in the same list (spec §4.F: hard-sync recovery
// combined with skipped-token trivia, applied at the one production every
// statement and declaration shares).
func (p *Parser) expectSemi() preprocessor.Token {
	if !p.at(lexer.TokenSemi) {
		p.recover(lexer.TokenSemi)
	}
	return p.expect(lexer.TokenSemi, diagnostics.CodeExpectedToken, "';'")
}

// expectIdentifier is the common case of expect for a plain identifier,
// since the parser treats TokenIdentifier as the "missing name" kind used
// by most declarations.
func (p *Parser) expectIdentifier(what string) preprocessor.Token {
	return p.expect(lexer.TokenIdentifier, diagnostics.CodeExpectedIdentifier, what)
}

// hardSync are the tokens every recovery set stops at even if the caller's
// own follow set doesn't name them (spec §4.F: "a hard synchronization
// token (;, end, endmodule, matching close bracket)").
var hardSync = map[lexer.TokenKind]bool{
	lexer.TokenSemi:      true,
	lexer.TokenKwEnd:     true,
	lexer.TokenKwEndmodule: true,
	lexer.TokenRParen:   true,
	lexer.TokenRBracket: true,
	lexer.TokenRBrace:   true,
}

// recover skips tokens until one in follow, a hard-sync token, or end of
// file is reached, reporting CodeSkippedTokens once for the whole run (spec
// §4.F: "Each high-level production carries a follow-set; when lost, skip
// tokens until an element of the follow-set...is seen").
func (p *Parser) recover(follow ...lexer.TokenKind) {
	reported := false
	for {
		k := p.peek(0).Kind
		if k == lexer.TokenEOF || hardSync[k] || kindIn(follow, k) {
			return
		}
		if !reported {
			tok := p.peek(0)
			diagnostics.ReportError(p.diags, diagnostics.CodeSkippedTokens, tok.Range,
				"unexpected token, skipping to resynchronize").Emit()
			reported = true
		}
		p.skipOne()
	}
}

func kindIn(set []lexer.TokenKind, k lexer.TokenKind) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}

// speculate runs fn over a checkpointed cursor with a scoped diagnostic
// bag. If fn reports success, the checkpoint's diagnostics are merged into
// the real bag and the cursor stays advanced; otherwise the cursor and
// pending skipped trivia are rolled back and fn's diagnostics are discarded
// (spec §4.F: "Speculative diagnostics are buffered and discarded on
// rollback").
func speculate[T any](p *Parser, fn func() (T, bool)) (T, bool) {
	cp := p.cur.mark()
	savedSkipped := append([]syntax.Trivia(nil), p.skipped...)
	sub := diagnostics.NewBag()
	outer := p.diags
	p.diags = sub
	val, ok := fn()
	p.diags = outer

	if ok {
		outer.Merge(sub)
		return val, true
	}
	p.cur.reset(cp)
	p.skipped = savedSkipped
	var zero T
	return zero, false
}
