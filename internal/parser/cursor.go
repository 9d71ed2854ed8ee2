package parser

import "github.com/VeriOpen/slang/internal/preprocessor"

// tokenSource is the pull interface a cursor buffers over; satisfied by
// *preprocessor.Preprocessor.
type tokenSource interface {
	Next() preprocessor.Token
}

// cursor buffers a tokenSource into a randomly addressable window (spec
// §4.F: "maintain a small peek buffer so that lookahead never pessimizes the
// preprocessor") and exposes mark/reset checkpoints for speculative parsing
// (spec §4.F disambiguation, §9 "checkpoint on the preprocessor's cursor").
// Tokens already pulled are never discarded, only replayed: resetting after
// a rollback just moves pos back over the buffered window.
type cursor struct {
	src tokenSource
	buf []preprocessor.Token
	pos int
}

func newCursor(src tokenSource) *cursor {
	return &cursor{src: src}
}

func (c *cursor) fill(upTo int) {
	for len(c.buf) <= upTo {
		c.buf = append(c.buf, c.src.Next())
	}
}

// peek returns the token `offset` positions ahead of the cursor without
// consuming it; offset 0 is the token advance would return next.
func (c *cursor) peek(offset int) preprocessor.Token {
	c.fill(c.pos + offset)
	return c.buf[c.pos+offset]
}

// advance consumes and returns the next token.
func (c *cursor) advance() preprocessor.Token {
	tok := c.peek(0)
	c.pos++
	return tok
}

// checkpoint is an opaque cursor position a caller can later reset to.
type checkpoint int

func (c *cursor) mark() checkpoint { return checkpoint(c.pos) }

func (c *cursor) reset(cp checkpoint) { c.pos = int(cp) }
