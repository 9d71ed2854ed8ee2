package lexer

import (
	"fmt"

	"github.com/VeriOpen/slang/internal/text"
)

// TriviaKind identifies non-token source segments attached as leading trivia.
type TriviaKind uint8

// TriviaKind values describe trivia categories.
const (
	TriviaWhitespace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaSkippedText is unexpected-token trivia produced by the parser's
	// recovery (spec §4.F, TokenFlagSkipped). The lexer does not produce it:
	// an unrecognized byte becomes a TokenError token with an UnknownToken
	// diagnostic.
	TriviaSkippedText
	// TriviaDisabledText covers source consumed by a non-taken preprocessor
	// conditional branch (spec §4.E: "emitted as disabled-text trivia
	// attached to the next passing token").
	TriviaDisabledText
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "Whitespace"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaSkippedText:
		return "SkippedText"
	case TriviaDisabledText:
		return "DisabledText"
	default:
		return fmt.Sprintf("TriviaKind(%d)", k)
	}
}

// Trivia represents a non-token source span (whitespace/comments/newlines/
// skipped or disabled text).
type Trivia struct {
	Kind TriviaKind
	Span text.Span
}

// Bytes returns the trivia bytes referenced by Span or nil if Span is invalid for src.
func (t Trivia) Bytes(src []byte) []byte {
	return bytesForSpan(src, t.Span)
}
