package syntax

import (
	"github.com/VeriOpen/slang/internal/arena"
	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/sourcemgr"
)

// Print renders the subtree rooted at h back to text: depth-first, each
// token's leading trivia raw bytes followed by its own raw text, or nothing
// for a synthetic (missing) token (spec §4.G). For every non-synthesized
// input this reconstructs the original source exactly (spec §8's
// round-trip property); a tree containing synthesized tokens prints the
// source that actually exists, omitting only the recovery filler.
func Print(t *Tree, h arena.Handle[Node], sm *sourcemgr.Manager) []byte {
	var out []byte
	WalkFunc(t, h, nil, func(tok Token) {
		for _, tr := range tok.Leading {
			out = append(out, triviaBytes(sm, tr)...)
		}
		if tok.Flags.Has(lexer.TokenFlagSynthesized) {
			return
		}
		out = append(out, tok.Bytes(sm)...)
	})
	return out
}

func triviaBytes(sm *sourcemgr.Manager, tr Trivia) []byte {
	buf := sm.Buffer(tr.Range.Start.Buffer)
	if buf == nil {
		return nil
	}
	return buf.Text[tr.Range.Start.Offset:tr.Range.End.Offset]
}
