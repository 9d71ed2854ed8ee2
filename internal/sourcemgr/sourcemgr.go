// Package sourcemgr implements spec §4.B's source manager: it maps file
// paths and in-memory buffers to stable BufferIDs, resolves locations
// (including through include files and macro expansions) back to
// path/line/column, and performs include-directory search.
package sourcemgr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"

	"github.com/VeriOpen/slang/internal/text"
)

// Sentinel errors surfaced by Manager, matching spec §4.B's "Fails with
// IoError or NotFound on path resolution."
var (
	ErrNotFound     = errors.New("sourcemgr: file not found")
	ErrIncludeDepth = errors.New("sourcemgr: include depth exceeded")
)

// IoError wraps an underlying filesystem failure.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("sourcemgr: io error reading %q: %v", e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// Origin records why a buffer exists, so a location within it can be traced
// back to where it came from.
type Origin int

const (
	// OriginFile is a buffer loaded directly from a path or from memory.
	OriginFile Origin = iota
	// OriginInclude is a buffer pulled in by a preprocessor `include.
	OriginInclude
	// OriginMacroExpansion is a buffer synthesized by expanding a macro call.
	OriginMacroExpansion
)

// IncludeLink records the include site for an OriginInclude buffer.
type IncludeLink struct {
	From text.Location // location of the `include directive in the parent buffer
}

// ExpansionLink records the macro call site for an OriginMacroExpansion
// buffer, letting callers walk the full expansion chain (spec §4.B:
// "iterate the expansion chain of a macro-produced location").
type ExpansionLink struct {
	MacroName string
	CallSite  text.Location // location of the macro invocation in the parent buffer
}

// Buffer is an immutable source buffer owning its text for the lifetime of
// the compilation (spec §3).
type Buffer struct {
	ID        text.BufferID
	Path      string // display path; "<memory>" for in-memory buffers without a name
	Text      []byte
	LineIndex *text.LineIndex

	Origin    Origin
	Include   *IncludeLink
	Expansion *ExpansionLink
	depth     int // include/expansion nesting depth, for ErrIncludeDepth
}

// Manager owns every buffer for one compilation.
type Manager struct {
	fs             afs.Service
	buffers        []*Buffer // index 0 unused; BufferID is 1-based
	pathToBuffer   map[string]text.BufferID
	maxIncludeDepth int
}

// NewManager returns an empty Manager. If fs is nil, afs.New() is used,
// giving LoadPath transparent access to any afs-supported backend (local
// disk today; S3/GCS/etc. without a code change tomorrow).
func NewManager(fs afs.Service) *Manager {
	if fs == nil {
		fs = afs.New()
	}
	return &Manager{
		fs:              fs,
		buffers:         make([]*Buffer, 1),
		pathToBuffer:    make(map[string]text.BufferID),
		maxIncludeDepth: 200,
	}
}

// SetMaxIncludeDepth overrides the default include/expansion nesting limit.
func (m *Manager) SetMaxIncludeDepth(n int) {
	if n > 0 {
		m.maxIncludeDepth = n
	}
}

// LoadMemory registers an in-memory buffer under display name `name` and
// returns its BufferID.
func (m *Manager) LoadMemory(name string, content []byte) text.BufferID {
	return m.addBuffer(&Buffer{Path: name, Text: content, Origin: OriginFile})
}

// LoadPath reads path through the configured afs.Service and registers it.
// Repeated loads of the same (cleaned) path return the same BufferID rather
// than re-reading the file.
func (m *Manager) LoadPath(ctx context.Context, path string) (text.BufferID, error) {
	clean := filepath.Clean(path)
	if id, ok := m.pathToBuffer[clean]; ok {
		return id, nil
	}
	content, err := m.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return text.NoBuffer, &IoError{Path: path, Err: err}
	}
	id := m.addBuffer(&Buffer{Path: clean, Text: content, Origin: OriginFile})
	m.pathToBuffer[clean] = id
	return id, nil
}

func (m *Manager) addBuffer(b *Buffer) text.BufferID {
	id := text.BufferID(len(m.buffers))
	b.ID = id
	m.buffers = append(m.buffers, b)
	return id
}

// Buffer returns the buffer for id, or nil if id is unknown.
func (m *Manager) Buffer(id text.BufferID) *Buffer {
	if !id.IsValid() || int(id) >= len(m.buffers) {
		return nil
	}
	return m.buffers[id]
}

// OpenInclude resolves name by searching userDirs then systemDirs in order
// (spec §4.B), relative to the directory of the `from` buffer when name is
// itself relative, then loads it as an OriginInclude buffer whose
// IncludeLink points back to site.
func (m *Manager) OpenInclude(ctx context.Context, name string, from text.BufferID, site text.Location, userDirs, systemDirs []string) (text.BufferID, error) {
	parent := m.Buffer(from)
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	if depth > m.maxIncludeDepth {
		return text.NoBuffer, ErrIncludeDepth
	}

	candidates := m.includeCandidates(name, parent, userDirs, systemDirs)

	var lastErr error
	for _, candidate := range candidates {
		content, err := m.fs.DownloadWithURL(ctx, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		id := m.addBuffer(&Buffer{
			Path:    filepath.Clean(candidate),
			Text:    content,
			Origin:  OriginInclude,
			Include: &IncludeLink{From: site},
			depth:   depth,
		})
		return id, nil
	}
	if lastErr == nil {
		return text.NoBuffer, fmt.Errorf("sourcemgr: include %q: %w", name, ErrNotFound)
	}
	return text.NoBuffer, fmt.Errorf("sourcemgr: include %q: %w (last error: %v)", name, ErrNotFound, lastErr)
}

func (m *Manager) includeCandidates(name string, parent *Buffer, userDirs, systemDirs []string) []string {
	var out []string
	if !filepath.IsAbs(name) && parent != nil {
		out = append(out, filepath.Join(filepath.Dir(parent.Path), name))
	}
	for _, dir := range userDirs {
		out = append(out, filepath.Join(dir, name))
	}
	for _, dir := range systemDirs {
		out = append(out, filepath.Join(dir, name))
	}
	if filepath.IsAbs(name) {
		out = append(out, name)
	}
	return out
}

// NewExpansionBuffer registers a synthetic buffer holding macro-expanded
// text, tracked back to the macro invocation at callSite (spec §4.E step 5:
// "each emitted token carries a macro-expansion location whose chain points
// back to the original call site").
func (m *Manager) NewExpansionBuffer(macroName string, callSite text.Location, expanded []byte) text.BufferID {
	parent := m.Buffer(callSite.Buffer)
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	return m.addBuffer(&Buffer{
		Path:      fmt.Sprintf("<expansion of `%s>", macroName),
		Text:      expanded,
		Origin:    OriginMacroExpansion,
		Expansion: &ExpansionLink{MacroName: macroName, CallSite: callSite},
		depth:     depth,
	})
}

// lineIndex returns (creating if necessary) the buffer's LineIndex.
func (b *Buffer) lineIndex() *text.LineIndex {
	if b.LineIndex == nil {
		b.LineIndex = text.NewLineIndex(b.Text)
	}
	return b.LineIndex
}

// Resolved is a location resolved to a human-facing path/line/column. A
// location inside a macro-expansion buffer is reported at the outermost
// macro call site; a location inside an included file is reported in that
// included file.
type Resolved struct {
	Path   string
	Line   int // 0-based
	Column int // byte column
}

// Resolve converts loc to a path/line/column, per spec §4.B.
func (m *Manager) Resolve(loc text.Location) (Resolved, error) {
	buf := m.Buffer(loc.Buffer)
	for buf != nil && buf.Origin == OriginMacroExpansion && buf.Expansion != nil {
		loc = buf.Expansion.CallSite
		buf = m.Buffer(loc.Buffer)
	}
	if buf == nil {
		return Resolved{}, ErrNotFound
	}
	pt, err := buf.lineIndex().OffsetToPoint(loc.Offset)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Path: buf.Path, Line: pt.Line, Column: pt.Column}, nil
}

// ExpansionChain walks the chain of macro expansions (and the include that
// ultimately contains them) starting at loc, outermost call site last.
// Returns nil if loc's buffer was not produced by expanding a macro.
func (m *Manager) ExpansionChain(loc text.Location) []ExpansionLink {
	var chain []ExpansionLink
	buf := m.Buffer(loc.Buffer)
	for buf != nil && buf.Expansion != nil {
		chain = append(chain, *buf.Expansion)
		buf = m.Buffer(buf.Expansion.CallSite.Buffer)
	}
	return chain
}

// OriginatingFile walks include and expansion links until it reaches a
// buffer that was loaded directly (OriginFile), returning that buffer.
func (m *Manager) OriginatingFile(id text.BufferID) *Buffer {
	buf := m.Buffer(id)
	for buf != nil {
		switch buf.Origin {
		case OriginInclude:
			buf = m.Buffer(buf.Include.From.Buffer)
		case OriginMacroExpansion:
			buf = m.Buffer(buf.Expansion.CallSite.Buffer)
		default:
			return buf
		}
	}
	return nil
}
