// Package diagnostics implements the diagnostic engine every other
// front-end component routes its findings through (spec §4.C). It accumulates
// structured diagnostics with locations, notes, and severities, dedups them,
// and lets consumers filter by severity or suppress by code — rendering
// itself is left to consumers, per spec: "Diagnostics carry format arguments
// lazily; rendering is done by consumers."
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/VeriOpen/slang/internal/text"
)

// Severity is a diagnostic's importance.
type Severity uint8

// Severity levels, ordered least to most severe.
const (
	SeverityNote Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// Code is a stable, symbolic diagnostic identifier (spec §6: "Stable
// symbolic identifiers; tools may filter by code or by severity").
type Code string

// Note attaches secondary context (e.g. "declared here") to a Diagnostic.
type Note struct {
	Message string
	Range   text.Range
}

// Diagnostic is a single structured finding.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Range    text.Range
	Format   string
	Args     []any
	Notes    []Note
}

// Message renders Format against Args. Kept lazy on the struct (Args is
// stored, not pre-rendered) so producers that end up discarding a
// diagnostic (e.g. a rolled-back speculative parse) never pay formatting
// cost.
func (d Diagnostic) Message() string {
	if len(d.Args) == 0 {
		return d.Format
	}
	return fmt.Sprintf(d.Format, d.Args...)
}

// dedupKey identifies diagnostics considered duplicates of one another.
type dedupKey struct {
	code Code
	loc  text.Location
}

// Bag accumulates diagnostics for one compilation (or one speculative
// parsing attempt — see the parser's speculate). It is not safe for concurrent
// use, matching the single-threaded-per-compilation model in spec §5.
type Bag struct {
	diags      []Diagnostic
	seen       map[dedupKey]bool
	suppressed map[Code]bool
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{seen: make(map[dedupKey]bool)}
}

// Suppress marks code as suppressed: future Report calls for it are
// dropped silently. The preprocessor does not call it: `` `pragma `` lines
// are skipped without touching the bag.
func (b *Bag) Suppress(code Code) {
	if b.suppressed == nil {
		b.suppressed = make(map[Code]bool)
	}
	b.suppressed[code] = true
}

// Unsuppress clears a previous Suppress(code).
func (b *Bag) Unsuppress(code Code) {
	delete(b.suppressed, code)
}

// Report records d, applying suppression and (code, primary-location)
// deduplication. Returns true if the diagnostic was actually recorded.
func (b *Bag) Report(d Diagnostic) bool {
	if b.suppressed[d.Code] {
		return false
	}
	key := dedupKey{code: d.Code, loc: d.Range.Start}
	if b.seen[key] {
		return false
	}
	b.seen[key] = true
	b.diags = append(b.diags, d)
	return true
}

// All returns the recorded diagnostics in report order.
func (b *Bag) All() []Diagnostic {
	return b.diags
}

// Len reports how many diagnostics are recorded.
func (b *Bag) Len() int { return len(b.diags) }

// HasErrors reports whether any recorded diagnostic is Error or Fatal.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// Sorted returns the diagnostics ordered by (location, severity, code);
// ties broken by report order. The input bag is left unmodified.
func (b *Bag) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(b.diags))
	copy(out, b.diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Range.Start.Buffer != c.Range.Start.Buffer {
			return a.Range.Start.Buffer < c.Range.Start.Buffer
		}
		if a.Range.Start.Offset != c.Range.Start.Offset {
			return a.Range.Start.Offset < c.Range.Start.Offset
		}
		if a.Severity != c.Severity {
			return a.Severity > c.Severity
		}
		return a.Code < c.Code
	})
	return out
}

// Merge appends every diagnostic from other, respecting this bag's own
// suppression and dedup state. Used to fold a successful speculative
// parse's buffered diagnostics into the owning bag (spec §4.F, §9).
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.diags {
		b.Report(d)
	}
}

// Engine is the compilation-wide diagnostic sink. It wraps a root Bag and
// hands out ReportBuilders for the chained WithNote/Emit style the parser
// and elaborator use.
type Engine struct {
	root *Bag
}

// NewEngine returns an Engine with an empty root bag.
func NewEngine() *Engine {
	return &Engine{root: NewBag()}
}

// Bag returns the engine's root diagnostic bag.
func (e *Engine) Bag() *Bag { return e.root }

// Report is a one-shot report with no notes.
func (e *Engine) Report(code Code, severity Severity, rng text.Range, format string, args ...any) {
	e.root.Report(Diagnostic{Code: code, Severity: severity, Range: rng, Format: format, Args: args})
}

// ReportBuilder accumulates notes before a diagnostic is emitted, mirroring
// the chained `ReportError(...).WithNote(...).Emit()` style.
type ReportBuilder struct {
	bag *Bag
	d   Diagnostic
}

// NewReportBuilder starts building a diagnostic destined for bag.
func NewReportBuilder(bag *Bag, code Code, severity Severity, rng text.Range, format string, args ...any) *ReportBuilder {
	return &ReportBuilder{
		bag: bag,
		d:   Diagnostic{Code: code, Severity: severity, Range: rng, Format: format, Args: args},
	}
}

// ReportError starts an Error-severity builder against bag.
func ReportError(bag *Bag, code Code, rng text.Range, format string, args ...any) *ReportBuilder {
	return NewReportBuilder(bag, code, SeverityError, rng, format, args...)
}

// ReportWarning starts a Warning-severity builder against bag.
func ReportWarning(bag *Bag, code Code, rng text.Range, format string, args ...any) *ReportBuilder {
	return NewReportBuilder(bag, code, SeverityWarning, rng, format, args...)
}

// ReportInfo starts an Info-severity builder against bag.
func ReportInfo(bag *Bag, code Code, rng text.Range, format string, args ...any) *ReportBuilder {
	return NewReportBuilder(bag, code, SeverityInfo, rng, format, args...)
}

// WithNote appends a note and returns the builder for chaining.
func (r *ReportBuilder) WithNote(message string, rng text.Range) *ReportBuilder {
	if r == nil {
		return nil
	}
	r.d.Notes = append(r.d.Notes, Note{Message: message, Range: rng})
	return r
}

// Emit records the built diagnostic.
func (r *ReportBuilder) Emit() {
	if r == nil || r.bag == nil {
		return
	}
	r.bag.Report(r.d)
}
