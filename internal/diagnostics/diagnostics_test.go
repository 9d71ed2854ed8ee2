package diagnostics

import (
	"testing"

	"github.com/VeriOpen/slang/internal/text"
)

func rangeAt(off int) text.Range {
	return text.NewRange(1, text.Span{Start: text.ByteOffset(off), End: text.ByteOffset(off + 1)})
}

func TestBagDedupesByCodeAndLocation(t *testing.T) {
	b := NewBag()
	first := b.Report(Diagnostic{Code: CodeUnknownToken, Severity: SeverityError, Range: rangeAt(5), Format: "bad byte"})
	second := b.Report(Diagnostic{Code: CodeUnknownToken, Severity: SeverityError, Range: rangeAt(5), Format: "bad byte"})
	if !first {
		t.Fatal("first Report should be recorded")
	}
	if second {
		t.Fatal("duplicate (code, location) Report should be dropped")
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
}

func TestBagSuppression(t *testing.T) {
	b := NewBag()
	b.Suppress(CodeUnknownToken)
	if b.Report(Diagnostic{Code: CodeUnknownToken, Range: rangeAt(0)}) {
		t.Fatal("suppressed code should not be recorded")
	}
	b.Unsuppress(CodeUnknownToken)
	if !b.Report(Diagnostic{Code: CodeUnknownToken, Range: rangeAt(0)}) {
		t.Fatal("unsuppressed code should be recorded")
	}
}

func TestReportBuilderChaining(t *testing.T) {
	bag := NewBag()
	ReportError(bag, CodeRecursiveDefinition, rangeAt(10), "cycle detected resolving %q", "foo").
		WithNote("first referenced here", rangeAt(3)).
		Emit()

	diags := bag.All()
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	if diags[0].Message() != `cycle detected resolving "foo"` {
		t.Fatalf("Message() = %q", diags[0].Message())
	}
	if len(diags[0].Notes) != 1 {
		t.Fatalf("len(Notes) = %d, want 1", len(diags[0].Notes))
	}
}

func TestBagMergeRespectsDestinationSuppression(t *testing.T) {
	dst := NewBag()
	dst.Suppress(CodeUnknownToken)
	src := NewBag()
	src.Report(Diagnostic{Code: CodeUnknownToken, Range: rangeAt(1)})
	src.Report(Diagnostic{Code: CodeUnterminatedString, Range: rangeAt(2)})

	dst.Merge(src)
	if dst.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (suppressed code filtered on merge)", dst.Len())
	}
}

func TestSortedOrdersByLocationThenSeverity(t *testing.T) {
	b := NewBag()
	b.Report(Diagnostic{Code: CodeUnknownToken, Severity: SeverityWarning, Range: rangeAt(10)})
	b.Report(Diagnostic{Code: CodeUnterminatedString, Severity: SeverityError, Range: rangeAt(5)})
	b.Report(Diagnostic{Code: CodeUndefinedMacro, Severity: SeverityError, Range: rangeAt(10)})

	sorted := b.Sorted()
	if sorted[0].Range.Start.Offset != 5 {
		t.Fatalf("expected lowest offset first, got %+v", sorted[0])
	}
	if sorted[1].Severity < sorted[2].Severity {
		t.Fatalf("expected higher severity first among same-offset diagnostics")
	}
}
