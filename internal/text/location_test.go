package text

import "testing"

func TestLocationValidity(t *testing.T) {
	t.Parallel()

	var zero Location
	if zero.IsValid() {
		t.Fatal("zero Location should be invalid (NoBuffer)")
	}

	loc := Location{Buffer: 1, Offset: 5}
	if !loc.IsValid() {
		t.Fatal("expected valid location")
	}
}

func TestRangeCoverSpansBothBuffersSameFile(t *testing.T) {
	t.Parallel()

	a := NewRange(3, Span{Start: 10, End: 20})
	b := NewRange(3, Span{Start: 15, End: 30})

	covered := a.Cover(b)
	if covered.Start.Offset != 10 || covered.End.Offset != 30 {
		t.Fatalf("Cover() = %+v, want [10,30)", covered)
	}
}

func TestRangeInvalidCrossBuffer(t *testing.T) {
	t.Parallel()

	r := Range{Start: Location{Buffer: 1, Offset: 0}, End: Location{Buffer: 2, Offset: 5}}
	if r.IsValid() {
		t.Fatal("cross-buffer range should be invalid")
	}
}
