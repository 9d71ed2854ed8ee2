package arena

import "testing"

func TestArenaNewAndGet(t *testing.T) {
	a := NewArena[string](0)
	h1 := a.New("alpha")
	h2 := a.New("beta")

	if got := *a.Get(h1); got != "alpha" {
		t.Fatalf("Get(h1) = %q, want %q", got, "alpha")
	}
	if got := *a.Get(h2); got != "beta" {
		t.Fatalf("Get(h2) = %q, want %q", got, "beta")
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
}

func TestHandleNilIsNotDereferenceable(t *testing.T) {
	a := NewArena[int](0)
	var h Handle[int]
	if !h.IsNil() {
		t.Fatalf("zero Handle should be Nil")
	}
	if _, ok := a.TryGet(h); ok {
		t.Fatalf("TryGet(Nil) should fail")
	}
}

func TestSmallVecSpillsPastInlineCapacity(t *testing.T) {
	var v SmallVec[int]
	for i := 0; i < inlineCapacity+3; i++ {
		v.Push(i)
	}
	if v.Len() != inlineCapacity+3 {
		t.Fatalf("Len() = %d, want %d", v.Len(), inlineCapacity+3)
	}
	for i := 0; i < v.Len(); i++ {
		if got := v.At(i); got != i {
			t.Fatalf("At(%d) = %d, want %d", i, got, i)
		}
	}
}

func TestSmallVecCopyIntoFreezesContents(t *testing.T) {
	var v SmallVec[int]
	v.Push(1)
	v.Push(2)
	a := NewArena[[]int](0)
	frozen := CopyInto(&v, a)
	if len(frozen) != 2 || frozen[0] != 1 || frozen[1] != 2 {
		t.Fatalf("CopyInto = %v, want [1 2]", frozen)
	}
	v.Push(3)
	if len(frozen) != 2 {
		t.Fatalf("frozen slice should be unaffected by further Push calls")
	}
}

func TestFlatMapOverflowsInlineCapacity(t *testing.T) {
	var m FlatMap[int]
	for i := 0; i < 40; i++ {
		m.Set(string(rune('a'+i%26))+string(rune('A'+i)), i)
	}
	if m.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", m.Len())
	}
	for i := 0; i < 40; i++ {
		key := string(rune('a'+i%26)) + string(rune('A'+i))
		got, ok := m.Get(key)
		if !ok || got != i {
			t.Fatalf("Get(%q) = (%d, %v), want (%d, true)", key, got, ok, i)
		}
	}
}

func TestSmallSetGuardsAgainstDuplicates(t *testing.T) {
	var s SmallSet[string]
	if !s.Add("A") {
		t.Fatalf("first Add should report true")
	}
	if s.Add("A") {
		t.Fatalf("duplicate Add should report false")
	}
	for i := 0; i < inlineCapacity+2; i++ {
		s.Add(string(rune('b' + i)))
	}
	if !s.Has("A") {
		t.Fatalf("A should remain a member after overflow")
	}
}
