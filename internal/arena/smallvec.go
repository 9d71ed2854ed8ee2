package arena

// SmallVec is a stack-first growable buffer: for small element counts it
// holds elements inline with zero heap traffic; once it overflows its
// inline capacity it spills to a regular heap slice. This is the "build
// many then freeze" container spec §4.A and §9 call for — lists whose final
// size is known only after they've been built (a node's children, a
// production's rule items, an argument list) are extremely common in a
// parser and churn the allocator badly if each one starts life as a heap
// slice.
//
// The zero value is usable and empty.
type SmallVec[T any] struct {
	inline   [inlineCapacity]T
	inlineN  int
	overflow []T
}

// inlineCapacity is the number of elements held without spilling to the
// heap. 4 covers the overwhelming majority of SystemVerilog grammar lists
// (a port list, a sensitivity list, a statement's attribute list) without
// wasting much space on the common empty/one-element case.
const inlineCapacity = 4

// Len returns the number of elements currently stored.
func (s *SmallVec[T]) Len() int {
	if s.overflow != nil {
		return len(s.overflow)
	}
	return s.inlineN
}

// Push appends v, spilling to the heap the first time inline capacity is
// exceeded.
func (s *SmallVec[T]) Push(v T) {
	if s.overflow != nil {
		s.overflow = append(s.overflow, v)
		return
	}
	if s.inlineN < inlineCapacity {
		s.inline[s.inlineN] = v
		s.inlineN++
		return
	}
	s.overflow = make([]T, s.inlineN, s.inlineN*2+1)
	copy(s.overflow, s.inline[:s.inlineN])
	s.overflow = append(s.overflow, v)
}

// At returns the element at index i. Panics out of range, matching slice
// semantics.
func (s *SmallVec[T]) At(i int) T {
	if s.overflow != nil {
		return s.overflow[i]
	}
	if i < 0 || i >= s.inlineN {
		panic("slang: internal error: SmallVec index out of range")
	}
	return s.inline[i]
}

// Slice returns a view of the current contents. For the inline case this
// allocates a small copy; callers that only need to iterate should prefer
// At/Len or CopyInto.
func (s *SmallVec[T]) Slice() []T {
	if s.overflow != nil {
		return s.overflow
	}
	out := make([]T, s.inlineN)
	copy(out, s.inline[:s.inlineN])
	return out
}

// CopyInto permanently materializes the buffer's contents as an
// exact-length slice allocated from arena a, and returns it. This is the
// "freeze" half of the stack-first pattern: the SmallVec itself can then be
// discarded (it is usually a local variable on the parser's stack) while
// the slice it produced lives as long as the arena.
func CopyInto[T any](s *SmallVec[T], a *Arena[[]T]) []T {
	n := s.Len()
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	if s.overflow != nil {
		copy(out, s.overflow)
	} else {
		copy(out, s.inline[:s.inlineN])
	}
	if a != nil {
		h := a.New(out)
		return *a.Get(h)
	}
	return out
}
