// Package arena provides bump-allocated storage for the trivially destroyed
// nodes and symbols the front end produces by the million: syntax nodes,
// tokens, trivia, and symbol records all live in one of these for the
// lifetime of a single compilation.
package arena

// Handle is a stable, non-owning reference into an Arena[T]. The zero value
// is Nil and never refers to a stored value: index 0 is reserved so a
// zero-valued Handle can be distinguished from a real allocation, matching
// the spec's "null only at the root" parent-link convention.
type Handle[T any] struct {
	index uint32
}

// Nil is the zero Handle; IsNil reports whether h was ever assigned.
func (h Handle[T]) IsNil() bool { return h.index == 0 }

// Arena is a typed bump allocator: New appends a value and returns a stable
// Handle; the whole arena is freed at once when the owning compilation is
// dropped (by dropping the Arena itself — Go's GC reclaims it, there is no
// explicit Free). Arena is not safe for concurrent mutation, matching the
// single-threaded-per-compilation model in spec §5.
type Arena[T any] struct {
	values []T
}

// NewArena returns an empty arena with capacity pre-sized for n elements.
func NewArena[T any](capacity int) *Arena[T] {
	a := &Arena[T]{}
	if capacity > 0 {
		a.values = make([]T, 1, capacity+1)
	} else {
		a.values = make([]T, 1)
	}
	return a
}

// New allocates v in the arena and returns its Handle.
func (a *Arena[T]) New(v T) Handle[T] {
	a.values = append(a.values, v)
	return Handle[T]{index: uint32(len(a.values) - 1)}
}

// Get dereferences h. A Nil handle or one whose index is past the arena's
// end is a programmer error (the kind spec §7 calls "should-never-happen");
// it panics rather than silently returning a zero value, since returning a
// zero value would hide a dangling-handle bug as if it were valid data. A
// handle from a different arena whose index is in range is not detected.
func (a *Arena[T]) Get(h Handle[T]) *T {
	if h.IsNil() || int(h.index) >= len(a.values) {
		panic("slang: internal error: dereference of invalid arena handle")
	}
	return &a.values[h.index]
}

// TryGet is the non-panicking form of Get, for call sites that legitimately
// expect a handle might be Nil (e.g. an optional parent link at the root).
func (a *Arena[T]) TryGet(h Handle[T]) (*T, bool) {
	if h.IsNil() || int(h.index) >= len(a.values) {
		return nil, false
	}
	return &a.values[h.index], true
}

// Len returns the number of values allocated (excluding the reserved slot 0).
func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.values) - 1
}

// All iterates every live handle in allocation order.
func (a *Arena[T]) All(yield func(Handle[T], *T) bool) {
	for i := 1; i < len(a.values); i++ {
		if !yield(Handle[T]{index: uint32(i)}, &a.values[i]) {
			return
		}
	}
}

// DestructorArena runs a cleanup function over every element when the arena
// itself is torn down, for the rare case (spec §4.A) where bump-allocated
// values own a non-trivial resource (e.g. a cached compiled regexp, an open
// file) that plain garbage collection would not release promptly.
type DestructorArena[T any] struct {
	inner   Arena[T]
	destroy func(*T)
}

// NewDestructorArena returns an arena that invokes destroy on every stored
// value when Close is called.
func NewDestructorArena[T any](destroy func(*T)) *DestructorArena[T] {
	return &DestructorArena[T]{inner: *NewArena[T](0), destroy: destroy}
}

// New allocates v and returns its Handle.
func (a *DestructorArena[T]) New(v T) Handle[T] {
	return a.inner.New(v)
}

// Get dereferences h.
func (a *DestructorArena[T]) Get(h Handle[T]) *T {
	return a.inner.Get(h)
}

// Close runs the destructor over every allocated value exactly once.
func (a *DestructorArena[T]) Close() {
	if a.destroy == nil {
		return
	}
	a.inner.All(func(_ Handle[T], v *T) bool {
		a.destroy(v)
		return true
	})
}
