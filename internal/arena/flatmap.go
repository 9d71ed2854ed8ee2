package arena

import (
	"github.com/minio/highwayhash"
)

// flatMapSeed is a fixed 32-byte HighwayHash key. It does not need to be
// secret or random across runs (flat maps here are never exposed to
// untrusted hash-flooding input across process boundaries); a fixed key
// just needs to spread keys well, which HighwayHash does regardless of seed.
var flatMapSeed = [highwayhash.Size]byte{
	0x73, 0x6c, 0x61, 0x6e, 0x67, 0x2d, 0x61, 0x72,
	0x65, 0x6e, 0x61, 0x2d, 0x66, 0x6c, 0x61, 0x74,
	0x6d, 0x61, 0x70, 0x2d, 0x73, 0x65, 0x65, 0x64,
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
}

type flatEntry[V any] struct {
	key   string
	value V
	used  bool
}

// FlatMap is the open-addressed, string-keyed hash table spec §4.A asks for
// when a small inline-capacity map is persisted across arena lifetimes
// (macro tables, scope member-name lookups, the type interner): rather than
// pay Go's generic map overhead per lookup, it linear-probes a flat slice of
// entries hashed with HighwayHash. It still starts with a small inline
// array for the common case of a handful of entries (a module's parameter
// list, a package's typedefs) and only allocates the probe table once that
// is exceeded.
type FlatMap[V any] struct {
	inline   [inlineCapacity]flatEntry[V]
	inlineN  int
	table    []flatEntry[V]
	size     int
}

func hashKey(key string) uint64 {
	return highwayhash.Sum64([]byte(key), flatMapSeed[:])
}

// Get returns the value for key and whether it was present.
func (m *FlatMap[V]) Get(key string) (V, bool) {
	var zero V
	if m.table == nil {
		for i := 0; i < m.inlineN; i++ {
			if m.inline[i].key == key {
				return m.inline[i].value, true
			}
		}
		return zero, false
	}
	mask := uint64(len(m.table) - 1)
	i := hashKey(key) & mask
	for {
		e := &m.table[i]
		if !e.used {
			return zero, false
		}
		if e.key == key {
			return e.value, true
		}
		i = (i + 1) & mask
	}
}

// Set inserts or overwrites the value for key.
func (m *FlatMap[V]) Set(key string, value V) {
	if m.table == nil {
		for i := 0; i < m.inlineN; i++ {
			if m.inline[i].key == key {
				m.inline[i].value = value
				return
			}
		}
		if m.inlineN < inlineCapacity {
			m.inline[m.inlineN] = flatEntry[V]{key: key, value: value, used: true}
			m.inlineN++
			m.size++
			return
		}
		m.spill()
	}
	_, exists := m.Get(key)
	m.insertIntoTable(key, value)
	if !exists {
		m.size++
	}
}

func (m *FlatMap[V]) spill() {
	m.table = make([]flatEntry[V], 16)
	for i := 0; i < m.inlineN; i++ {
		m.insertIntoTable(m.inline[i].key, m.inline[i].value)
	}
	m.inlineN = 0
}

func (m *FlatMap[V]) insertIntoTable(key string, value V) {
	if m.size*2 >= len(m.table) {
		m.grow()
	}
	mask := uint64(len(m.table) - 1)
	i := hashKey(key) & mask
	for {
		e := &m.table[i]
		if !e.used {
			*e = flatEntry[V]{key: key, value: value, used: true}
			return
		}
		if e.key == key {
			e.value = value
			return
		}
		i = (i + 1) & mask
	}
}

func (m *FlatMap[V]) grow() {
	old := m.table
	m.table = make([]flatEntry[V], len(old)*2)
	mask := uint64(len(m.table) - 1)
	for _, e := range old {
		if !e.used {
			continue
		}
		i := hashKey(e.key) & mask
		for m.table[i].used {
			i = (i + 1) & mask
		}
		m.table[i] = e
	}
}

// Len returns the number of stored key/value pairs.
func (m *FlatMap[V]) Len() int { return m.size }

// Keys returns the stored keys in unspecified order.
func (m *FlatMap[V]) Keys() []string {
	out := make([]string, 0, m.size)
	if m.table == nil {
		for i := 0; i < m.inlineN; i++ {
			out = append(out, m.inline[i].key)
		}
		return out
	}
	for _, e := range m.table {
		if e.used {
			out = append(out, e.key)
		}
	}
	return out
}
