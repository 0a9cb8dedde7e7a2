// Package memtable implements the ordered in-memory table that holds every
// key of a store.
package memtable

import (
	"github.com/google/btree"

	"github.com/MikhailWahib/dbmemory/internal/keys"
)

// DefaultDegree is the btree degree used when none is configured.
const DefaultDegree = 32

// Entry is a key-value pair stored in the memtable.
type Entry struct {
	Key   []byte
	Value []byte
}

func less(a, b Entry) bool {
	return keys.Less(a.Key, b.Key)
}

// Memtable is a sorted map from key to value ordered by keys.Compare. It also
// tracks the byte statistics reported by the store.
//
// Memtable is not safe for concurrent use.
type Memtable struct {
	tree       *btree.BTreeG[Entry]
	totalSize  int
	maxKeySize int
}

// NewMemtable creates an empty Memtable. A degree below 2 selects
// DefaultDegree.
func NewMemtable(degree int) *Memtable {
	if degree < 2 {
		degree = DefaultDegree
	}
	return &Memtable{
		tree: btree.NewG(degree, less),
	}
}

// Set inserts or replaces the value for key. It returns the previous value
// and whether one existed. The memtable keeps key and value as given; callers
// must not modify them afterwards.
func (m *Memtable) Set(key, value []byte) ([]byte, bool) {
	old, replaced := m.tree.ReplaceOrInsert(Entry{Key: key, Value: value})
	if replaced {
		m.totalSize -= len(old.Value)
		m.totalSize += len(value)
	} else {
		m.totalSize += len(key) + len(value)
	}
	if len(key) > m.maxKeySize {
		m.maxKeySize = len(key)
	}
	return old.Value, replaced
}

// Get retrieves the value stored for key.
func (m *Memtable) Get(key []byte) ([]byte, bool) {
	e, ok := m.tree.Get(Entry{Key: key})
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Has reports whether key is present.
func (m *Memtable) Has(key []byte) bool {
	return m.tree.Has(Entry{Key: key})
}

// Delete removes key and returns the value it held.
func (m *Memtable) Delete(key []byte) ([]byte, bool) {
	old, ok := m.tree.Delete(Entry{Key: key})
	if !ok {
		return nil, false
	}
	m.totalSize -= len(old.Key) + len(old.Value)
	return old.Value, true
}

// Ceil returns the first entry with a key >= key.
func (m *Memtable) Ceil(key []byte) (Entry, bool) {
	var found Entry
	var ok bool
	m.tree.AscendGreaterOrEqual(Entry{Key: key}, func(e Entry) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

// Higher returns the first entry with a key > key.
func (m *Memtable) Higher(key []byte) (Entry, bool) {
	var found Entry
	var ok bool
	m.tree.AscendGreaterOrEqual(Entry{Key: key}, func(e Entry) bool {
		if keys.Compare(e.Key, key) == 0 {
			return true
		}
		found, ok = e, true
		return false
	})
	return found, ok
}

// Floor returns the last entry with a key <= key.
func (m *Memtable) Floor(key []byte) (Entry, bool) {
	var found Entry
	var ok bool
	m.tree.DescendLessOrEqual(Entry{Key: key}, func(e Entry) bool {
		found, ok = e, true
		return false
	})
	return found, ok
}

// Lower returns the last entry with a key < key.
func (m *Memtable) Lower(key []byte) (Entry, bool) {
	var found Entry
	var ok bool
	m.tree.DescendLessOrEqual(Entry{Key: key}, func(e Entry) bool {
		if keys.Compare(e.Key, key) == 0 {
			return true
		}
		found, ok = e, true
		return false
	})
	return found, ok
}

// Last returns the entry with the greatest key.
func (m *Memtable) Last() (Entry, bool) {
	return m.tree.Max()
}

// Len returns the number of keys.
func (m *Memtable) Len() int {
	return m.tree.Len()
}

// Size returns the sum of key and value lengths of all entries.
func (m *Memtable) Size() int {
	return m.totalSize
}

// MaxKeySize returns the longest key length ever stored.
func (m *Memtable) MaxKeySize() int {
	return m.maxKeySize
}

// Clone returns an independent copy. The underlying tree is shared
// copy-on-write, so cloning is cheap.
func (m *Memtable) Clone() *Memtable {
	return &Memtable{
		tree:       m.tree.Clone(),
		totalSize:  m.totalSize,
		maxKeySize: m.maxKeySize,
	}
}
