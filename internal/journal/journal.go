// Package journal records the mutations applied to a store since the last
// drain, and frames them for shipping to another store.
package journal

// Entry is one recorded put or delete. Deletes carry the value the key held
// before removal.
type Entry struct {
	Key       []byte
	Value     []byte
	IsDeleted bool
}

// Journal is an append-only list of entries, drained on read.
//
// Journal is not safe for concurrent use.
type Journal struct {
	entries []Entry
}

// New creates an empty Journal.
func New() *Journal {
	return &Journal{}
}

// AppendPut records a put of value under key.
func (j *Journal) AppendPut(key, value []byte) {
	j.entries = append(j.entries, Entry{Key: key, Value: value})
}

// AppendDelete records the removal of key, which held value.
func (j *Journal) AppendDelete(key, value []byte) {
	j.entries = append(j.entries, Entry{Key: key, Value: value, IsDeleted: true})
}

// Drain returns every entry recorded since the previous drain, in append
// order, and leaves the journal empty. The result is never nil.
func (j *Journal) Drain() []Entry {
	out := j.entries
	j.entries = nil
	if out == nil {
		out = []Entry{}
	}
	return out
}

// Len returns the number of entries waiting to be drained.
func (j *Journal) Len() int {
	return len(j.entries)
}
