package dbmemory

import "github.com/MikhailWahib/dbmemory/internal/engine"

// Cursor iterates the keys sharing a prefix, in ascending order for Begin and
// descending order for RBegin.
//
// A cursor must not outlive its DB. Mutating the DB other than through the
// cursor's Erase invalidates the cursor; using it afterwards panics with an
// *InvariantViolation.
type Cursor struct {
	c *engine.Cursor
}

// Begin returns a cursor over the keys starting with prefix, in ascending
// order. A non-empty middle starts at the first key >= prefix+middle.
func (db *DB) Begin(prefix, middle []byte) *Cursor {
	return &Cursor{c: db.engine.Begin(prefix, middle)}
}

// RBegin returns a cursor over the keys starting with prefix, in descending
// order. A non-empty middle starts at the last key <= prefix+middle.
func (db *DB) RBegin(prefix, middle []byte) *Cursor {
	return &Cursor{c: db.engine.RBegin(prefix, middle)}
}

// BeginString is Begin for textual prefixes.
func (db *DB) BeginString(prefix, middle string) *Cursor {
	return db.Begin([]byte(prefix), []byte(middle))
}

// RBeginString is RBegin for textual prefixes.
func (db *DB) RBeginString(prefix, middle string) *Cursor {
	return db.RBegin([]byte(prefix), []byte(middle))
}

// End reports whether iteration has finished.
func (c *Cursor) End() bool { return c.c.End() }

// Next advances the cursor.
func (c *Cursor) Next() { c.c.Next() }

// Erase deletes the current key and advances the cursor.
func (c *Cursor) Erase() error { return c.c.Erase() }

// Key returns the full current key.
func (c *Cursor) Key() []byte { return c.c.Key() }

// Suffix returns the current key with the prefix removed.
func (c *Cursor) Suffix() []byte { return c.c.Suffix() }

// SuffixString returns Suffix as a string.
func (c *Cursor) SuffixString() string { return string(c.c.Suffix()) }

// Value returns the current value.
func (c *Cursor) Value() []byte { return c.c.Value() }

// ValueString returns Value as a string.
func (c *Cursor) ValueString() string { return string(c.c.Value()) }
