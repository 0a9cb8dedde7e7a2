package engine

import (
	"errors"

	"github.com/MikhailWahib/dbmemory/internal/keys"
	"github.com/MikhailWahib/dbmemory/internal/memtable"
)

// Cursor walks the keys sharing a prefix in one direction.
//
// A cursor is bound to the store that created it. Mutating the store other
// than through the cursor's own Erase invalidates it, and any later use
// other than End raises an invariant violation.
type Cursor struct {
	db         *Engine
	prefix     []byte
	forward    bool
	generation uint64

	key   []byte
	value []byte
	end   bool
}

func newCursor(db *Engine, prefix, middle []byte, forward bool) *Cursor {
	c := &Cursor{
		db:         db,
		prefix:     clone(prefix),
		forward:    forward,
		generation: db.generation,
	}

	start := append(clone(prefix), middle...)
	var e memtable.Entry
	var ok bool
	switch {
	case forward:
		e, ok = db.memtable.Ceil(start)
	case len(middle) > 0:
		e, ok = db.memtable.Floor(start)
	default:
		if end := keys.PrefixEnd(prefix); end != nil {
			e, ok = db.memtable.Lower(end)
		} else {
			e, ok = db.memtable.Last()
		}
	}
	c.moveTo(e, ok)

	return c
}

// moveTo positions the cursor on e, or ends it when e is missing or outside
// the prefix.
func (c *Cursor) moveTo(e memtable.Entry, ok bool) {
	if !ok || !keys.HasPrefix(e.Key, c.prefix) {
		c.end = true
		c.key, c.value = nil, nil
		return
	}
	c.key, c.value = e.Key, e.Value
}

func (c *Cursor) advance(from []byte) {
	if c.forward {
		c.moveTo(c.db.memtable.Higher(from))
	} else {
		c.moveTo(c.db.memtable.Lower(from))
	}
}

func (c *Cursor) checkValid() {
	c.db.checkOpen()
	c.db.assert(c.generation == c.db.generation, "cursor.generation == store.generation",
		"cursor over prefix %s used after the store was modified", keys.CleanKey(c.prefix))
}

func (c *Cursor) checkPositioned(op string) {
	c.checkValid()
	c.db.assert(!c.end, "!cursor.End()", "%s on a finished cursor over prefix %s", op, keys.CleanKey(c.prefix))
	c.db.assert(keys.HasPrefix(c.key, c.prefix), "HasPrefix(key, prefix)",
		"cursor key %s outside prefix %s", keys.CleanKey(c.key), keys.CleanKey(c.prefix))
}

// End reports whether the cursor has moved past the last key in range.
func (c *Cursor) End() bool {
	return c.end
}

// Prefix returns the prefix the cursor is restricted to.
func (c *Cursor) Prefix() []byte {
	return clone(c.prefix)
}

// Key returns the full current key.
func (c *Cursor) Key() []byte {
	c.checkPositioned("key")
	return clone(c.key)
}

// Suffix returns the current key without the prefix.
func (c *Cursor) Suffix() []byte {
	c.checkPositioned("suffix")
	return clone(c.key[len(c.prefix):])
}

// Value returns a copy of the current value.
func (c *Cursor) Value() []byte {
	c.checkPositioned("value")
	return clone(c.value)
}

// Next moves to the following key in the cursor's direction.
func (c *Cursor) Next() {
	c.checkPositioned("next")
	c.advance(c.key)
}

// Erase deletes the current key from the store, journaling it like Del, and
// moves to the following key.
func (c *Cursor) Erase() error {
	c.checkPositioned("erase")

	key := c.key
	if err := c.db.Del(key, true); err != nil {
		c.db.assert(!errors.Is(err, ErrMissingKey), "key exists",
			"cursor key %s vanished from the store", keys.CleanKey(key))
		return err
	}
	c.generation = c.db.generation
	c.advance(key)

	return nil
}
