// Package engine implements the in-memory ordered store: point access,
// prefix cursors and the mutation journal.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikhailWahib/dbmemory/internal/config"
	"github.com/MikhailWahib/dbmemory/internal/invariant"
	"github.com/MikhailWahib/dbmemory/internal/journal"
	"github.com/MikhailWahib/dbmemory/internal/keys"
	"github.com/MikhailWahib/dbmemory/internal/memtable"
	"github.com/MikhailWahib/dbmemory/internal/registry"
)

// Engine owns the sorted map, its statistics and the journal of a single
// store handle.
//
// Engine is not safe for concurrent use. Callers serialise all operations,
// including MoveJournal.
type Engine struct {
	id       uuid.UUID
	path     string
	mode     OpenMode
	config   *config.Config
	log      *zap.Logger
	memtable *memtable.Memtable
	journal  *journal.Journal

	// generation changes on every mutation; cursors compare against it.
	generation uint64
	commits    uint64
	closed     bool
}

// NewEngine opens the store registered under path according to mode.
func NewEngine(mode OpenMode, path string, cfg *config.Config) (*Engine, error) {
	c := config.DefaultConfig()
	if cfg != nil {
		cp := *cfg
		cp.FillDefaults()
		c = &cp
	}
	reg := c.Registry

	var mt *memtable.Memtable
	switch mode {
	case OpenCreate:
		var ok bool
		if mt, ok = reg.Load(path); !ok {
			mt = memtable.NewMemtable(c.Degree)
			reg.Reserve(path, c.Degree)
		}
	case OpenExisting, OpenReadOnly:
		var ok bool
		if mt, ok = reg.Load(path); !ok {
			return nil, fmt.Errorf("open %q (%s): %w", path, mode, ErrInvalidMode)
		}
	case OpenTruncate:
		mt = memtable.NewMemtable(c.Degree)
		reg.Publish(path, mt)
	default:
		return nil, fmt.Errorf("open %q (%s): %w", path, mode, ErrInvalidMode)
	}

	id := uuid.New()
	e := &Engine{
		id:       id,
		path:     path,
		mode:     mode,
		config:   c,
		log:      c.Logger.With(zap.String("db_id", id.String()), zap.String("path", path)),
		memtable: mt,
		journal:  journal.New(),
	}

	if c.MaxTxSize != 0 {
		e.log.Debug("max transaction size ignored by in-memory store", zap.Uint64("max_tx_size", c.MaxTxSize))
	}
	e.log.Debug("opened store",
		zap.Stringer("mode", mode),
		zap.Int("items", mt.Len()),
		zap.Int("size", mt.Size()),
	)

	return e, nil
}

// ID identifies this handle in logs.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Path returns the label the store was opened with.
func (e *Engine) Path() string {
	return e.path
}

// Mode returns the mode the store was opened with.
func (e *Engine) Mode() OpenMode {
	return e.mode
}

// Put stores value under key. With noOverwrite set, an existing key is left
// untouched and ErrAlreadyExists is returned.
func (e *Engine) Put(key, value []byte, noOverwrite bool) error {
	e.checkOpen()
	if e.mode == OpenReadOnly {
		return fmt.Errorf("put %s: %w", keys.CleanKey(key), ErrReadOnly)
	}
	if noOverwrite && e.memtable.Has(key) {
		return fmt.Errorf("put %s: %w", keys.CleanKey(key), ErrAlreadyExists)
	}

	k, v := clone(key), clone(value)
	e.memtable.Set(k, v)
	e.journal.AppendPut(clone(k), clone(v))
	e.generation++

	return nil
}

// Get returns a copy of the value stored under key. The boolean is false when
// the key is absent.
func (e *Engine) Get(key []byte) ([]byte, bool) {
	e.checkOpen()
	v, ok := e.memtable.Get(key)
	if !ok {
		return nil, false
	}
	return clone(v), true
}

// Del removes key. An absent key is an error only when mustExist is set.
func (e *Engine) Del(key []byte, mustExist bool) error {
	e.checkOpen()
	if e.mode == OpenReadOnly {
		return fmt.Errorf("del %s: %w", keys.CleanKey(key), ErrReadOnly)
	}

	items := e.memtable.Len()
	old, ok := e.memtable.Delete(key)
	if !ok {
		if mustExist {
			return fmt.Errorf("del %s: %w", keys.CleanKey(key), ErrMissingKey)
		}
		return nil
	}
	e.assert(e.memtable.Len() == items-1, "items_count == previous - 1",
		"deleting %s left %d items, had %d", keys.CleanKey(key), e.memtable.Len(), items)

	e.journal.AppendDelete(clone(key), clone(old))
	e.generation++

	return nil
}

// MoveJournal returns the entries recorded since the last call and clears
// them.
func (e *Engine) MoveJournal() []journal.Entry {
	e.checkOpen()
	entries := e.journal.Drain()
	e.log.Debug("journal drained", zap.Int("entries", len(entries)))
	return entries
}

// CommitDBTxn marks the mutations so far as one committed batch. It has no
// durability effect.
func (e *Engine) CommitDBTxn() {
	e.checkOpen()
	e.commits++
	e.log.Debug("commit",
		zap.Uint64("commits", e.commits),
		zap.Int("pending_journal", e.journal.Len()),
	)
}

// Commits returns how many times CommitDBTxn was called.
func (e *Engine) Commits() uint64 {
	return e.commits
}

// ApproximateSize returns the sum of key and value bytes currently stored.
func (e *Engine) ApproximateSize() int {
	return e.memtable.Size()
}

// ApproximateItemsCount returns the number of keys currently stored.
func (e *Engine) ApproximateItemsCount() int {
	return e.memtable.Len()
}

// MaxKeySize returns the longest key length ever stored.
func (e *Engine) MaxKeySize() int {
	return e.memtable.MaxKeySize()
}

// Apply replays journal entries onto the store. Deletes of absent keys are
// skipped. Applied mutations are journaled again.
func (e *Engine) Apply(entries []journal.Entry) error {
	for i, je := range entries {
		var err error
		if je.IsDeleted {
			err = e.Del(je.Key, false)
		} else {
			err = e.Put(je.Key, je.Value, false)
		}
		if err != nil {
			return fmt.Errorf("apply entry %d: %w", i, err)
		}
	}
	return nil
}

// Begin returns a cursor over keys starting with prefix in ascending order.
// A non-empty middle starts the scan at the first key >= prefix+middle.
func (e *Engine) Begin(prefix, middle []byte) *Cursor {
	e.checkOpen()
	return newCursor(e, prefix, middle, true)
}

// RBegin returns a cursor over keys starting with prefix in descending order.
// A non-empty middle starts the scan at the last key <= prefix+middle.
func (e *Engine) RBegin(prefix, middle []byte) *Cursor {
	e.checkOpen()
	return newCursor(e, prefix, middle, false)
}

// Close publishes the store contents to the registry under its path and
// releases the handle. Read-only handles publish nothing.
func (e *Engine) Close() error {
	if e.closed {
		return ErrClosed
	}
	if e.mode != OpenReadOnly {
		e.config.Registry.Publish(e.path, e.memtable)
	}
	e.closed = true
	e.log.Debug("closed store",
		zap.Int("items", e.memtable.Len()),
		zap.Int("undrained_journal", e.journal.Len()),
	)
	return nil
}

// DeleteDB drops the store registered under path.
func DeleteDB(reg *registry.Registry, path string) error {
	reg.Delete(path)
	return nil
}

// BackupDB copies the store registered under path to dstPath.
func BackupDB(reg *registry.Registry, path, dstPath string) error {
	if err := reg.Backup(path, dstPath); err != nil {
		if errors.Is(err, registry.ErrNotRegistered) {
			return fmt.Errorf("backup %q: %w", path, ErrInvalidMode)
		}
		return err
	}
	return nil
}

func (e *Engine) checkOpen() {
	e.assert(!e.closed, "!closed", "store %q used after Close", e.path)
}

// assert logs and raises an invariant violation when cond is false.
func (e *Engine) assert(cond bool, expr string, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	e.log.Error("invariant violated",
		zap.String("expr", expr),
		zap.String("message", msg),
		zap.Stack("stack"),
	)
	invariant.Violated(expr, "%s", msg)
}

// clone returns a non-nil copy of b.
func clone(b []byte) []byte {
	return append([]byte{}, b...)
}
