// Package dbmemory is an embeddable, ordered, in-memory key-value store.
//
// It follows the contract of the durable engine used by the node's
// persistence layer: prefix cursors in both directions, put and delete with
// no-overwrite and must-exist flags, and a journal of mutations drained on
// read. Keys order by unsigned byte value, so binary keys and keys built with
// ToAscendingKey sort the same on every platform. Nothing is written to disk;
// a process-local registry stands in for the directory a durable engine uses.
//
// Example usage:
//
//	db, err := dbmemory.Open(dbmemory.OpenCreate, "blocks", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	key := append([]byte("h"), dbmemory.ToAscendingKey(height)...)
//	if err := db.Put(key, blockHash, true); err != nil {
//		log.Printf("Put failed: %v", err)
//	}
//
//	for c := db.BeginString("h", ""); !c.End(); c.Next() {
//		fmt.Println(dbmemory.FromAscendingKey(c.Suffix()), c.Value())
//	}
//
//	for _, e := range db.MoveJournal() {
//		replicate(e)
//	}
package dbmemory

import (
	"github.com/MikhailWahib/dbmemory/internal/config"
	"github.com/MikhailWahib/dbmemory/internal/engine"
	"github.com/MikhailWahib/dbmemory/internal/invariant"
	"github.com/MikhailWahib/dbmemory/internal/journal"
	"github.com/MikhailWahib/dbmemory/internal/registry"
	"github.com/google/uuid"
)

// Config is an alias for config.Config, re-exported for user convenience.
type Config = config.Config

// DefaultConfig returns a Config struct populated with default values. Re-exported for user convenience.
var DefaultConfig = config.DefaultConfig

// Registry holds named store snapshots. Set Config.Registry to isolate a
// group of stores from the process registry.
type Registry = registry.Registry

// NewRegistry returns an empty registry.
var NewRegistry = registry.New

// OpenMode selects how Open treats an existing or missing store.
type OpenMode = engine.OpenMode

const (
	OpenCreate   = engine.OpenCreate
	OpenExisting = engine.OpenExisting
	OpenReadOnly = engine.OpenReadOnly
	OpenTruncate = engine.OpenTruncate
)

// JournalEntry is one recorded put or delete.
type JournalEntry = journal.Entry

// InvariantViolation is the panic value raised when the engine detects an
// internal inconsistency, such as a cursor used after the store changed
// under it. It is not meant to be recovered from.
type InvariantViolation = invariant.Violation

var (
	ErrInvalidMode   = engine.ErrInvalidMode
	ErrAlreadyExists = engine.ErrAlreadyExists
	ErrMissingKey    = engine.ErrMissingKey
	ErrReadOnly      = engine.ErrReadOnly
	ErrClosed        = engine.ErrClosed
)

// DB is a handle to an in-memory store. It is not safe for concurrent use;
// callers serialise access, including journal drains.
type DB struct {
	engine *engine.Engine
}

// Open opens the store registered under path.
//
// OpenCreate opens the last snapshot closed under path or starts an empty
// store. OpenExisting and OpenReadOnly fail with ErrInvalidMode when nothing
// is registered. OpenTruncate always starts empty. A nil cfg uses
// DefaultConfig.
func Open(mode OpenMode, path string, cfg *Config) (*DB, error) {
	e, err := engine.NewEngine(mode, path, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{engine: e}, nil
}

// Path returns the label the store was opened with.
func (db *DB) Path() string {
	return db.engine.Path()
}

// ID identifies this handle in log output.
func (db *DB) ID() uuid.UUID {
	return db.engine.ID()
}

// Put stores value under key, replacing any existing value.
// With noOverwrite set it returns ErrAlreadyExists instead of replacing.
func (db *DB) Put(key, value []byte, noOverwrite bool) error {
	return db.engine.Put(key, value, noOverwrite)
}

// PutString is Put for textual keys and values.
func (db *DB) PutString(key, value string, noOverwrite bool) error {
	return db.engine.Put([]byte(key), []byte(value), noOverwrite)
}

// Get retrieves the value for a given key.
// Returns the value and true if found, or nil and false if the key doesn't exist.
func (db *DB) Get(key []byte) ([]byte, bool) {
	return db.engine.Get(key)
}

// GetString is Get for textual keys and values.
func (db *DB) GetString(key string) (string, bool) {
	v, ok := db.engine.Get([]byte(key))
	return string(v), ok
}

// Del removes key. Deleting an absent key returns ErrMissingKey when
// mustExist is set and does nothing otherwise.
func (db *DB) Del(key []byte, mustExist bool) error {
	return db.engine.Del(key, mustExist)
}

// MoveJournal returns every mutation recorded since the previous call, in
// operation order, and clears the journal.
func (db *DB) MoveJournal() []JournalEntry {
	return db.engine.MoveJournal()
}

// CommitDBTxn marks the mutations so far as a committed batch. The in-memory
// store has nothing to flush; the call exists so callers need not special-case
// it.
func (db *DB) CommitDBTxn() {
	db.engine.CommitDBTxn()
}

// ApproximateSize returns the total key and value bytes held.
func (db *DB) ApproximateSize() int {
	return db.engine.ApproximateSize()
}

// ApproximateItemsCount returns the number of keys held.
func (db *DB) ApproximateItemsCount() int {
	return db.engine.ApproximateItemsCount()
}

// MaxKeySize returns the longest key length ever stored.
func (db *DB) MaxKeySize() int {
	return db.engine.MaxKeySize()
}

// Apply replays journal entries, typically drained from another store.
func (db *DB) Apply(entries []JournalEntry) error {
	return db.engine.Apply(entries)
}

// Close publishes the store contents under its path so a later Open can
// find them, and releases the handle. After calling Close, the handle should
// not be used for any operations.
func (db *DB) Close() error {
	return db.engine.Close()
}

// DeleteDB drops the store registered under path. cfg selects the registry
// the same way it does for Open; nil uses the process registry.
func DeleteDB(path string, cfg *Config) error {
	return engine.DeleteDB(registryOf(cfg), path)
}

// BackupDB copies the store registered under path to dstPath in the registry
// selected by cfg. Only the contents published by Close are copied.
func BackupDB(path, dstPath string, cfg *Config) error {
	return engine.BackupDB(registryOf(cfg), path, dstPath)
}

func registryOf(cfg *Config) *registry.Registry {
	if cfg == nil || cfg.Registry == nil {
		return registry.Default()
	}
	return cfg.Registry
}
