// Package config provides configuration structures and defaults for dbmemory.
package config

import (
	"go.uber.org/zap"

	"github.com/MikhailWahib/dbmemory/internal/memtable"
	"github.com/MikhailWahib/dbmemory/internal/registry"
)

// Config holds the knobs accepted when opening a store.
type Config struct {
	// MaxTxSize is the transaction size hint a durable engine uses to size its
	// map. The in-memory engine accepts and ignores it.
	MaxTxSize uint64

	// Degree is the branching degree of the ordered map.
	Degree int

	// Logger receives diagnostics. A nil Logger discards them.
	Logger *zap.Logger

	// Registry holds named snapshots. Nil selects the process-wide registry.
	// Open, DeleteDB and BackupDB consult the same field.
	Registry *registry.Registry
}

// DefaultConfig returns a Config struct populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Degree:   memtable.DefaultDegree,
		Logger:   zap.NewNop(),
		Registry: registry.Default(),
	}
}

// FillDefaults sets any zero-value fields in the Config to their default values.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.Degree == 0 {
		c.Degree = def.Degree
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	if c.Registry == nil {
		c.Registry = def.Registry
	}
}
