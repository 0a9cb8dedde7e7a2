package record

import "errors"

// EntryType represents the kind of mutation an entry records
type EntryType byte

const (
	// PutEntry indicates a key-value insertion or replacement
	PutEntry EntryType = iota
	// DeleteEntry indicates a key deletion
	DeleteEntry
)

// ErrUnknownEntryType is returned when a decoded entry carries a type byte
// other than PutEntry or DeleteEntry.
var ErrUnknownEntryType = errors.New("unknown entry type")

// Entry is a single framed mutation
type Entry struct {
	Type  EntryType
	Key   []byte
	Value []byte
}

// ErrEntryTooLarge is returned when an entry header claims a body larger than
// MaxBodySize.
var ErrEntryTooLarge = errors.New("entry too large")
