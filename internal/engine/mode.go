package engine

import "fmt"

// OpenMode selects how Open treats an existing or missing store.
type OpenMode int

const (
	// OpenCreate opens the registered store or creates an empty one.
	OpenCreate OpenMode = iota
	// OpenExisting opens a registered store and fails if there is none.
	OpenExisting
	// OpenReadOnly opens a registered store for reads only.
	OpenReadOnly
	// OpenTruncate creates an empty store, discarding any registered one.
	OpenTruncate
)

func (m OpenMode) String() string {
	switch m {
	case OpenCreate:
		return "create"
	case OpenExisting:
		return "existing"
	case OpenReadOnly:
		return "read-only"
	case OpenTruncate:
		return "truncate"
	}
	return fmt.Sprintf("OpenMode(%d)", int(m))
}
