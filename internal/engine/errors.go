package engine

import "errors"

var (
	// ErrInvalidMode is returned when the open mode requires a registered store and none exists.
	ErrInvalidMode = errors.New("open mode does not match store state")

	// ErrAlreadyExists is returned by a no-overwrite put on an existing key.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrMissingKey is returned by a must-exist delete on an absent key.
	ErrMissingKey = errors.New("key does not exist")

	// ErrReadOnly is returned by mutations on a store opened read-only.
	ErrReadOnly = errors.New("store is read-only")

	// ErrClosed is returned when closing a store twice.
	ErrClosed = errors.New("store is closed")
)
