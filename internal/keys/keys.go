// Package keys defines the key ordering used by the store and the helpers
// callers use to build binary keys that sort the way they expect.
package keys

import (
	"encoding/binary"
	"strings"

	"github.com/MikhailWahib/dbmemory/internal/invariant"
)

// AscendingKeySize is the width of an encoded uint32 key.
const AscendingKeySize = 4

// Placeholder replaces non-printable bytes in CleanKey output.
const Placeholder = '?'

// Compare orders keys by unsigned byte value, then by length.
// Returns -1 if a < b, 0 if a == b and 1 if a > b.
func Compare(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		// byte is unsigned, so 0x80..0xff sort after 0x00..0x7f.
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b []byte) bool {
	return Compare(a, b) < 0
}

// HasPrefix reports whether key begins with prefix.
func HasPrefix(key, prefix []byte) bool {
	return len(key) >= len(prefix) && Compare(key[:len(prefix)], prefix) == 0
}

// PrefixEnd returns the smallest key greater than every key starting with
// prefix. It returns nil when no such key exists, which is the case for the
// empty prefix and for prefixes made only of 0xff bytes.
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// ToAscendingKey encodes v as 4 big-endian bytes so that byte order matches
// numeric order.
func ToAscendingKey(v uint32) []byte {
	buf := make([]byte, AscendingKeySize)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// FromAscendingKey decodes a key produced by ToAscendingKey.
func FromAscendingKey(key []byte) uint32 {
	invariant.Check(len(key) == AscendingKeySize, "len(key) == 4",
		"ascending key has wrong size %d: %s", len(key), CleanKey(key))
	return binary.BigEndian.Uint32(key)
}

// ToBinaryKey copies raw bytes into a new key.
func ToBinaryKey(data []byte) []byte {
	key := make([]byte, len(data))
	copy(key, data)
	return key
}

// FromBinaryKey copies bytes of key starting at pos into dst and returns how
// many were copied. A short key leaves the tail of dst untouched.
func FromBinaryKey(key []byte, pos int, dst []byte) int {
	invariant.Check(pos >= 0, "pos >= 0", "binary key position is negative: %d", pos)
	if pos >= len(key) {
		return 0
	}
	return copy(dst, key[pos:])
}

// CleanKey renders key for logs, replacing bytes outside printable ASCII with
// Placeholder. The result is not suitable for comparison.
func CleanKey(key []byte) string {
	var sb strings.Builder
	sb.Grow(len(key))
	for _, c := range key {
		if c < 0x20 || c > 0x7e {
			sb.WriteByte(Placeholder)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
