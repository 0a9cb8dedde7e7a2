package dbmemory

import "github.com/MikhailWahib/dbmemory/internal/keys"

// CompareKeys orders keys by unsigned byte value, the order every cursor
// uses.
func CompareKeys(a, b []byte) int {
	return keys.Compare(a, b)
}

// ToAscendingKey encodes v as 4 big-endian bytes so that numeric order and
// key order agree.
func ToAscendingKey(v uint32) []byte {
	return keys.ToAscendingKey(v)
}

// FromAscendingKey decodes a key made by ToAscendingKey. It panics with an
// *InvariantViolation when key is not 4 bytes long.
func FromAscendingKey(key []byte) uint32 {
	return keys.FromAscendingKey(key)
}

// ToBinaryKey copies raw bytes into a key.
func ToBinaryKey(data []byte) []byte {
	return keys.ToBinaryKey(data)
}

// FromBinaryKey copies bytes of key from pos into dst and returns the count.
func FromBinaryKey(key []byte, pos int, dst []byte) int {
	return keys.FromBinaryKey(key, pos, dst)
}

// CleanKey renders key for logs. Do not compare its output.
func CleanKey(key []byte) string {
	return keys.CleanKey(key)
}
