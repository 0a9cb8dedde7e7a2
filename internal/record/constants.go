// Package record provides the binary framing used to ship journal entries
// between stores.
package record

// EntryTypeSize is the size in bytes used to store an entry type marker
const EntryTypeSize = 1

// LengthSize is the size in bytes used to store length prefixes
const LengthSize = 4

// PrefixSize is the total size of entry metadata (type + key length + value length)
const PrefixSize = EntryTypeSize + (2 * LengthSize) // 9 bytes

// MaxBodySize bounds the combined key and value length of a decoded entry.
const MaxBodySize = 1 << 30
