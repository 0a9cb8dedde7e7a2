package record

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// WriteEntry writes e to w using a length-prefixed format and returns the
// number of bytes written.
// Format: [1 byte EntryType][4 bytes KeyLen][4 bytes ValueLen][Key][Value]
func WriteEntry(w io.Writer, e Entry) (int, error) {
	n, err := w.Write(SerializeEntry(e))
	if err != nil {
		return n, fmt.Errorf("failed to write entry: %w", err)
	}
	return n, nil
}

// ReadEntryFromReader reads a single entry from a buffered reader.
// A clean end of stream before the entry begins returns io.EOF; a stream that
// ends inside an entry returns io.ErrUnexpectedEOF.
func ReadEntryFromReader(r *bufio.Reader) (Entry, error) {
	buf := make([]byte, PrefixSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Entry{}, err
	}

	if t := EntryType(buf[0]); t != PutEntry && t != DeleteEntry {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownEntryType, buf[0])
	}
	keyLen := binary.BigEndian.Uint32(buf[EntryTypeSize : EntryTypeSize+LengthSize])
	valLen := binary.BigEndian.Uint32(buf[EntryTypeSize+LengthSize : PrefixSize])

	bodyLen := int64(keyLen) + int64(valLen)
	if bodyLen > MaxBodySize {
		return Entry{}, fmt.Errorf("%w: %d bytes", ErrEntryTooLarge, bodyLen)
	}

	// Grow with the bytes read, never with the claimed length.
	var body bytes.Buffer
	body.Write(buf)
	n, err := io.CopyN(&body, r, bodyLen)
	if err != nil {
		return Entry{}, unexpected(err)
	}
	if n != bodyLen {
		return Entry{}, io.ErrUnexpectedEOF
	}

	e, _, err := DecodeEntry(body.Bytes())
	return e, err
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// DecodeEntry parses an entry from a byte slice.
// Returns the parsed entry and the number of bytes consumed. The returned key
// and value alias buf.
func DecodeEntry(buf []byte) (Entry, int, error) {
	if len(buf) < PrefixSize {
		return Entry{}, 0, io.ErrUnexpectedEOF
	}

	entryType := EntryType(buf[0])
	if entryType != PutEntry && entryType != DeleteEntry {
		return Entry{}, 0, fmt.Errorf("%w: %d", ErrUnknownEntryType, buf[0])
	}
	keyLen := binary.BigEndian.Uint32(buf[EntryTypeSize : EntryTypeSize+LengthSize])
	valLen := binary.BigEndian.Uint32(buf[EntryTypeSize+LengthSize : PrefixSize])
	totalLen := PrefixSize + int(keyLen) + int(valLen)

	if len(buf) < totalLen {
		return Entry{}, 0, io.ErrUnexpectedEOF
	}

	key := buf[PrefixSize : PrefixSize+keyLen]
	value := buf[PrefixSize+keyLen : totalLen]

	return Entry{
		Type:  entryType,
		Key:   key,
		Value: value,
	}, totalLen, nil
}

// SerializeEntry converts an Entry to a byte slice
func SerializeEntry(e Entry) []byte {
	keyLen := len(e.Key)
	valLen := len(e.Value)

	buf := make([]byte, PrefixSize+keyLen+valLen)
	buf[0] = byte(e.Type)
	binary.BigEndian.PutUint32(buf[EntryTypeSize:EntryTypeSize+LengthSize], uint32(keyLen))
	binary.BigEndian.PutUint32(buf[EntryTypeSize+LengthSize:PrefixSize], uint32(valLen))
	copy(buf[PrefixSize:], e.Key)
	if valLen > 0 {
		copy(buf[PrefixSize+keyLen:], e.Value)
	}

	return buf
}
