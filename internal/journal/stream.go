package journal

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/MikhailWahib/dbmemory/internal/record"
)

// Writer frames journal entries onto an io.Writer.
type Writer struct {
	mu sync.Mutex

	w       *bufio.Writer
	written int64
}

// NewWriter creates a Writer that buffers output to w. Call Flush to push
// buffered entries through.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Append writes a single entry.
func (w *Writer) Append(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.writeEntry(e)
}

// AppendAll writes entries in order, stopping at the first failure.
func (w *Writer) AppendAll(entries []Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, e := range entries {
		if err := w.writeEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry formats an entry and writes it to the buffer
// Format: [1 byte Type][4 bytes KeyLen][4 bytes ValueLen][Key][Value]
func (w *Writer) writeEntry(e Entry) error {
	t := record.PutEntry
	if e.IsDeleted {
		t = record.DeleteEntry
	}
	n, err := record.WriteEntry(w.w, record.Entry{
		Type:  t,
		Key:   e.Key,
		Value: e.Value,
	})
	w.written += int64(n)
	return err
}

// Written returns the number of framed bytes accepted so far.
func (w *Writer) Written() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.written
}

// Flush pushes buffered entries to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.w.Flush()
}

// Replay reads entries from r until a clean end of stream.
func Replay(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)
	entries := []Entry{}

	for {
		e, err := record.ReadEntryFromReader(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		entries = append(entries, Entry{
			Key:       e.Key,
			Value:     e.Value,
			IsDeleted: e.Type == record.DeleteEntry,
		})
	}

	return entries, nil
}
