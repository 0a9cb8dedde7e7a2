package dbmemory

import (
	"io"

	"go.uber.org/zap"

	"github.com/MikhailWahib/dbmemory/internal/journal"
	"github.com/MikhailWahib/dbmemory/internal/selftest"
)

// EncodeJournal writes entries to w in a length-prefixed binary format that
// DecodeJournal reads back.
func EncodeJournal(w io.Writer, entries []JournalEntry) error {
	jw := journal.NewWriter(w)
	if err := jw.AppendAll(entries); err != nil {
		return err
	}
	return jw.Flush()
}

// DecodeJournal reads entries written by EncodeJournal until end of stream.
// A stream cut inside an entry returns io.ErrUnexpectedEOF.
func DecodeJournal(r io.Reader) ([]JournalEntry, error) {
	return journal.Replay(r)
}

// RunTests runs the built-in self-check of key ordering, the journal and
// cursors on a scratch store. log may be nil.
func RunTests(log *zap.Logger) error {
	return selftest.Run(log)
}
