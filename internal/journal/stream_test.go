package journal_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/MikhailWahib/dbmemory/internal/journal"
	"github.com/MikhailWahib/dbmemory/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Replay(t *testing.T) {
	var buf bytes.Buffer
	w := journal.NewWriter(&buf)

	expected := []journal.Entry{
		{Key: []byte("key1"), Value: []byte("value1")},
		{Key: []byte("key2"), Value: []byte("value2")},
		{Key: []byte("key1"), Value: []byte("value1"), IsDeleted: true},
		{Key: []byte{0x00, 0xff}, Value: []byte{}},
	}

	require.NoError(t, w.Append(expected[0]))
	require.NoError(t, w.AppendAll(expected[1:]))
	assert.Zero(t, buf.Len(), "entries stay buffered until Flush")
	require.NoError(t, w.Flush())
	assert.Equal(t, int64(buf.Len()), w.Written())

	entries, err := journal.Replay(&buf)
	require.NoError(t, err)
	require.Len(t, entries, len(expected))

	for i, e := range entries {
		assert.Equal(t, expected[i].IsDeleted, e.IsDeleted, "entry %d type mismatch", i)
		assert.True(t, bytes.Equal(expected[i].Key, e.Key), "entry %d key mismatch", i)
		assert.True(t, bytes.Equal(expected[i].Value, e.Value), "entry %d value mismatch", i)
	}
}

func TestReplay_Empty(t *testing.T) {
	entries, err := journal.Replay(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Len(t, entries, 0, "Expected empty replay, got entries")
}

func TestReplay_LargeEntries(t *testing.T) {
	var buf bytes.Buffer
	w := journal.NewWriter(&buf)

	largeKey := make([]byte, 1024)
	largeValue := make([]byte, 64*1024)
	for i := range largeValue {
		largeValue[i] = byte(i)
	}

	require.NoError(t, w.Append(journal.Entry{Key: largeKey, Value: largeValue}))
	require.NoError(t, w.Append(journal.Entry{Key: []byte("small_key"), Value: []byte("small_value")}))
	require.NoError(t, w.Flush())

	entries, err := journal.Replay(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.True(t, bytes.Equal(largeKey, entries[0].Key), "Large key mismatch")
	assert.True(t, bytes.Equal(largeValue, entries[0].Value), "Large value mismatch")
	assert.Equal(t, "small_key", string(entries[1].Key))
}

func TestReplay_Truncated(t *testing.T) {
	raw := record.SerializeEntry(record.Entry{Type: record.PutEntry, Key: []byte("k"), Value: []byte("v")})
	raw = append(raw, raw[:len(raw)-1]...)

	_, err := journal.Replay(bytes.NewReader(raw))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestWriter_FlushError(t *testing.T) {
	pr, pw := io.Pipe()
	require.NoError(t, pr.Close())

	w := journal.NewWriter(pw)
	require.NoError(t, w.Append(journal.Entry{Key: []byte("k")}))
	assert.Error(t, w.Flush())
}
