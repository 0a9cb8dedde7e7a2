package dbmemory_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MikhailWahib/dbmemory"
)

func openDB(t *testing.T, path string) *dbmemory.DB {
	t.Helper()
	db, err := dbmemory.Open(dbmemory.OpenTruncate, path, &dbmemory.Config{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbmemory.DeleteDB(path, nil) })
	return db
}

func TestDB_PutGetDel(t *testing.T) {
	db := openDB(t, t.Name())

	require.NoError(t, db.PutString("k1", "v1", false))
	require.NoError(t, db.Put([]byte{0xff, 0x00}, []byte{0x80}, false))

	val, found := db.GetString("k1")
	assert.True(t, found)
	assert.Equal(t, "v1", val)

	bin, found := db.Get([]byte{0xff, 0x00})
	assert.True(t, found)
	assert.Equal(t, []byte{0x80}, bin)

	bin, found = db.Get([]byte("k1"))
	assert.True(t, found)
	assert.Equal(t, []byte("v1"), bin, "textual values are plain bytes")

	require.NoError(t, db.Del([]byte("k1"), false))
	_, found = db.GetString("k1")
	assert.False(t, found)
}

func TestDB_NoOverwrite(t *testing.T) {
	db := openDB(t, t.Name())

	require.NoError(t, db.PutString("k", "v1", false))
	assert.ErrorIs(t, db.PutString("k", "v2", true), dbmemory.ErrAlreadyExists)

	val, _ := db.GetString("k")
	assert.Equal(t, "v1", val)
}

func TestDB_JournalScenario(t *testing.T) {
	db := openDB(t, t.Name())

	require.NoError(t, db.PutString("k1", "v1", false))
	require.NoError(t, db.PutString("k2", "v2", false))
	require.NoError(t, db.Del([]byte("k1"), true))
	assert.ErrorIs(t, db.Del([]byte("k1"), true), dbmemory.ErrMissingKey)

	entries := db.MoveJournal()
	require.Len(t, entries, 3)
	assert.Equal(t, dbmemory.JournalEntry{Key: []byte("k1"), Value: []byte("v1")}, entries[0])
	assert.Equal(t, dbmemory.JournalEntry{Key: []byte("k2"), Value: []byte("v2")}, entries[1])
	assert.Equal(t, "k1", string(entries[2].Key))
	assert.True(t, entries[2].IsDeleted)
	assert.Empty(t, db.MoveJournal())

	_, found := db.GetString("k1")
	assert.False(t, found)
	val, _ := db.GetString("k2")
	assert.Equal(t, "v2", val)
}

func TestDB_Cursors(t *testing.T) {
	db := openDB(t, t.Name())
	for _, k := range []string{"a1", "a2", "b1"} {
		require.NoError(t, db.PutString(k, "v"+k, false))
	}

	c := db.BeginString("a", "")
	require.False(t, c.End())
	assert.Equal(t, "1", c.SuffixString())
	assert.Equal(t, "va1", c.ValueString())
	assert.Equal(t, []byte("a1"), c.Key())
	c.Next()
	assert.Equal(t, []byte("2"), c.Suffix())
	assert.Equal(t, []byte("va2"), c.Value())
	c.Next()
	assert.True(t, c.End())

	var got []string
	for c := db.RBeginString("a", ""); !c.End(); c.Next() {
		got = append(got, c.SuffixString())
	}
	assert.Equal(t, []string{"2", "1"}, got)

	for c := db.Begin([]byte("a"), nil); !c.End(); {
		require.NoError(t, c.Erase())
	}
	assert.True(t, db.RBegin([]byte("a"), nil).End())
	_, found := db.GetString("b1")
	assert.True(t, found)
}

func TestDB_StaleCursorPanics(t *testing.T) {
	db := openDB(t, t.Name())
	require.NoError(t, db.PutString("a1", "", false))

	c := db.BeginString("a", "")
	require.NoError(t, db.PutString("a2", "", false))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*dbmemory.InvariantViolation)
		assert.True(t, ok, "expected *InvariantViolation, got %T", r)
	}()
	c.Next()
}

func TestDB_AscendingKeyScan(t *testing.T) {
	db := openDB(t, t.Name())

	for _, h := range []uint32{300, 2, 70000, 255} {
		key := append([]byte("h"), dbmemory.ToAscendingKey(h)...)
		require.NoError(t, db.Put(key, nil, true))
	}

	var heights []uint32
	for c := db.BeginString("h", ""); !c.End(); c.Next() {
		heights = append(heights, dbmemory.FromAscendingKey(c.Suffix()))
	}
	assert.Equal(t, []uint32{2, 255, 300, 70000}, heights)
	assert.Equal(t, -1, dbmemory.CompareKeys(dbmemory.ToAscendingKey(255), dbmemory.ToAscendingKey(256)))
}

func TestDB_KeyHelpers(t *testing.T) {
	key := dbmemory.ToBinaryKey([]byte{0x01, 'a', 0xff})
	dst := make([]byte, 2)
	assert.Equal(t, 2, dbmemory.FromBinaryKey(key, 1, dst))
	assert.Equal(t, []byte{'a', 0xff}, dst)
	assert.Equal(t, "?a?", dbmemory.CleanKey(key))
}

func TestDB_Statistics(t *testing.T) {
	db := openDB(t, t.Name())

	require.NoError(t, db.PutString("key", "value", false))
	require.NoError(t, db.PutString("k", "", false))
	assert.Equal(t, 9, db.ApproximateSize())
	assert.Equal(t, 2, db.ApproximateItemsCount())
	assert.Equal(t, 3, db.MaxKeySize())

	db.CommitDBTxn()
	assert.Equal(t, 9, db.ApproximateSize())
}

func TestDB_ReopenBackupDelete(t *testing.T) {
	path := t.Name()
	backup := path + "-backup"
	t.Cleanup(func() { _ = dbmemory.DeleteDB(backup, nil) })

	db := openDB(t, path)
	assert.Equal(t, path, db.Path())
	require.NoError(t, db.PutString("k", "v", false))
	require.NoError(t, db.Close())
	assert.ErrorIs(t, db.Close(), dbmemory.ErrClosed)

	require.NoError(t, dbmemory.BackupDB(path, backup, nil))
	require.NoError(t, dbmemory.DeleteDB(path, nil))

	_, err := dbmemory.Open(dbmemory.OpenExisting, path, nil)
	assert.ErrorIs(t, err, dbmemory.ErrInvalidMode)

	ro, err := dbmemory.Open(dbmemory.OpenReadOnly, backup, nil)
	require.NoError(t, err)
	val, found := ro.GetString("k")
	assert.True(t, found)
	assert.Equal(t, "v", val)
	assert.ErrorIs(t, ro.PutString("k", "x", false), dbmemory.ErrReadOnly)
	require.NoError(t, ro.Close())

	assert.ErrorIs(t, dbmemory.BackupDB(path, backup, nil), dbmemory.ErrInvalidMode)
}

func TestDB_PrivateRegistryMaintenance(t *testing.T) {
	cfg := &dbmemory.Config{Registry: dbmemory.NewRegistry(), Logger: zaptest.NewLogger(t)}

	db, err := dbmemory.Open(dbmemory.OpenCreate, "private", cfg)
	require.NoError(t, err)
	require.NoError(t, db.PutString("k", "v", false))
	require.NoError(t, db.Close())

	assert.ErrorIs(t, dbmemory.BackupDB("private", "copy", nil), dbmemory.ErrInvalidMode)
	require.NoError(t, dbmemory.BackupDB("private", "copy", cfg))
	require.NoError(t, dbmemory.DeleteDB("private", cfg))

	_, err = dbmemory.Open(dbmemory.OpenExisting, "private", cfg)
	assert.ErrorIs(t, err, dbmemory.ErrInvalidMode)

	cp, err := dbmemory.Open(dbmemory.OpenReadOnly, "copy", cfg)
	require.NoError(t, err)
	val, found := cp.GetString("k")
	assert.True(t, found)
	assert.Equal(t, "v", val)
}

func TestDB_JournalReplication(t *testing.T) {
	primary := openDB(t, t.Name())
	replica := openDB(t, t.Name()+"-replica")

	require.NoError(t, primary.PutString("a", "1", false))
	require.NoError(t, primary.PutString("b", "2", false))
	require.NoError(t, primary.Del([]byte("a"), true))

	var buf bytes.Buffer
	require.NoError(t, dbmemory.EncodeJournal(&buf, primary.MoveJournal()))

	entries, err := dbmemory.DecodeJournal(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.NoError(t, replica.Apply(entries))

	_, found := replica.GetString("a")
	assert.False(t, found)
	val, _ := replica.GetString("b")
	assert.Equal(t, "2", val)
}

func TestDecodeJournalTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dbmemory.EncodeJournal(&buf, []dbmemory.JournalEntry{{Key: []byte("k"), Value: []byte("v")}}))

	raw := buf.Bytes()
	_, err := dbmemory.DecodeJournal(bytes.NewReader(raw[:len(raw)-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeJournalForgedLength(t *testing.T) {
	_, err := dbmemory.DecodeJournal(bytes.NewReader([]byte{0, 0x10, 0, 0, 0, 0, 0, 0, 0}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRunTests(t *testing.T) {
	assert.NoError(t, dbmemory.RunTests(zaptest.NewLogger(t)))
}
