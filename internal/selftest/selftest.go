// Package selftest checks key ordering and cursor behaviour of the engine on
// a scratch store.
package selftest

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/MikhailWahib/dbmemory/internal/config"
	"github.com/MikhailWahib/dbmemory/internal/engine"
	"github.com/MikhailWahib/dbmemory/internal/invariant"
	"github.com/MikhailWahib/dbmemory/internal/keys"
	"github.com/MikhailWahib/dbmemory/internal/registry"
)

// Check is a single named self-test step.
type Check struct {
	Name string
	Run  func(db *engine.Engine) error
}

// Checks lists every step Run executes, in order.
var Checks = []Check{
	{"comparator", checkComparator},
	{"ascending keys", checkAscendingKeys},
	{"put get del", checkPutGetDel},
	{"journal", checkJournal},
	{"prefix cursor", checkPrefixCursor},
	{"erase during scan", checkEraseDuringScan},
}

// Run executes every check on its own scratch store and returns the first
// failure. Invariant violations raised by the engine are reported as errors.
func Run(log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	for _, c := range Checks {
		if err := runCheck(log, c); err != nil {
			log.Error("self-test failed", zap.String("check", c.Name), zap.Error(err))
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		log.Debug("self-test passed", zap.String("check", c.Name))
	}
	return nil
}

func runCheck(log *zap.Logger, c Check) (err error) {
	defer func() {
		if v := invariant.Recover(recover()); v != nil {
			err = v
		}
	}()

	db, err := engine.NewEngine(engine.OpenTruncate, "selftest", &config.Config{
		Logger:   log,
		Registry: registry.New(),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	return c.Run(db)
}

func checkComparator(*engine.Engine) error {
	ordered := [][]byte{
		nil,
		{0x00},
		{0x00, 0x00},
		{0x01},
		{0x7f},
		{0x7f, 0xff},
		{0x80},
		{0xfe, 0xff},
		{0xff},
		{0xff, 0x00},
	}
	for i := range ordered {
		for j := range ordered {
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got := keys.Compare(ordered[i], ordered[j]); got != want {
				return fmt.Errorf("Compare(%x, %x) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
	return nil
}

func checkAscendingKeys(*engine.Engine) error {
	values := []uint32{0, 1, 0xff, 0x100, 0xffff, 0x10000, 0x7fffffff, 0x80000000, math.MaxUint32}
	var prev []byte
	for _, v := range values {
		key := keys.ToAscendingKey(v)
		if got := keys.FromAscendingKey(key); got != v {
			return fmt.Errorf("round trip of %d gave %d", v, got)
		}
		if prev != nil && keys.Compare(prev, key) >= 0 {
			return fmt.Errorf("key for %d does not sort after its predecessor", v)
		}
		prev = key
	}
	return nil
}

func checkPutGetDel(db *engine.Engine) error {
	if err := db.Put([]byte("k"), []byte("v1"), false); err != nil {
		return err
	}
	if err := db.Put([]byte("k"), []byte("v2"), true); !errors.Is(err, engine.ErrAlreadyExists) {
		return fmt.Errorf("no-overwrite put returned %v", err)
	}
	if v, ok := db.Get([]byte("k")); !ok || !bytes.Equal(v, []byte("v1")) {
		return fmt.Errorf("get returned %q, %v", v, ok)
	}
	if err := db.Del([]byte("k"), true); err != nil {
		return err
	}
	if _, ok := db.Get([]byte("k")); ok {
		return errors.New("key still present after delete")
	}
	if err := db.Del([]byte("k"), true); !errors.Is(err, engine.ErrMissingKey) {
		return fmt.Errorf("must-exist delete returned %v", err)
	}
	return nil
}

func checkJournal(db *engine.Engine) error {
	db.MoveJournal()
	for _, k := range []string{"k1", "k2"} {
		if err := db.Put([]byte(k), []byte("v"), false); err != nil {
			return err
		}
	}
	if err := db.Del([]byte("k1"), true); err != nil {
		return err
	}
	entries := db.MoveJournal()
	if len(entries) != 3 {
		return fmt.Errorf("journal has %d entries, want 3", len(entries))
	}
	if string(entries[0].Key) != "k1" || string(entries[1].Key) != "k2" || !entries[2].IsDeleted {
		return errors.New("journal entries out of order")
	}
	if n := len(db.MoveJournal()); n != 0 {
		return fmt.Errorf("second drain returned %d entries", n)
	}
	return nil
}

func checkPrefixCursor(db *engine.Engine) error {
	for _, k := range []string{"a1", "a2", "b1", "\xff1", "\xff2"} {
		if err := db.Put([]byte(k), nil, false); err != nil {
			return err
		}
	}
	scans := []struct {
		c    *engine.Cursor
		want string
	}{
		{db.Begin([]byte("a"), nil), "12"},
		{db.RBegin([]byte("a"), nil), "21"},
		{db.Begin([]byte("a"), []byte("2")), "2"},
		{db.RBegin([]byte("b"), []byte("0")), ""},
		{db.RBegin([]byte("\xff"), nil), "21"},
	}
	for i, s := range scans {
		var got []byte
		for ; !s.c.End(); s.c.Next() {
			got = append(got, s.c.Suffix()...)
		}
		if string(got) != s.want {
			return fmt.Errorf("scan %d yielded %q, want %q", i, got, s.want)
		}
	}
	return nil
}

func checkEraseDuringScan(db *engine.Engine) error {
	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		if err := db.Put([]byte(k), []byte(k), false); err != nil {
			return err
		}
	}
	for c := db.Begin([]byte("a"), nil); !c.End(); {
		if err := c.Erase(); err != nil {
			return err
		}
	}
	if !db.Begin([]byte("a"), nil).End() {
		return errors.New("prefix not empty after erase")
	}
	if _, ok := db.Get([]byte("b1")); !ok {
		return errors.New("erase removed a key outside the prefix")
	}
	return nil
}
