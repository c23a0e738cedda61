// Package prefs persists per-operator UI flags such as the one-time onboarding notice.
package prefs

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// DisclaimerShown records that the operator dismissed the onboarding notice.
const DisclaimerShown = "cms-disclaimer-shown"

type Flags interface {
	Get(key string) (bool, error)
	Set(key string, value bool) error
}

// BadgerFlags stores flags as "true"/"false" values in Badger.
type BadgerFlags struct {
	db *badger.DB
}

var _ Flags = (*BadgerFlags)(nil)

// OpenBadger opens the flag store. Pass path="" to keep it in memory.
func OpenBadger(path string) (*BadgerFlags, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerFlags{db: db}, nil
}

func (f *BadgerFlags) Close() error {
	return f.db.Close()
}

// Get returns false for flags never set.
func (f *BadgerFlags) Get(key string) (bool, error) {
	var value bool
	err := f.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val) == "true"
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return value, err
}

func (f *BadgerFlags) Set(key string, value bool) error {
	raw := "false"
	if value {
		raw = "true"
	}
	return f.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(raw))
	})
}
