// Copyright (c) 2022 Shivaram Lingamneni
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package factoids

import (
	"strings"

	"github.com/tidwall/buntdb"
)

const (
	// every factoid is stored under keyFactoidPrefix + name
	keyFactoidPrefix = "factoid "
)

// BuntdbBackend stores factoids as individual keys in a buntdb database.
type BuntdbBackend struct {
	db *buntdb.DB
}

// OpenBuntdbBackend opens (creating if necessary) the database at path;
// ":memory:" gives a database that is never written to disk.
func OpenBuntdbBackend(path string) (*BuntdbBackend, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	// a define is only done once it's on disk
	var dbConfig buntdb.Config
	if err = db.ReadConfig(&dbConfig); err == nil {
		dbConfig.SyncPolicy = buntdb.Always
		err = db.SetConfig(dbConfig)
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BuntdbBackend{db: db}, nil
}

func (b *BuntdbBackend) Load() (factoids map[string]string, err error) {
	factoids = make(map[string]string)
	err = b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendGreaterOrEqual("", keyFactoidPrefix, func(key, value string) bool {
			if !strings.HasPrefix(key, keyFactoidPrefix) {
				return false
			}
			factoids[strings.TrimPrefix(key, keyFactoidPrefix)] = value
			return true
		})
	})
	return
}

// Save makes the database hold exactly factoids, in one transaction.
func (b *BuntdbBackend) Save(factoids map[string]string) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		var stale []string
		err := tx.AscendGreaterOrEqual("", keyFactoidPrefix, func(key, value string) bool {
			if !strings.HasPrefix(key, keyFactoidPrefix) {
				return false
			}
			if _, ok := factoids[strings.TrimPrefix(key, keyFactoidPrefix)]; !ok {
				stale = append(stale, key)
			}
			return true
		})
		if err != nil {
			return err
		}
		for _, key := range stale {
			if _, err := tx.Delete(key); err != nil && err != buntdb.ErrNotFound {
				return err
			}
		}
		for name, text := range factoids {
			if _, _, err := tx.Set(keyFactoidPrefix+name, text, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BuntdbBackend) Close() error {
	return b.db.Close()
}
