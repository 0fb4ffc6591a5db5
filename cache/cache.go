// Package cache stores finished analyses in badger so that repeated
// requests for the same position and search bounds are answered
// without searching.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Entry is a cached analysis. Moves are in PTN.
type Entry struct {
	PV    []string `json:"pv"`
	Score int64    `json:"score"`
	Depth int      `json:"depth"`
	Nodes uint64   `json:"nodes"`
}

type Cache struct {
	db *badger.DB
}

// Open opens the cache in dir, or an in-memory cache if dir is empty.
func Open(dir string) (*Cache, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Key names a search of the position tps bounded by depth and nodes
// under the evaluation identified by eval. Only searches without a
// time limit are deterministic enough to cache.
func Key(eval, tps string, depth int, nodes uint64) string {
	return fmt.Sprintf("analysis/%s/%d/%d/%s", eval, depth, nodes, tps)
}

// Get returns the entry stored under key. A missing key is not an
// error.
func (c *Cache) Get(key string) (Entry, bool, error) {
	var e Entry
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	return e, found, err
}

func (c *Cache) Put(key string, e Entry) error {
	data, err := json.Marshal(&e)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}
