// Package storage provides the database layer for Pillbox.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
)

const (
	// AppName is the application name used for data directories.
	AppName = "pillbox"
)

// DB wraps a Badger database connection.
type DB struct {
	db *badger.DB
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path following the XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options

	if opts.InMemory || opts.Path == "" {
		// In-memory mode for testing
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// NextID allocates the next numeric id from the named sequence. Allocation
// happens inside a single update transaction, so concurrent callers never
// observe the same id.
func (d *DB) NextID(name string) (uint64, error) {
	key := []byte("seq:" + name)
	var next uint64

	err := d.db.Update(func(txn *badger.Txn) error {
		next = 1
		item, err := txn.Get(key)
		if err == nil {
			err = item.Value(func(val []byte) error {
				current, parseErr := strconv.ParseUint(string(val), 10, 64)
				if parseErr != nil {
					return parseErr
				}
				next = current + 1
				return nil
			})
			if err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(key, []byte(strconv.FormatUint(next, 10)))
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// SubscribePrefix invokes fn whenever any key under the given prefix
// changes. It blocks until the context is cancelled; callers run it on its
// own goroutine. This backs the live "today" views.
func (d *DB) SubscribePrefix(ctx context.Context, prefix string, fn func()) error {
	match := []pb.Match{{Prefix: []byte(prefix)}}
	return d.db.Subscribe(ctx, func(kv *badger.KVList) error {
		fn()
		return nil
	}, match)
}
