package storage

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

var _ domain.KeyValueStore = (*BadgerStore)(nil)

// BadgerStore keeps keys in a BadgerDB instance.
type BadgerStore struct {
	db  *badger.DB
	log *logger.Logger
}

// NewBadgerStore opens a BadgerDB at dir. An empty dir or ":memory:"
// opens an in-memory database.
func NewBadgerStore(dir string, log *logger.Logger) (*BadgerStore, error) {
	var opts badger.Options
	if dir == "" || dir == ":memory:" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(badgerLogger{log}).WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	log.Debug("badger store opened (dir=%q)", dir)
	return &BadgerStore{db: db, log: log}, nil
}

// Get returns a copy of the value under key.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	if out == nil {
		out = []byte{}
	}
	return out, true, nil
}

// Set replaces the value under key in one transaction.
func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.log.Debug("wrote %s (%d bytes)", key, len(value))
	return nil
}

// Close flushes and closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging through ours.
type badgerLogger struct{ log *logger.Logger }

func (l badgerLogger) Errorf(format string, args ...any)   { l.log.Error("badger: "+format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.log.Warn("badger: "+format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.log.Debug("badger: "+format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.log.Debug("badger: "+format, args...) }
