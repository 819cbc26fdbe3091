package testutil

import (
	"context"
	"sync"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/postgres"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"gorm.io/gorm"
)

var _ postgres.IClient = (*InMemoryDB)(nil)

type inMemoryTxKey struct{}

// InMemoryDB implements postgres.IClient for the in-memory stores. Transactions
// are serialized and roll the registered stores back when fn fails, which also
// gives LockKey its mutual exclusion.
type InMemoryDB struct {
	txMu   sync.Mutex
	stores []snapshotter

	mu       sync.Mutex
	lockKeys []string
	rollback int
}

func NewInMemoryDB(stores ...snapshotter) *InMemoryDB {
	return &InMemoryDB{stores: stores}
}

func (d *InMemoryDB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inMemoryTxKey{}) != nil {
		return fn(ctx)
	}

	d.txMu.Lock()
	defer d.txMu.Unlock()

	snapshots := make([]interface{}, len(d.stores))
	for i, s := range d.stores {
		snapshots[i] = s.snapshot()
	}
	rollback := func() {
		for i, s := range d.stores {
			s.restore(snapshots[i])
		}
		d.mu.Lock()
		d.rollback++
		d.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, inMemoryTxKey{}, true)); err != nil {
		rollback()
		return err
	}
	return nil
}

// Writer has no SQL handle behind it
func (d *InMemoryDB) Writer(context.Context) *gorm.DB { return nil }

// Reader has no SQL handle behind it
func (d *InMemoryDB) Reader(context.Context) *gorm.DB { return nil }

func (d *InMemoryDB) LockKey(ctx context.Context, req types.LockRequest) error {
	if ctx.Value(inMemoryTxKey{}) == nil {
		return ierr.NewError("advisory lock requested outside of a transaction").
			WithHint("Locks can only be taken inside a transaction").
			Mark(ierr.ErrInternal)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lockKeys = append(d.lockKeys, req.Key)
	return nil
}

func (d *InMemoryDB) TryLockKey(ctx context.Context, key string) (bool, error) {
	if err := d.LockKey(ctx, types.LockRequest{Key: key}); err != nil {
		return false, err
	}
	return true, nil
}

// LockKeys returns every advisory lock key taken so far
func (d *InMemoryDB) LockKeys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lockKeys...)
}

// Rollbacks returns how many transactions were rolled back
func (d *InMemoryDB) Rollbacks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rollback
}

func (d *InMemoryDB) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lockKeys = nil
	d.rollback = 0
}
