package postgres

import (
	"context"
	"errors"
	"fmt"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/lib/pq"
)

// LockKey acquires an advisory lock based on the provided request.
// If Timeout is nil, defaults to 30 seconds. If Timeout is 0 or negative, uses fail-fast behavior.
// Auto released on tx commit/rollback.
// Must be called inside a transaction. Non postgres dialects serialize writers
// themselves and skip the lock.
func (c *Client) LockKey(ctx context.Context, req types.LockRequest) error {
	tx := c.TxFromContext(ctx)
	if tx == nil {
		return ierr.NewError("LockKey must be called inside transaction").
			Mark(ierr.ErrInternal)
	}
	if tx.Dialector.Name() != "postgres" {
		return nil
	}

	timeout := req.GetTimeout()

	// Handle zero or negative timeout (fail-fast)
	if timeout <= 0 {
		ok, err := c.TryLockKey(ctx, req.Key)
		if err != nil {
			return err
		}
		if !ok {
			return ierr.NewErrorf("lock %s already held", req.Key).
				WithHint("Another change to this lease is in progress, please retry").
				Mark(ierr.ErrInvalidOperation)
		}
		return nil
	}

	// Set lock_timeout for this transaction (automatically reset on commit/rollback)
	timeoutMs := int(timeout.Milliseconds())
	if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = %d", timeoutMs)).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to set lock timeout").
			Mark(ierr.ErrDatabase)
	}

	// Acquire the lock (will respect lock_timeout we just set)
	if err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext(?))`, req.Key).Error; err != nil {
		if isLockTimeoutError(err) {
			return ierr.WithError(err).
				WithHintf("Another change to this lease is in progress, gave up after %v", timeout).
				Mark(ierr.ErrInvalidOperation)
		}
		return ierr.WithError(err).
			WithHint("Failed to acquire lock").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

// isLockTimeoutError checks if the error is a PostgreSQL lock timeout error
func isLockTimeoutError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 55P03 = lock_not_available
		return pqErr.Code == "55P03"
	}
	return false
}

// TryLockKey tries acquiring advisory lock immediately.
// Returns ok=false if lock is already held.
// Auto released on tx commit/rollback.
func (c *Client) TryLockKey(ctx context.Context, key string) (bool, error) {
	tx := c.TxFromContext(ctx)
	if tx == nil {
		return false, ierr.NewError("TryLockKey must be called inside transaction").
			Mark(ierr.ErrInternal)
	}
	if tx.Dialector.Name() != "postgres" {
		return true, nil
	}

	var ok bool
	if err := tx.Raw(`SELECT pg_try_advisory_xact_lock(hashtext(?))`, key).Scan(&ok).Error; err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to acquire lock").
			Mark(ierr.ErrDatabase)
	}
	return ok, nil
}
