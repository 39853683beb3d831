package postgres

import (
	"context"
	"database/sql"
	"sync"

	"gorm.io/gorm"
)

// syncRunLockKey is the application-wide advisory lock key for the sync job.
// Every deployment sharing one database competes for the same key, which is
// what serializes cross-invocation runs.
const syncRunLockKey int64 = 0x72657473796E63 // "retsync"

// AdvisoryRunLock implements ports.RunLock with a Postgres session advisory
// lock. The lock is tied to a dedicated connection held for the lifetime of
// the run; losing the connection releases the lock, so a crashed run never
// blocks the next one. One instance may be shared by concurrent callers
// (overlapping cron ticks, parallel HTTP triggers): while the instance holds
// the lock, every further TryAcquire reports it as taken.
type AdvisoryRunLock struct {
	db *gorm.DB

	mu   sync.Mutex
	conn *sql.Conn
}

// NewAdvisoryRunLock creates a run lock over the given connection pool.
func NewAdvisoryRunLock(db *gorm.DB) *AdvisoryRunLock {
	return &AdvisoryRunLock{db: db}
}

// TryAcquire attempts to take the lock without blocking. Returns false when
// another invocation holds it, including when that invocation went through
// this same instance.
func (l *AdvisoryRunLock) TryAcquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return false, nil
	}

	sqlDB, err := l.db.DB()
	if err != nil {
		return false, err
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return false, err
	}

	var acquired bool
	if err = conn.QueryRowContext(
		ctx, "SELECT pg_try_advisory_lock($1)", syncRunLockKey,
	).Scan(&acquired); err != nil {
		_ = conn.Close()
		return false, err
	}

	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

// Release releases the lock and returns its connection to the pool. Safe to
// call when the lock was never acquired.
func (l *AdvisoryRunLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}

	_, err := l.conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", syncRunLockKey)
	closeErr := l.conn.Close()
	l.conn = nil

	if err != nil {
		return err
	}
	return closeErr
}
