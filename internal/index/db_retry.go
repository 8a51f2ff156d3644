package index

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const maxBusyAttempts = 4

func isSQLiteBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

func retryDelay(attempt int) time.Duration {
	delay := time.Duration(attempt+1) * 40 * time.Millisecond
	if delay > 300*time.Millisecond {
		delay = 300 * time.Millisecond
	}
	return delay
}

// withBusyRetry runs fn until it succeeds, fails with something other than
// SQLITE_BUSY, or the index lock timeout runs out.
func (i *Index) withBusyRetry(ctx context.Context, op, query string, fn func() error) error {
	start := time.Now()
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !isSQLiteBusy(err) {
			slog.Debug("sql done", "op", op, "duration_ms", time.Since(start).Milliseconds(), "attempts", attempt+1, "err", err)
			return err
		}
		slog.Debug("sql busy", "op", op, "query", query, "attempt", attempt+1)
		switch {
		case attempt+1 >= maxBusyAttempts:
			return err
		case i.lockTimeout <= 0:
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case time.Since(start) >= i.lockTimeout:
			return err
		}
		time.Sleep(retryDelay(attempt))
	}
}

func (i *Index) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := i.withBusyRetry(ctx, "exec", query, func() error {
		var err error
		res, err = i.db.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

func (i *Index) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	var rows *sql.Rows
	err := i.withBusyRetry(ctx, "query", query, func() error {
		var err error
		rows, err = i.db.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

func (i *Index) queryRowScan(ctx context.Context, query string, args []any, dest ...any) error {
	return i.withBusyRetry(ctx, "query row", query, func() error {
		return i.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
}

// inTx runs fn inside a transaction, retrying the whole transaction when
// sqlite reports the database as busy.
func (i *Index) inTx(ctx context.Context, name string, fn func(tx *sql.Tx) error) error {
	return i.withBusyRetry(ctx, "tx "+name, "", func() error {
		tx, err := i.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.Warn("sql tx rollback failed", "op", name, "err", rbErr)
			}
			return err
		}
		return tx.Commit()
	})
}
