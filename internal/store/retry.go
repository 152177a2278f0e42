package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mattn/go-sqlite3"

	"golf-match-service/internal/logging"
)

const (
	retryInitialInterval = 10 * time.Millisecond
	retryMaxInterval     = 250 * time.Millisecond
	defaultMaxRetries    = 5
)

func (s *SQLStore) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInitialInterval
	exp.MaxInterval = retryMaxInterval
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, s.maxRetries), ctx)
}

// withRetry runs fn until it succeeds, fails with a non-transient error, or the
// retry budget runs out. Only SQLITE_BUSY and SQLITE_LOCKED are retried.
func (s *SQLStore) withRetry(ctx context.Context, op string, fn func() error) error {
	return backoff.RetryNotify(func() error {
		err := fn()
		if err == nil || isBusy(err) {
			return err
		}
		return backoff.Permanent(err)
	}, s.newBackOff(ctx), func(err error, wait time.Duration) {
		s.recorder.RecordStoreRetry(op)
		logging.Warn(s.logger, "store busy, retrying",
			logging.FieldOperation, op,
			"wait_ms", wait.Milliseconds(),
			"error", err,
		)
	})
}

func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
