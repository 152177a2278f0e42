// Package store persists matches, players, enrollments and scores in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"golf-match-service/internal/logging"
	"golf-match-service/internal/metrics"
)

const driverName = "sqlite3"

var tracer = otel.Tracer("golf-match-service/store")

// Config describes how to open the database.
type Config struct {
	Path         string
	BusyTimeout  time.Duration
	MaxOpenConns int
	MaxRetries   uint64
}

// SQLStore is the database/sql implementation shared by every service.
type SQLStore struct {
	db         *sql.DB
	logger     *slog.Logger
	recorder   *metrics.Recorder
	maxRetries uint64
}

// Open connects to the database at cfg.Path, applies the schema, and verifies the
// connection. Foreign keys are enabled on every pooled connection through the DSN.
func Open(ctx context.Context, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) (*SQLStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("open store: empty database path")
	}

	db, err := sql.Open(driverName, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	s := &SQLStore{
		db:         db,
		logger:     logger,
		recorder:   recorder,
		maxRetries: cfg.MaxRetries,
	}
	if s.maxRetries == 0 {
		s.maxRetries = defaultMaxRetries
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Info(logger, "store opened", logging.FieldDBPath, cfg.Path)
	return s, nil
}

func dsn(cfg Config) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_txlock", "immediate")
	if cfg.BusyTimeout > 0 {
		params.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeout.Milliseconds()))
	}
	return cfg.Path + "?" + params.Encode()
}

func (s *SQLStore) migrate(ctx context.Context) error {
	return s.observe(ctx, "migrate", func(ctx context.Context) error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range schema {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("apply schema: %w", err)
				}
			}
			return nil
		})
	})
}

// Ping reports whether the database answers queries.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Checkpoint folds the write-ahead log back into the database file and lets
// SQLite refresh its query planner statistics.
func (s *SQLStore) Checkpoint(ctx context.Context) error {
	return s.observe(ctx, "checkpoint", func(ctx context.Context) error {
		if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			return fmt.Errorf("wal checkpoint: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
			return fmt.Errorf("optimize: %w", err)
		}
		return nil
	})
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing on success. Transactions begin
// IMMEDIATE so concurrent writers queue on the busy timeout instead of failing at
// commit.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// observe wraps one store operation with a span, busy retries, and metrics.
func (s *SQLStore) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "store."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.String("db.operation", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := s.withRetry(ctx, op, func() error { return fn(ctx) })
	s.recorder.RecordStoreOperation(op, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
