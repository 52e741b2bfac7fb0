// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
)

const defaultTxTimeout = 60 * time.Second

type txContextKey struct{}
type lazyTxContextKey struct{}

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	TracingEnabled  bool
}

// lazyTx opens the transaction on first use, so requests that never touch
// the database never pay for one.
type lazyTx struct {
	db *sql.DB

	mu          sync.Mutex
	tx          TxInterface
	committed   bool
	cancel      context.CancelFunc
	afterCommit []func()
}

func (lt *lazyTx) get() (TxInterface, error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if lt.committed {
		return nil, sql.ErrTxDone
	}

	if lt.tx != nil {
		return lt.tx, nil
	}

	// detached from the request context so a client disconnect does not
	// roll back a transaction that is about to be committed
	ctx, cancel := context.WithTimeout(context.Background(), defaultTxTimeout)
	tx, err := lt.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		cancel()
		return nil, err
	}

	lt.tx = tx
	lt.cancel = cancel

	return tx, nil
}

// commit is a no-op for a transaction that was never opened, it returns the
// hooks registered with AfterCommit.
func (lt *lazyTx) commit() ([]func(), error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if lt.tx != nil {
		if err := lt.tx.Commit(); err != nil {
			return nil, err
		}
	}
	lt.committed = true

	return lt.afterCommit, nil
}

func (lt *lazyTx) onCommit(fn func()) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.afterCommit = append(lt.afterCommit, fn)
}

type DBClient struct {
	pool *pgxpool.Pool
	db   *sql.DB

	dbRunner sq.BaseRunner

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Statement returns a builder bound to the transaction in ctx, if any,
// otherwise to the pool.
func (d *DBClient) Statement(ctx context.Context) sq.StatementBuilderType {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	if lt := lazyTxFromContext(ctx); lt != nil {
		tx, err := lt.get()
		if err == nil {
			return builder.RunWith(tx)
		}

		d.logger.Errorf("failed to create lazy transaction: %v", err)
	}

	if tx := TxFromContext(ctx); tx != nil {
		return builder.RunWith(tx)
	}

	return builder.RunWith(d.dbRunner)
}

// BeginTx starts a transaction and attaches it to the returned context.
func (d *DBClient) BeginTx(ctx context.Context) (context.Context, TxInterface, error) {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ctx, nil, err
	}

	return ContextWithTx(ctx, tx), tx, nil
}

func ContextWithTx(ctx context.Context, tx TxInterface) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func TxFromContext(ctx context.Context) TxInterface {
	if tx, ok := ctx.Value(txContextKey{}).(TxInterface); ok {
		return tx
	}
	return nil
}

func lazyTxFromContext(ctx context.Context) *lazyTx {
	if lt, ok := ctx.Value(lazyTxContextKey{}).(*lazyTx); ok {
		return lt
	}
	return nil
}

// WithoutTx detaches ctx from any transaction it carries, statements run on
// the returned context use the pool. Work that outlives the request, or runs
// beside it, must not share the request transaction.
func WithoutTx(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, lazyTxContextKey{}, (*lazyTx)(nil))
	return context.WithValue(ctx, txContextKey{}, nil)
}

// AfterCommit runs fn once the transaction in ctx has committed, it is
// dropped on rollback. Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if lt := lazyTxFromContext(ctx); lt != nil {
		lt.onCommit(fn)
		return
	}

	fn()
}

// WithTx runs fn in a transaction that is committed when fn returns nil.
// A transaction already present in ctx is joined instead, its owner decides
// the outcome.
func (d *DBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if lazyTxFromContext(ctx) != nil || TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	lt := &lazyTx{db: d.db}

	defer func() {
		lt.mu.Lock()
		defer lt.mu.Unlock()

		if lt.tx != nil && !lt.committed {
			if err := lt.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				d.logger.Errorf("failed to rollback transaction: %v", err)
			}
		}
		if lt.cancel != nil {
			lt.cancel()
		}
	}()

	if err := fn(context.WithValue(ctx, lazyTxContextKey{}, lt)); err != nil {
		return err
	}

	hooks, err := lt.commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, hook := range hooks {
		hook()
	}

	return nil
}

func (d *DBClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DBClient) Close() {
	if d.db != nil {
		_ = d.db.Close()
	}

	if d.pool != nil {
		d.pool.Close()
	}
}

// NewDBClient opens a pgx pool and exposes it through database/sql so that
// squirrel can run statements on it.
func NewDBClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*DBClient, error) {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}

	if cfg.TracingEnabled {
		config.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	config.MaxConns = cfg.MaxConns
	config.MinConns = cfg.MinConns
	config.MaxConnLifetime = cfg.MaxConnLifetime
	config.MaxConnLifetimeJitter = cfg.MaxConnLifetime / 10
	config.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if cfg.TracingEnabled {
		if err := otelpgx.RecordStats(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to start metrics collection for database: %w", err)
		}
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := db.Ping(); err != nil {
		monitor.SetDependencyAvailability(map[string]string{"component": "postgres"}, 0)
		pool.Close()
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	monitor.SetDependencyAvailability(map[string]string{"component": "postgres"}, 1)

	d := new(DBClient)
	d.pool = pool
	d.db = db
	d.dbRunner = db

	d.tracer = tracer
	d.monitor = monitor
	d.logger = logger

	return d, nil
}
