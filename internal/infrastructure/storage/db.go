// Package storage is the archive store: a thin bun/pgdriver layer that
// persists completed run summaries (RunRepository) and tracks schema
// migrations (Migrator), grounded on the teacher's own choice of
// uptrace/bun over database/sql directly.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Config holds connection pool settings for the archive store.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Debug           bool
}

// NewDB opens a pooled Postgres connection through bun's pgdriver and
// verifies it with a ping before returning.
func NewDB(cfg *Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping archive store: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *bun.DB) error {
	return db.Close()
}

// Ping checks archive-store connectivity, used by the /healthz handler.
func Ping(ctx context.Context, db *bun.DB) error {
	return db.PingContext(ctx)
}

// Stats exposes the pool's sql.DBStats for the /metrics-style health
// payload.
func Stats(db *bun.DB) sql.DBStats {
	return db.DB.Stats()
}
