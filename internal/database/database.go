// Package database centralises sqlx connection helpers for the SQL storage
// backend.  The driver is go-sql-driver/mysql, which also works with MariaDB
// and any server speaking the MySQL wire protocol.
//
// Public entry points:
//
//	Open(ctx, dsn)                     – conservative pool sizes.
//	OpenWithOptions(ctx, dsn, opts)    – fine-grained control.
//
// Both helpers Ping the database before returning so callers can fail fast
// during bootstrap.  Callers should Close() the returned *sqlx.DB.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes the pool and the startup ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra ping attempts after the first
	RetryBackoff    time.Duration // wait between attempts
}

// DefaultOptions suits one writer per process: uploads are rare and small.
var DefaultOptions = Options{
	MaxOpenConns:    5,
	MaxIdleConns:    2,
	ConnMaxLifetime: 30 * time.Minute,
	Retries:         2,
	RetryBackoff:    500 * time.Millisecond,
}

// Open returns a *sqlx.DB using DefaultOptions.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions)
}

// OpenWithOptions opens the pool and pings until it answers, the retries
// run out, or ctx ends.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := ping(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sqlx.DB, opts Options) error {
	var err error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		zap.S().Warnw("database ping failed", "attempt", attempt+1, "err", err)
		if attempt == opts.Retries {
			break
		}

		t := time.NewTimer(opts.RetryBackoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return fmt.Errorf("database ping: %w", err)
}
