// Package storage holds the blob backends that receive validated avatars.
//
// Every backend satisfies Uploader.  Failures are reported as *UploadError,
// which matches ErrUploadFailed under errors.Is, so callers never need to
// know which backend is configured.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yanizio/formhook/internal/config"
	"github.com/yanizio/formhook/internal/database"
	"github.com/yanizio/formhook/internal/metrics"
)

// ErrUploadFailed is the sentinel behind every *UploadError.
var ErrUploadFailed = errors.New("upload failed")

// Uploader stores one object.  Implementations must be safe for concurrent
// use.
type Uploader interface {
	Upload(ctx context.Context, bucket, key string, data []byte) error
}

// UploadError carries the object coordinates and the backend failure.
type UploadError struct {
	Bucket string
	Key    string
	Status int // HTTP status when the backend speaks HTTP, else 0
	Err    error
}

func (e *UploadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upload %s/%s: status %d: %v", e.Bucket, e.Key, e.Status, e.Err)
	}
	return fmt.Sprintf("upload %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUploadFailed) match any UploadError.
func (e *UploadError) Is(target error) bool { return target == ErrUploadFailed }

// contentType sniffs data; unknown payloads become application/octet-stream.
func contentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// -----------------------------------------------------------------------------
// Factory
// -----------------------------------------------------------------------------

// New builds the backend named by cfg.Backend.  secret is the resolved
// storage key (Vault references are resolved by the caller).  The returned
// close func releases backend resources and is never nil.
func New(ctx context.Context, cfg config.Storage, secret string) (Uploader, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "http":
		return Timed("http", NewHTTPStore(cfg.Endpoint, secret, cfg.Timeout)), noop, nil
	case "sql":
		db, err := database.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("storage sql: %w", err)
		}
		return Timed("sql", NewSQLStore(db)), db.Close, nil
	case "memory":
		return Timed("memory", NewMemoryStore()), noop, nil
	default:
		return nil, noop, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// -----------------------------------------------------------------------------
// Instrumentation
// -----------------------------------------------------------------------------

type timed struct {
	backend string
	next    Uploader
}

// Timed records upload latency under the backend label.
func Timed(backend string, next Uploader) Uploader { return &timed{backend: backend, next: next} }

func (t *timed) Upload(ctx context.Context, bucket, key string, data []byte) error {
	start := time.Now()
	err := t.next.Upload(ctx, bucket, key, data)
	metrics.UploadSeconds.WithLabelValues(t.backend).Observe(time.Since(start).Seconds())
	return err
}
