// internal/storage/sql.go
//
// SQL blob backend.
//
// Schema
//
//	CREATE TABLE storage_object (
//	    id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    bucket       VARCHAR(128)  NOT NULL,
//	    name         VARCHAR(512)  NOT NULL,
//	    content_type VARCHAR(128)  NOT NULL,
//	    size         INT UNSIGNED  NOT NULL,
//	    data         LONGBLOB      NOT NULL,
//	    created_at   TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Rows are appended; re-uploading a name stores another row.
package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore writes objects into storage_object.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLStore wraps an open pool.  The caller owns db.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Upload implements Uploader.
func (s *SQLStore) Upload(ctx context.Context, bucket, key string, data []byte) error {
	const q = `INSERT INTO storage_object (bucket, name, content_type, size, data, created_at)
	           VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		bucket, key, contentType(data), len(data), data, s.now().UTC())
	if err != nil {
		return &UploadError{Bucket: bucket, Key: key, Err: err}
	}
	return nil
}
