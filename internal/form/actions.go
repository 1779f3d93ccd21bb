// internal/form/actions.go
//
// Formhook – Forms subsystem: post-validation actions.
//
// Context
//   The only action a valid submission triggers is the avatar upload.  It
//   runs synchronously inside the request so the user learns about a storage
//   failure on the same page.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"

	"github.com/yanizio/formhook/internal/logger"
	"github.com/yanizio/formhook/internal/storage"
)

// ErrNoStore is returned when a Submitter has no backend.
var ErrNoStore = errors.New("form: no storage backend configured")

// runUpload stores the avatar at bucket/filename.  Errors are logged here
// and returned unchanged.
func (s *Submitter) runUpload(ctx context.Context, vf ValidatedForm) error {
	if s.Store == nil {
		logErr(ctx, "upload", ErrNoStore)
		return ErrNoStore
	}

	err := s.Store.Upload(ctx, s.bucket(), vf.Avatar.Name, vf.Avatar.Data)
	if err != nil {
		logErr(ctx, "upload", err)
		if !errors.Is(err, storage.ErrUploadFailed) {
			// Foreign Uploader implementations still surface as UploadFailed.
			err = &storage.UploadError{Bucket: s.bucket(), Key: vf.Avatar.Name, Err: err}
		}
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// Logging helpers
// -----------------------------------------------------------------------------

func logErr(ctx context.Context, action string, err error) {
	logger.FromContext(ctx).Errorw(
		"form action failed",
		"action", action, "error", err.Error(),
	)
}
