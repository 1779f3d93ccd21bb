// internal/form/submit.go
//
// Formhook – Forms subsystem: consolidated Submit helper.
//
// Context
//   Handlers and the CLI want one call that validates input, uploads the
//   avatar, and returns the clean record or a typed error.  Submitter
//   provides that so callers stay terse.
//
// Errors
//   •  *ValidationError       – user input; re-render the form.
//   •  storage.ErrUploadFailed – backend refused or was unreachable.
//   •  anything else           – reading the avatar failed.
//
//   Nothing is retried here.  Resubmitting is the caller's decision.
//
//------------------------------------------------------------------------------

package form

import (
	"context"

	"github.com/yanizio/formhook/internal/logger"
	"github.com/yanizio/formhook/internal/metrics"
	"github.com/yanizio/formhook/internal/storage"
)

// Submitter validates submissions and hands valid avatars to Store.
type Submitter struct {
	Store  storage.Uploader
	Bucket string // DefaultBucket when empty
}

// NewSubmitter returns a Submitter for store and bucket.
func NewSubmitter(store storage.Uploader, bucket string) *Submitter {
	return &Submitter{Store: store, Bucket: bucket}
}

// Submit validates raw and, on success, uploads the avatar under its own
// filename.  The ValidatedForm is returned even when the upload fails so the
// caller can re-render what the user entered.
func (s *Submitter) Submit(ctx context.Context, raw SubmittedForm) (ValidatedForm, error) {
	log := logger.FromContext(ctx)

	vf, err := Validate(raw)
	if err != nil {
		if errs := ErrorsOf(err); errs != nil {
			countFieldErrors(errs)
			metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			log.Infow("form submission invalid", "fields", errs.Paths())
			return ValidatedForm{}, err
		}
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		log.Errorw("form submission failed", "err", err)
		return ValidatedForm{}, err
	}

	if err := s.runUpload(ctx, vf); err != nil {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeUploadFailed).Inc()
		return vf, err
	}

	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeValid).Inc()
	metrics.AvatarBytes.Observe(float64(vf.Avatar.Size))
	log.Infow("form submission accepted",
		"name", vf.Name,
		"techs", len(vf.Techs),
		"avatar", vf.Avatar.Name,
		"avatar_bytes", vf.Avatar.Size,
	)
	return vf, nil
}

func (s *Submitter) bucket() string {
	if s.Bucket == "" {
		return DefaultBucket
	}
	return s.Bucket
}

func countFieldErrors(errs ErrorSet) {
	for _, fe := range errs {
		metrics.ValidationErrorsTotal.WithLabelValues(rootField(fe.Path), fe.Kind.String()).Inc()
	}
}
