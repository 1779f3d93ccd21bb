// Package metrics holds the Prometheus instruments used by the submit
// pipeline and the storage backends.  All collectors are registered with the
// global registry, so mounting promhttp.Handler() in main.go exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes.
const (
	OutcomeValid        = "valid"
	OutcomeInvalid      = "invalid"
	OutcomeUploadFailed = "upload_failed"
	OutcomeError        = "error"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formhook_submissions_total",
			Help: "Form submissions by outcome.",
		}, []string{"outcome"})

	ValidationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formhook_validation_errors_total",
			Help: "Field validation failures by root field and error kind.",
		}, []string{"field", "kind"})

	AvatarBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "formhook_avatar_bytes",
			Help:    "Size of accepted avatar payloads.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1 KiB … 16 MiB
		})

	UploadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formhook_upload_seconds",
			Help:    "Latency of avatar uploads by storage backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		ValidationErrorsTotal,
		AvatarBytes,
		UploadSeconds,
	)
}
