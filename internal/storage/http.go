// internal/storage/http.go
//
// Hosted object-store backend.
//
// Context
// -------
// The hosted backend exposes a REST object API:
//
//	POST {endpoint}/storage/v1/object/{bucket}/{key}
//	Authorization: Bearer {key}
//	apikey:        {key}
//	x-upsert:      false
//
// The body is the raw file.  Any non-2xx answer becomes an UploadError that
// carries the status and the first bytes of the response body.  No retries
// happen here; the caller decides what to do with the failure.
//
// Notes
// -----
// • The HTTP client comes from go-cleanhttp so no global transport state is
//   shared with other packages.
// • Oxford commas, two spaces after periods.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const bodyExcerpt = 512

// HTTPStore uploads to a hosted object store.
type HTTPStore struct {
	endpoint string
	key      string
	client   *http.Client
}

// NewHTTPStore returns a store for endpoint (scheme + host, optional base
// path).  timeout ≤ 0 leaves the client without a deadline; the request
// context still applies.
func NewHTTPStore(endpoint, key string, timeout time.Duration) *HTTPStore {
	c := cleanhttp.DefaultPooledClient()
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &HTTPStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		client:   c,
	}
}

// Upload implements Uploader.
func (s *HTTPStore) Upload(ctx context.Context, bucket, key string, data []byte) error {
	fail := func(status int, err error) error {
		return &UploadError{Bucket: bucket, Key: key, Status: status, Err: err}
	}

	target := s.endpoint + "/storage/v1/object/" + url.PathEscape(bucket) + "/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Content-Type", contentType(data))
	req.Header.Set("x-upsert", "false")
	if s.key != "" {
		req.Header.Set("Authorization", "Bearer "+s.key)
		req.Header.Set("apikey", s.key)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerpt))
	msg := strings.TrimSpace(string(excerpt))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fail(resp.StatusCode, errors.New(msg))
}

func (s *HTTPStore) String() string { return fmt.Sprintf("http(%s)", s.endpoint) }
