package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStore_Upload(t *testing.T) {
	data := []byte("\x89PNG\r\n\x1a\n")
	var got *http.Request
	var body []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"form-hook-zod-bucket/my avatar.png"}`))
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL+"/", "service-key", 5*time.Second)
	require.NoError(t, s.Upload(context.Background(), "form-hook-zod-bucket", "my avatar.png", data))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/storage/v1/object/form-hook-zod-bucket/my%20avatar.png", got.URL.EscapedPath())
	assert.Equal(t, "Bearer service-key", got.Header.Get("Authorization"))
	assert.Equal(t, "service-key", got.Header.Get("apikey"))
	assert.Equal(t, "false", got.Header.Get("x-upsert"))
	assert.Equal(t, "image/png", got.Header.Get("Content-Type"))
	assert.Equal(t, int64(len(data)), got.ContentLength)
	assert.Equal(t, data, body)
}

func TestHTTPStore_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	err := NewHTTPStore(srv.URL, "k", 0).Upload(context.Background(), "b", "me.png", []byte("x"))

	require.ErrorIs(t, err, ErrUploadFailed)
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusConflict, ue.Status)
	assert.Contains(t, ue.Error(), "already exists")
}

func TestHTTPStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPStore(url, "", time.Second).Upload(context.Background(), "b", "k", []byte("x"))
	assert.True(t, errors.Is(err, ErrUploadFailed))
}
