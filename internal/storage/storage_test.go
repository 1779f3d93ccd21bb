package storage

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/formhook/internal/config"
	"github.com/yanizio/formhook/internal/metrics"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	data := []byte("hello")
	require.NoError(t, m.Upload(context.Background(), "b", "k.txt", data))
	data[0] = 'j' // caller mutation must not leak in

	obj, ok := m.Get("b", "k.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(obj.Data))
	assert.Equal(t, "text/plain; charset=utf-8", obj.ContentType)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Upload(context.Background(), "b", "k.txt", []byte("again")))
	assert.Equal(t, 1, m.Len(), "same key replaces")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemoryStore().Upload(ctx, "b", "k", nil)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Backends(t *testing.T) {
	cfg := config.Defaults().Storage

	up, closeFn, err := New(context.Background(), cfg, "")
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	assert.NoError(t, closeFn())

	require.NoError(t, up.Upload(context.Background(), "b", "k", []byte("x")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.UploadSeconds), 1, "memory latency observed")

	cfg.Backend = "http"
	cfg.Endpoint = "https://example.supabase.co"
	up, _, err = New(context.Background(), cfg, "key")
	require.NoError(t, err)
	assert.NotNil(t, up)

	cfg.Backend = "ftp"
	_, closeFn, err = New(context.Background(), cfg, "")
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}

func TestUploadError_Message(t *testing.T) {
	e := &UploadError{Bucket: "b", Key: "k", Status: 500, Err: assert.AnError}
	assert.Contains(t, e.Error(), "status 500")
	assert.ErrorIs(t, e, ErrUploadFailed)
	assert.ErrorIs(t, e, assert.AnError)
}
