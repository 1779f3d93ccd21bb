package storage

import (
	"context"
	"sync"
)

// Object is one stored blob.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Data        []byte
}

// MemoryStore keeps objects in process.  Later uploads to the same key
// replace earlier ones.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

// Upload implements Uploader.
func (m *MemoryStore) Upload(ctx context.Context, bucket, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &UploadError{Bucket: bucket, Key: key, Err: err}
	}
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.objects[bucket+"/"+key] = Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType(data),
		Data:        cp,
	}
	m.mu.Unlock()
	return nil
}

// Get returns a stored object.
func (m *MemoryStore) Get(bucket, key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[bucket+"/"+key]
	return o, ok
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
