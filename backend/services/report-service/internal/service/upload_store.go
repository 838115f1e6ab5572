package service

import (
	"context"
	"sync"
	"time"

	"fcreport/backend/services/report-service/internal/models"
)

// UploadStore keeps uploads between requests.
type UploadStore interface {
	Save(ctx context.Context, upload models.Upload) error
	Get(ctx context.Context, id string) (*models.Upload, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the in-process UploadStore used when no redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	uploads map[string]memoryEntry
}

type memoryEntry struct {
	upload    models.Upload
	expiresAt time.Time
}

// NewMemoryStore returns a store whose entries expire after ttl; ttl <= 0 keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, uploads: make(map[string]memoryEntry)}
}

func (m *MemoryStore) Save(_ context.Context, upload models.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictLocked()
	entry := memoryEntry{upload: upload}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.uploads[upload.ID] = entry
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.uploads[id]
	if !ok || m.expired(entry) {
		delete(m.uploads, id)
		return nil, models.ErrUploadNotFound
	}
	upload := entry.upload
	return &upload, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.uploads, id)
	return nil
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

func (m *MemoryStore) evictLocked() {
	for id, e := range m.uploads {
		if m.expired(e) {
			delete(m.uploads, id)
		}
	}
}
