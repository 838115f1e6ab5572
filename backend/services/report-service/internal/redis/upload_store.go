package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fcreport/backend/services/report-service/internal/models"
)

// Store keeps uploads in redis until their TTL runs out.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("reports:uploads:%s", id)
}

// Save stores the upload, replacing any earlier one with the same ID.
func (s *Store) Save(ctx context.Context, upload models.Upload) error {
	data, err := json.Marshal(upload)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(upload.ID), data, s.ttl).Err()
}

// Get returns the upload or models.ErrUploadNotFound once it expired.
func (s *Store) Get(ctx context.Context, id string) (*models.Upload, error) {
	result, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	var upload models.Upload
	if err := json.Unmarshal(result, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}

// Delete removes the upload. Deleting an unknown upload is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
