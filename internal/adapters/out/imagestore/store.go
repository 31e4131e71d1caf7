// Package imagestore provides the in-memory asset catalog mapping generated
// portrait image ids to their storage keys. The real catalog lives in the
// generation pipeline's database; this adapter mirrors the subset the
// fulfillment subsystem needs and is safe for concurrent use.
package imagestore

import (
	"context"
	"fmt"
	"sync"

	"pawtraits/internal/core/domain/model/kernel"
	"pawtraits/internal/pkg/errs"
)

// InMemoryImageStore resolves image ids to storage keys from a process-local
// map. Entries are registered by the ingestion side when generated portraits
// become available for fulfillment.
type InMemoryImageStore struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewInMemoryImageStore creates an empty image catalog.
func NewInMemoryImageStore() *InMemoryImageStore {
	return &InMemoryImageStore{
		keys: make(map[string]string),
	}
}

// Register maps an image id to its storage key, replacing any previous entry.
func (s *InMemoryImageStore) Register(imageID kernel.UUID, storageKey string) error {
	if err := imageID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("imageID", err)
	}
	if storageKey == "" {
		return errs.NewValueIsRequiredError("storageKey")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[imageID.String()] = storageKey

	return nil
}

// StorageKey returns the storage reference for an image.
// Returns an errs.ObjectNotFoundError-wrapped error when the image is unknown.
func (s *InMemoryImageStore) StorageKey(_ context.Context, imageID kernel.UUID) (string, error) {
	if err := imageID.Validate(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[imageID.String()]
	if !ok {
		return "", errs.NewObjectNotFoundError("image", imageID.String())
	}

	return key, nil
}

// Len reports the number of registered images.
func (s *InMemoryImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// DefaultStorageKey builds the conventional storage key for a generated
// portrait, used when seeding the catalog.
func DefaultStorageKey(imageID kernel.UUID) string {
	return fmt.Sprintf("portraits/%s.png", imageID.String())
}
