package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
)

// Ensure AssetStore implements the interface.
var _ driven.AssetStore = (*AssetStore)(nil)

// AssetStore is an in-memory implementation of driven.AssetStore.
// It records deletions so tests can assert on the sweep behaviour.
type AssetStore struct {
	mu      sync.Mutex
	files   map[string]string
	deleted []string
}

// NewAssetStore creates an empty in-memory asset store.
func NewAssetStore() *AssetStore {
	return &AssetStore{files: make(map[string]string)}
}

// Save stores the encoded payload under a generated reference.
func (s *AssetStore) Save(encoded string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := "images/" + uuid.NewString() + ".png"
	s.files[ref] = domain.StripDataURL(encoded)
	return ref, nil
}

// Read returns the stored payload as a data URL.
func (s *AssetStore) Read(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.files[ref]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrAssetNotFound, ref)
	}
	return domain.EncodePNG(data), nil
}

// Delete removes the asset; absence is not an error.
func (s *AssetStore) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, ref)
	s.deleted = append(s.deleted, ref)
	return nil
}

// Deleted returns every reference passed to Delete, in order.
func (s *AssetStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.deleted...)
}

// Len returns the number of stored assets.
func (s *AssetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.files)
}
