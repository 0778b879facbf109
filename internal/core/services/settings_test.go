package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaulty-app/vaulty/internal/core/domain"
)

// stubSettingsStore is a map-backed settings store.
type stubSettingsStore struct {
	values map[string]string
}

func (s *stubSettingsStore) SetSetting(_ context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

func (s *stubSettingsStore) GetSetting(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

func TestSettingsService_APIKeyRoundTrip(t *testing.T) {
	store := &stubSettingsStore{}
	svc := NewSettingsService(store)
	ctx := context.Background()

	_, err := svc.APIKey(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.SaveAPIKey(ctx, "secret"))

	key, err := svc.APIKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
}

func TestSettingsService_RejectsEmptyKey(t *testing.T) {
	svc := NewSettingsService(&stubSettingsStore{})

	err := svc.SaveAPIKey(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
