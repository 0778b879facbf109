package services

import (
	"context"
	"fmt"

	"github.com/vaulty-app/vaulty/internal/core/domain"
	"github.com/vaulty-app/vaulty/internal/core/ports/driven"
	"github.com/vaulty-app/vaulty/internal/core/ports/driving"
)

// apiKeySetting is the app_settings key holding the Gemini credential.
const apiKeySetting = "gemini_api_key"

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages persisted application settings.
type SettingsService struct {
	settings driven.SettingsStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settings driven.SettingsStore) *SettingsService {
	return &SettingsService{settings: settings}
}

// SaveAPIKey stores the classification-service credential.
func (s *SettingsService) SaveAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrInvalidInput)
	}
	return s.settings.SetSetting(ctx, apiKeySetting, key)
}

// APIKey returns the stored credential, or domain.ErrNotFound.
func (s *SettingsService) APIKey(ctx context.Context) (string, error) {
	return s.settings.GetSetting(ctx, apiKeySetting)
}
