package in_memory

import (
	"context"
	"sync"

	"github.com/plexsearch/chat-client/internal/model"
)

// SettingsStorage is the in-memory twin of the key-value settings storage,
// used when no Redis endpoint is configured and in tests.
type SettingsStorage struct {
	mu        sync.RWMutex
	selection model.ModelSelection
	creds     model.CustomProviderCredentials
}

func NewSettingsStorage() *SettingsStorage {
	return &SettingsStorage{}
}

func (s *SettingsStorage) GetModelSelection(_ context.Context) (model.ModelSelection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection, nil
}

func (s *SettingsStorage) SetModelSelection(_ context.Context, sel model.ModelSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
	return nil
}

func (s *SettingsStorage) GetCustomProviderCredentials(_ context.Context) (model.CustomProviderCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, nil
}

func (s *SettingsStorage) SetCustomProviderCredentials(_ context.Context, creds model.CustomProviderCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}
