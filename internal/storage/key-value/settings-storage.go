package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/plexsearch/chat-client/internal/model"
)

const (
	modelSelectionKey = "settings_model_selection"
	customOpenAIKey   = "settings_custom_openai"
)

type modelSelectionInternal struct {
	ChatModel              string `json:"chat_model"`
	ChatModelProvider      string `json:"chat_model_provider"`
	EmbeddingModel         string `json:"embedding_model"`
	EmbeddingModelProvider string `json:"embedding_model_provider"`
}

type credentialsInternal struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// SettingsStorage keeps the negotiated model selection and the custom
// provider credentials in Redis. Missing values come back as zero values,
// matching the client's "no prior choice" semantics.
type SettingsStorage struct {
	rdb *redis.Client
}

func NewSettingsStorage(rdb *redis.Client) *SettingsStorage {
	return &SettingsStorage{
		rdb: rdb,
	}
}

func (s *SettingsStorage) GetModelSelection(ctx context.Context) (model.ModelSelection, error) {
	raw, err := s.rdb.Get(ctx, modelSelectionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ModelSelection{}, nil
		}
		return model.ModelSelection{}, fmt.Errorf("failed to get model selection: %w", err)
	}
	var selInt modelSelectionInternal
	if err = json.Unmarshal([]byte(raw), &selInt); err != nil {
		return model.ModelSelection{}, fmt.Errorf("failed to unmarshal model selection: %w", err)
	}
	return model.ModelSelection{
		ChatModel:              selInt.ChatModel,
		ChatModelProvider:      selInt.ChatModelProvider,
		EmbeddingModel:         selInt.EmbeddingModel,
		EmbeddingModelProvider: selInt.EmbeddingModelProvider,
	}, nil
}

func (s *SettingsStorage) SetModelSelection(ctx context.Context, sel model.ModelSelection) error {
	selInt := modelSelectionInternal{
		ChatModel:              sel.ChatModel,
		ChatModelProvider:      sel.ChatModelProvider,
		EmbeddingModel:         sel.EmbeddingModel,
		EmbeddingModelProvider: sel.EmbeddingModelProvider,
	}
	selJSON, err := json.Marshal(selInt)
	if err != nil {
		return fmt.Errorf("failed to marshal model selection: %w", err)
	}
	if err = s.rdb.Set(ctx, modelSelectionKey, selJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save model selection: %w", err)
	}
	return nil
}

func (s *SettingsStorage) GetCustomProviderCredentials(ctx context.Context) (model.CustomProviderCredentials, error) {
	raw, err := s.rdb.Get(ctx, customOpenAIKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.CustomProviderCredentials{}, nil
		}
		return model.CustomProviderCredentials{}, fmt.Errorf("failed to get custom provider credentials: %w", err)
	}
	var credsInt credentialsInternal
	if err = json.Unmarshal([]byte(raw), &credsInt); err != nil {
		return model.CustomProviderCredentials{}, fmt.Errorf("failed to unmarshal custom provider credentials: %w", err)
	}
	return model.CustomProviderCredentials{
		APIKey:  credsInt.APIKey,
		BaseURL: credsInt.BaseURL,
	}, nil
}

func (s *SettingsStorage) SetCustomProviderCredentials(ctx context.Context, creds model.CustomProviderCredentials) error {
	credsJSON, err := json.Marshal(credentialsInternal{APIKey: creds.APIKey, BaseURL: creds.BaseURL})
	if err != nil {
		return fmt.Errorf("failed to marshal custom provider credentials: %w", err)
	}
	if err = s.rdb.Set(ctx, customOpenAIKey, credsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save custom provider credentials: %w", err)
	}
	return nil
}
