package client

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/plexsearch/chat-client/internal/model"
)

// OpenAIProbe checks custom-provider credentials by listing models against
// the OpenAI-compatible base URL.
type OpenAIProbe struct{}

func (OpenAIProbe) ProbeCredentials(ctx context.Context, creds model.CustomProviderCredentials) error {
	clientConfig := openai.DefaultConfig(creds.APIKey)
	clientConfig.BaseURL = creds.BaseURL
	c := openai.NewClientWithConfig(clientConfig)

	if _, err := c.ListModels(ctx); err != nil {
		return fmt.Errorf("failed to list models at %s: %w", creds.BaseURL, err)
	}
	return nil
}
