package usecase

import (
	"context"
	"errors"

	"github.com/plexsearch/chat-client/internal/model"
)

var (
	ErrNoChatModels               = errors.New("no chat models available")
	ErrNoEmbeddingModels          = errors.New("no embedding models available")
	ErrCustomProviderUnconfigured = errors.New("custom provider requires an API key and base URL")
)

// SettingsStorage is the client-local persisted settings the resolver
// validates prior choices against. A missing selection is the zero value,
// not an error.
type SettingsStorage interface {
	GetModelSelection(ctx context.Context) (model.ModelSelection, error)
	SetModelSelection(ctx context.Context, sel model.ModelSelection) error
	GetCustomProviderCredentials(ctx context.Context) (model.CustomProviderCredentials, error)
}

// Tuple field names reported in the changed list of ResolveModelSelection.
const (
	FieldChatModel              = "chatModel"
	FieldChatModelProvider      = "chatModelProvider"
	FieldEmbeddingModel         = "embeddingModel"
	FieldEmbeddingModelProvider = "embeddingModelProvider"
)

// ResolveModelSelection turns the server-advertised catalog plus the prior
// persisted selection into a complete selection. Missing choices default to
// the first provider/model in catalog order; choices absent from the catalog
// are replaced the same way. The returned changed list names every field
// that differs from prior; persisting it is the caller's job, which keeps
// resolution idempotent against an unchanged catalog and settings.
func ResolveModelSelection(catalog model.Catalog, prior model.ModelSelection) (model.ModelSelection, []string, error) {
	sel := prior

	if !sel.HasChatSelection() {
		if catalog.ChatModelProviders.Empty() {
			return model.ModelSelection{}, nil, ErrNoChatModels
		}
		provider := catalog.ChatModelProviders.FirstProvider()
		if provider == model.ProviderCustomOpenAI {
			// Deliberate dead-end: the custom provider cannot be a
			// silently applied default.
			return model.ModelSelection{}, nil, ErrCustomProviderUnconfigured
		}
		first, ok := catalog.ChatModelProviders.FirstModel(provider)
		if !ok {
			return model.ModelSelection{}, nil, ErrNoChatModels
		}
		sel.ChatModelProvider = provider
		sel.ChatModel = first
	} else {
		if !catalog.ChatModelProviders.Empty() && !catalog.ChatModelProviders.HasProvider(sel.ChatModelProvider) {
			sel.ChatModelProvider = catalog.ChatModelProviders.FirstProvider()
		}
		// Model membership cannot be checked for the custom provider,
		// its models are not server-advertised.
		if sel.ChatModelProvider != model.ProviderCustomOpenAI &&
			!catalog.ChatModelProviders.HasModel(sel.ChatModelProvider, sel.ChatModel) {
			if first, ok := catalog.ChatModelProviders.FirstModel(sel.ChatModelProvider); ok {
				sel.ChatModel = first
			}
		}
	}

	if !sel.HasEmbeddingSelection() {
		if catalog.EmbeddingModelProviders.Empty() {
			return model.ModelSelection{}, nil, ErrNoEmbeddingModels
		}
		provider := catalog.EmbeddingModelProviders.FirstProvider()
		first, ok := catalog.EmbeddingModelProviders.FirstModel(provider)
		if !ok {
			return model.ModelSelection{}, nil, ErrNoEmbeddingModels
		}
		sel.EmbeddingModelProvider = provider
		sel.EmbeddingModel = first
	} else {
		if !catalog.EmbeddingModelProviders.Empty() &&
			!catalog.EmbeddingModelProviders.HasProvider(sel.EmbeddingModelProvider) {
			sel.EmbeddingModelProvider = catalog.EmbeddingModelProviders.FirstProvider()
		}
		if !catalog.EmbeddingModelProviders.HasModel(sel.EmbeddingModelProvider, sel.EmbeddingModel) {
			if first, ok := catalog.EmbeddingModelProviders.FirstModel(sel.EmbeddingModelProvider); ok {
				sel.EmbeddingModel = first
			}
		}
	}

	return sel, changedFields(prior, sel), nil
}

func changedFields(prior, sel model.ModelSelection) []string {
	var changed []string
	if prior.ChatModel != sel.ChatModel {
		changed = append(changed, FieldChatModel)
	}
	if prior.ChatModelProvider != sel.ChatModelProvider {
		changed = append(changed, FieldChatModelProvider)
	}
	if prior.EmbeddingModel != sel.EmbeddingModel {
		changed = append(changed, FieldEmbeddingModel)
	}
	if prior.EmbeddingModelProvider != sel.EmbeddingModelProvider {
		changed = append(changed, FieldEmbeddingModelProvider)
	}
	return changed
}
