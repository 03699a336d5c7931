package model

// ProviderCustomOpenAI is the provider sentinel that requires externally
// supplied credentials instead of server-managed defaults.
const ProviderCustomOpenAI = "custom_openai"

// ModelSelection is the negotiated configuration tuple. All four fields must
// be non-empty before a connection attempt is made.
type ModelSelection struct {
	ChatModel              string `json:"chat_model"`
	ChatModelProvider      string `json:"chat_model_provider"`
	EmbeddingModel         string `json:"embedding_model"`
	EmbeddingModelProvider string `json:"embedding_model_provider"`
}

func (s ModelSelection) HasChatSelection() bool {
	return s.ChatModel != "" && s.ChatModelProvider != ""
}

func (s ModelSelection) HasEmbeddingSelection() bool {
	return s.EmbeddingModel != "" && s.EmbeddingModelProvider != ""
}

func (s ModelSelection) Complete() bool {
	return s.HasChatSelection() && s.HasEmbeddingSelection()
}

// CustomProviderCredentials are the locally stored credentials for the
// custom_openai provider.
type CustomProviderCredentials struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

func (c CustomProviderCredentials) Complete() bool {
	return c.APIKey != "" && c.BaseURL != ""
}
