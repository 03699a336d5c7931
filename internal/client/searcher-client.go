package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/plexsearch/chat-client/config"
	"github.com/plexsearch/chat-client/internal/model"
)

// ErrChatNotFound marks a transcript request for a chat the server does not
// know. The session cannot be resumed.
var ErrChatNotFound = errors.New("chat not found")

// SearcherClient talks to the searcher backend's HTTP endpoints: the model
// catalog, answer retrieval, suggestion generation, and transcripts.
type SearcherClient struct {
	cfg  config.Searcher
	http *http.Client
}

func NewSearcherClient(cfg config.Searcher) *SearcherClient {
	return &SearcherClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (c *SearcherClient) FetchCatalog(ctx context.Context) (model.Catalog, error) {
	var catalog model.Catalog
	if err := c.getJSON(ctx, c.cfg.APIURL+"/models", &catalog); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to fetch model catalog: %w", err)
	}
	return catalog, nil
}

func (c *SearcherClient) FetchAnswer(ctx context.Context, prompt string) ([]string, error) {
	reqBody := struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt}
	var respBody struct {
		Results []string `json:"results"`
	}
	if err := c.postJSON(ctx, c.answerURL(), reqBody, &respBody); err != nil {
		return nil, fmt.Errorf("failed to fetch answer: %w", err)
	}
	return respBody.Results, nil
}

func (c *SearcherClient) FetchSuggestions(
	ctx context.Context,
	history []model.HistoryPair,
	message string,
) ([]string, error) {
	reqBody := struct {
		ChatHistory []model.HistoryPair `json:"chatHistory"`
		Message     string              `json:"message"`
	}{ChatHistory: history, Message: message}
	var respBody struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.postJSON(ctx, c.cfg.APIURL+"/suggestions", reqBody, &respBody); err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	return respBody.Suggestions, nil
}

func (c *SearcherClient) FetchTranscript(ctx context.Context, chatID string) (model.Transcript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"/chats/"+chatID, nil)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to build transcript request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.Transcript{}, ErrChatNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return model.Transcript{}, fmt.Errorf("transcript request failed with status %d", resp.StatusCode)
	}

	var wire struct {
		Chat struct {
			FocusMode string `json:"focusMode"`
		} `json:"chat"`
		Messages []model.TranscriptMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return model.Transcript{}, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return model.Transcript{
		FocusMode: model.FocusMode(wire.Chat.FocusMode),
		Messages:  wire.Messages,
	}, nil
}

func (c *SearcherClient) answerURL() string {
	if c.cfg.AnswerURL != "" {
		return c.cfg.AnswerURL
	}
	return c.cfg.APIURL + "/search"
}

func (c *SearcherClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *SearcherClient) postJSON(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *SearcherClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
