package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/plexsearch/chat-client/config"
	"github.com/plexsearch/chat-client/internal/client"
	"github.com/plexsearch/chat-client/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) *client.SearcherClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return client.NewSearcherClient(config.Searcher{
		APIURL:         server.URL,
		RequestTimeout: 5 * time.Second,
	})
}

func TestFetchCatalogPreservesServerOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{
			"chatModelProviders": {
				"zeta": {"z-1": {"displayName": "Z"}},
				"alpha": {"a-1": {}}
			},
			"embeddingModelProviders": {
				"alpha": {"embed-a": {}}
			}
		}`))
	}))

	catalog, err := c.FetchCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchCatalog failed: %v", err)
	}
	if got := catalog.ChatModelProviders.FirstProvider(); got != "zeta" {
		t.Fatalf("provider order lost, first = %q", got)
	}
	if !catalog.ChatModelProviders.HasModel("alpha", "a-1") {
		t.Fatalf("expected a-1 under alpha")
	}
}

func TestFetchAnswerPostsPrompt(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body failed: %v", err)
		}
		if body.Prompt != "what is go" {
			t.Errorf("unexpected prompt: %q", body.Prompt)
		}
		json.NewEncoder(w).Encode(map[string][]string{"results": {"a language"}})
	}))

	results, err := c.FetchAnswer(context.Background(), "what is go")
	if err != nil {
		t.Fatalf("FetchAnswer failed: %v", err)
	}
	if !reflect.DeepEqual(results, []string{"a language"}) {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestFetchSuggestionsSendsPairHistory(t *testing.T) {
	var rawBody json.RawMessage
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggestions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&rawBody); err != nil {
			t.Errorf("decoding request body failed: %v", err)
		}
		json.NewEncoder(w).Encode(map[string][]string{"suggestions": {"follow up"}})
	}))

	history := []model.HistoryPair{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	}
	suggestions, err := c.FetchSuggestions(context.Background(), history, "hi")
	if err != nil {
		t.Fatalf("FetchSuggestions failed: %v", err)
	}
	if !reflect.DeepEqual(suggestions, []string{"follow up"}) {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}

	var body struct {
		ChatHistory []json.RawMessage `json:"chatHistory"`
		Message     string            `json:"message"`
	}
	if err := json.Unmarshal(rawBody, &body); err != nil {
		t.Fatalf("unmarshaling recorded body failed: %v", err)
	}
	if body.Message != "hi" || len(body.ChatHistory) != 2 {
		t.Fatalf("unexpected request body: %s", rawBody)
	}
	if string(body.ChatHistory[0]) != `["user","hi"]` {
		t.Fatalf("history must be sent as role-content pairs, got %s", body.ChatHistory[0])
	}
}

func TestFetchTranscriptDecodesChatEnvelope(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chats/chat-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"chat": {"id": "chat-1", "focusMode": "webSearch"},
			"messages": [
				{"messageId": "m1", "chatId": "chat-1", "content": "hi", "role": "user",
				 "metadata": "{\"suggestions\":[\"x\"]}"}
			]
		}`))
	}))

	transcript, err := c.FetchTranscript(context.Background(), "chat-1")
	if err != nil {
		t.Fatalf("FetchTranscript failed: %v", err)
	}
	if transcript.FocusMode != model.FocusModeWebSearch {
		t.Fatalf("unexpected focus mode: %v", transcript.FocusMode)
	}
	if len(transcript.Messages) != 1 {
		t.Fatalf("unexpected messages: %+v", transcript.Messages)
	}
	entry := transcript.Messages[0]
	if entry.Content != "hi" || entry.Metadata != `{"suggestions":["x"]}` {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestFetchTranscriptNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchTranscript(context.Background(), "missing")
	if !errors.Is(err, client.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := c.FetchCatalog(context.Background()); err == nil {
		t.Fatalf("expected an error on status 500")
	}
}
