package model_test

import (
	"encoding/json"
	"testing"

	"github.com/plexsearch/chat-client/internal/model"
)

func TestCatalogUnmarshalPreservesOrder(t *testing.T) {
	raw := []byte(`{
		"chatModelProviders": {
			"zeta": {"z-large": {"displayName": "Z Large"}, "z-small": {}},
			"alpha": {"a-1": {}}
		},
		"embeddingModelProviders": {
			"alpha": {"embed-a": {}}
		}
	}`)

	var catalog model.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got := catalog.ChatModelProviders.FirstProvider(); got != "zeta" {
		t.Fatalf("expected first provider zeta, got %q", got)
	}
	first, ok := catalog.ChatModelProviders.FirstModel("zeta")
	if !ok || first != "z-large" {
		t.Fatalf("expected first model z-large, got %q (ok=%v)", first, ok)
	}
	if !catalog.ChatModelProviders.HasModel("zeta", "z-small") {
		t.Fatalf("expected z-small under zeta")
	}
	if catalog.ChatModelProviders.HasModel("alpha", "z-small") {
		t.Fatalf("z-small must not appear under alpha")
	}
	if got := catalog.EmbeddingModelProviders.FirstProvider(); got != "alpha" {
		t.Fatalf("expected embedding provider alpha, got %q", got)
	}
}

func TestCatalogUnmarshalSkipsNestedValues(t *testing.T) {
	raw := []byte(`{"p": {"m": {"meta": {"tags": ["a", {"x": 1}]}}}}`)

	var providers model.ProviderCatalog
	if err := json.Unmarshal(raw, &providers); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !providers.HasModel("p", "m") {
		t.Fatalf("expected model m under provider p")
	}
}

func TestCatalogMarshalRoundTrip(t *testing.T) {
	original := model.NewProviderCatalog(
		[]string{"b", "a"},
		map[string][]string{"b": {"b-2", "b-1"}, "a": {"a-1"}},
	)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded model.ProviderCatalog
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := decoded.FirstProvider(); got != "b" {
		t.Fatalf("expected first provider b after round trip, got %q", got)
	}
	first, ok := decoded.FirstModel("b")
	if !ok || first != "b-2" {
		t.Fatalf("expected first model b-2 after round trip, got %q", first)
	}
}

func TestHistoryPairJSON(t *testing.T) {
	pair := model.HistoryPair{Role: model.RoleUser, Content: "hello"}

	data, err := json.Marshal(pair)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `["user","hello"]` {
		t.Fatalf("unexpected wire form: %s", data)
	}

	var decoded model.HistoryPair
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != pair {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
