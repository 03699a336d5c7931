package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Catalog is the server-advertised capability catalog: provider -> supported
// model identifiers, per capability class.
type Catalog struct {
	ChatModelProviders      ProviderCatalog `json:"chatModelProviders"`
	EmbeddingModelProviders ProviderCatalog `json:"embeddingModelProviders"`
}

// ProviderCatalog preserves the server's advertisement order. Defaulting
// picks the first provider and the first model as advertised, so the JSON
// object key order must survive unmarshaling.
type ProviderCatalog struct {
	providers []catalogProvider
}

type catalogProvider struct {
	name   string
	models []string
}

func NewProviderCatalog(providers []string, models map[string][]string) ProviderCatalog {
	c := ProviderCatalog{}
	for _, name := range providers {
		c.providers = append(c.providers, catalogProvider{name: name, models: models[name]})
	}
	return c
}

func (c ProviderCatalog) Empty() bool {
	return len(c.providers) == 0
}

func (c ProviderCatalog) FirstProvider() string {
	if len(c.providers) == 0 {
		return ""
	}
	return c.providers[0].name
}

func (c ProviderCatalog) HasProvider(name string) bool {
	for _, p := range c.providers {
		if p.name == name {
			return true
		}
	}
	return false
}

func (c ProviderCatalog) HasModel(provider, model string) bool {
	for _, p := range c.providers {
		if p.name != provider {
			continue
		}
		for _, m := range p.models {
			if m == model {
				return true
			}
		}
	}
	return false
}

func (c ProviderCatalog) FirstModel(provider string) (string, bool) {
	for _, p := range c.providers {
		if p.name == provider && len(p.models) > 0 {
			return p.models[0], true
		}
	}
	return "", false
}

func (c ProviderCatalog) Models(provider string) []string {
	for _, p := range c.providers {
		if p.name == provider {
			return append([]string(nil), p.models...)
		}
	}
	return nil
}

func (c ProviderCatalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range c.providers {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(":{")
		for j, m := range p.models {
			if j > 0 {
				buf.WriteByte(',')
			}
			mn, err := json.Marshal(m)
			if err != nil {
				return nil, err
			}
			buf.Write(mn)
			buf.WriteString(":{}")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *ProviderCatalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("failed to unmarshal provider catalog: %w", err)
	}
	c.providers = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to unmarshal provider catalog: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return errors.New("provider catalog: expected provider name")
		}
		models, err := decodeOrderedKeys(dec)
		if err != nil {
			return fmt.Errorf("failed to unmarshal models of provider %s: %w", name, err)
		}
		c.providers = append(c.providers, catalogProvider{name: name, models: models})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to unmarshal provider catalog: %w", err)
	}
	return nil
}

// decodeOrderedKeys consumes one JSON object and returns its keys in
// appearance order, discarding the values.
func decodeOrderedKeys(dec *json.Decoder) ([]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("expected object key")
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return keys, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	return nil
}
