package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      = Role("user")
	RoleAssistant = Role("assistant")
)

// Source is a citation record attached to an assistant answer.
type Source struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Message is one turn unit in the session timeline. MessageID and Role are
// fixed at creation; Suggestions and Sources may be attached later by
// identifier match.
type Message struct {
	MessageID   string    `json:"messageId"`
	ChatID      string    `json:"chatId"`
	CreatedAt   time.Time `json:"createdAt"`
	Content     string    `json:"content"`
	Role        Role      `json:"role"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Sources     []Source  `json:"sources,omitempty"`
}

// HistoryPair is the (role, content) projection of a message, serialized on
// the wire as a two-element array.
type HistoryPair struct {
	Role    Role
	Content string
}

func (p HistoryPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{string(p.Role), p.Content})
}

func (p *HistoryPair) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to unmarshal history pair: %w", err)
	}
	p.Role = Role(pair[0])
	p.Content = pair[1]
	return nil
}
