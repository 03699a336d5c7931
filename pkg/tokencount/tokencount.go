package tokencount

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// perMessageOverhead approximates the chat-format framing tokens that wrap
// every message sent to the model.
const perMessageOverhead = 4

// CountFunc counts the tokens of a set of message texts.
type CountFunc func(texts []string) (int, error)

type Counter struct {
	enc *tiktoken.Tiktoken
}

func NewCounter(model string) (*Counter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding for model %s: %w", model, err)
	}
	return &Counter{enc: enc}, nil
}

func (c *Counter) Count(texts []string) (int, error) {
	total := 0
	for _, text := range texts {
		total += len(c.enc.Encode(text, nil, nil)) + perMessageOverhead
	}
	return total, nil
}
