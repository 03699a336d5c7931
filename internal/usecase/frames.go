package usecase

import "encoding/json"

// Inbound frame type discriminators.
const (
	FrameTypeError   = "error"
	FrameTypeMessage = "message"
	FrameTypeSources = "sources"
)

// InboundFrame is one JSON frame read from the bidirectional channel.
type InboundFrame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	MessageID string          `json:"messageId,omitempty"`
}

// OutboundFrame is one JSON frame written to the channel.
type OutboundFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// FrameHandler receives every inbound frame that is not an error frame.
type FrameHandler func(frame InboundFrame)
