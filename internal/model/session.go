package model

type FocusMode string

const (
	// FocusModeWebSearch is the default mode for a new session.
	FocusModeWebSearch = FocusMode("webSearch")
	// FocusModeSuggestions additionally requests follow-up suggestions
	// after every turn.
	FocusModeSuggestions = FocusMode("suggestions")
)

type ConnState string

const (
	ConnStateIdle       = ConnState("idle")
	ConnStateConnecting = ConnState("connecting")
	ConnStateOpen       = ConnState("open")
	ConnStateClosed     = ConnState("closed")
	ConnStateErrored    = ConnState("errored")
)

// Terminal reports whether the connection can never become Open again.
// Recovery requires a brand-new connection instance.
func (s ConnState) Terminal() bool {
	return s == ConnStateClosed || s == ConnStateErrored
}

// Transcript is a persisted chat as returned by the transcript endpoint.
type Transcript struct {
	FocusMode FocusMode
	Messages  []TranscriptMessage
}

// TranscriptMessage carries a base message plus the serialized side-channel
// of extra fields (suggestions, sources) stored next to it.
type TranscriptMessage struct {
	Message
	Metadata string `json:"metadata"`
}
