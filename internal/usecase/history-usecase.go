package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/plexsearch/chat-client/internal/model"
)

// ErrEmptyTranscript marks a transcript that exists but has no messages.
// A resumed session must carry at least its first message, so this is a
// data-integrity fault, not a not-found.
var ErrEmptyTranscript = errors.New("transcript has no messages")

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, chatID string) (model.Transcript, error)
}

type HistoryUsecaseDeps struct {
	Transcripts TranscriptFetcher
	Session     *SessionUsecase
}

// HistoryUsecase reconstructs the session state of a resumed chat from the
// persisted transcript.
type HistoryUsecase struct {
	HistoryUsecaseDeps
}

func NewHistoryUsecase(deps HistoryUsecaseDeps) *HistoryUsecase {
	return &HistoryUsecase{HistoryUsecaseDeps: deps}
}

// Load fetches the transcript of chatID and hydrates the session store with
// it, merging each entry's metadata side-channel into the base record. The
// store is left untouched on any failure.
func (h *HistoryUsecase) Load(ctx context.Context, chatID string) error {
	transcript, err := h.Transcripts.FetchTranscript(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to fetch transcript of chat %s: %w", chatID, err)
	}
	if len(transcript.Messages) == 0 {
		return fmt.Errorf("chat %s: %w", chatID, ErrEmptyTranscript)
	}

	messages := make([]model.Message, 0, len(transcript.Messages))
	for _, entry := range transcript.Messages {
		msg := entry.Message
		if entry.Metadata != "" {
			if err := json.Unmarshal([]byte(entry.Metadata), &msg); err != nil {
				return fmt.Errorf("chat %s has malformed message metadata: %w", chatID, err)
			}
		}
		messages = append(messages, msg)
	}

	h.Session.ReplaceHistory(messages)
	h.Session.SetFocusMode(transcript.FocusMode)
	return nil
}
