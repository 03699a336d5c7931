package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/plexsearch/chat-client/internal/model"
	"github.com/plexsearch/chat-client/pkg/notify"
)

// Transmitter is the open channel a turn is sent over.
type Transmitter interface {
	Ready() bool
	Send(v any) error
}

type AnswerFetcher interface {
	FetchAnswer(ctx context.Context, prompt string) ([]string, error)
}

type SuggestionFetcher interface {
	FetchSuggestions(ctx context.Context, history []model.HistoryPair, message string) ([]string, error)
}

type TurnUsecaseDeps struct {
	Session     *SessionUsecase
	Conn        Transmitter
	Answers     AnswerFetcher
	Suggestions SuggestionFetcher
	Notifier    notify.Notifier
}

// TurnUsecase drives one logical turn: optimistic local append, transmit,
// answer retrieval, and in suggestions mode a cancellable enrichment
// request of which at most one may be outstanding.
type TurnUsecase struct {
	TurnUsecaseDeps
	log   *slog.Logger
	now   func() time.Time
	newID func() string

	mu            sync.Mutex
	suggestGen    uint64
	cancelSuggest context.CancelFunc

	group conc.WaitGroup
}

func NewTurnUsecase(deps TurnUsecaseDeps, log *slog.Logger) *TurnUsecase {
	return &TurnUsecase{
		TurnUsecaseDeps: deps,
		log:             log,
		now:             time.Now,
		newID:           func() string { return uuid.New().String() },
	}
}

// SendTurn performs one turn. The connection must be Open; otherwise the
// user is notified, nothing is appended, and ErrNotConnected is returned.
// Failures past the optimistic append are absorbed: logged and notified,
// never propagated. The user's message stays on the timeline either way.
func (t *TurnUsecase) SendTurn(ctx context.Context, text string) error {
	if !t.Conn.Ready() {
		t.Notifier.Error(MsgNotConnected)
		return ErrNotConnected
	}

	userMsg := model.Message{
		MessageID: t.newID(),
		ChatID:    t.Session.ChatID(),
		CreatedAt: t.now(),
		Content:   text,
		Role:      model.RoleUser,
	}
	t.Session.Append(userMsg)

	if err := t.Conn.Send(OutboundFrame{Type: FrameTypeMessage, Data: userMsg}); err != nil {
		t.log.Warn("failed to transmit message", "message_id", userMsg.MessageID, "error", err)
		t.Notifier.Warn(MsgSendFailed)
		return nil
	}

	results, err := t.Answers.FetchAnswer(ctx, text)
	if err != nil {
		t.log.Warn("failed to fetch answer", "message_id", userMsg.MessageID, "error", err)
		t.Notifier.Warn(MsgAnswerFailed)
		return nil
	}
	t.Session.Append(model.Message{
		MessageID: t.newID(),
		ChatID:    userMsg.ChatID,
		CreatedAt: t.now(),
		Content:   strings.Join(results, "\n"),
		Role:      model.RoleAssistant,
	})

	if t.Session.FocusMode() == model.FocusModeSuggestions {
		t.requestSuggestions(userMsg.MessageID, text)
	}
	return nil
}

// requestSuggestions starts the enrichment request for a turn. A newer
// request cancels the in-flight one, and a completion whose generation was
// superseded is discarded without touching the timeline.
func (t *TurnUsecase) requestSuggestions(messageID, text string) {
	t.mu.Lock()
	if t.cancelSuggest != nil {
		t.cancelSuggest()
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancelSuggest = cancel
	t.suggestGen++
	gen := t.suggestGen
	t.mu.Unlock()

	history := t.Session.SnapshotHistoryPairs()
	t.group.Go(func() {
		suggestions, err := t.Suggestions.FetchSuggestions(ctx, history, text)

		t.mu.Lock()
		stale := gen != t.suggestGen
		t.mu.Unlock()

		if err != nil {
			if !errors.Is(err, context.Canceled) {
				t.log.Warn("failed to fetch suggestions", "message_id", messageID, "error", err)
				t.Notifier.Warn(MsgSuggestFailed)
			}
			return
		}
		if stale || len(suggestions) == 0 {
			return
		}
		t.Session.PatchByMessageID(messageID, MessagePatch{Suggestions: &suggestions})
	})
}

// HandleFrame merges non-error inbound frames into the timeline.
func (t *TurnUsecase) HandleFrame(frame InboundFrame) {
	switch frame.Type {
	case FrameTypeMessage:
		var msg model.Message
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			t.log.Warn("discarding malformed message frame", "error", err)
			return
		}
		t.Session.Append(msg)
	case FrameTypeSources:
		var sources []model.Source
		if err := json.Unmarshal(frame.Data, &sources); err != nil {
			t.log.Warn("discarding malformed sources frame", "error", err)
			return
		}
		t.Session.PatchByMessageID(frame.MessageID, MessagePatch{Sources: &sources})
	default:
		t.log.Debug("ignoring frame", "type", frame.Type)
	}
}

// Teardown invalidates any outstanding enrichment request so late
// completions are dropped, and waits for in-flight work to finish.
func (t *TurnUsecase) Teardown() {
	t.mu.Lock()
	if t.cancelSuggest != nil {
		t.cancelSuggest()
		t.cancelSuggest = nil
	}
	t.suggestGen++
	t.mu.Unlock()
	t.group.Wait()
}
