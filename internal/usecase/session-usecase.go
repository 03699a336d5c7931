package usecase

import (
	"sync"

	"github.com/plexsearch/chat-client/internal/model"
	"github.com/plexsearch/chat-client/pkg/tokencount"
)

// MessagePatch is a field-level partial update of an existing message.
// Only non-nil fields are applied, so concurrent patches of unrelated
// fields never overwrite each other.
type MessagePatch struct {
	Suggestions *[]string
	Sources     *[]model.Source
}

// SessionUsecase is the session state store: the ordered message timeline
// plus the focus mode and readiness flags. All operations serialize on one
// mutex; completions arriving out of order merge by message identifier,
// never by position.
type SessionUsecase struct {
	mu             sync.RWMutex
	chatID         string
	focusMode      model.FocusMode
	messages       []model.Message
	messagesLoaded bool

	tokenBudget int
	countTokens tokencount.CountFunc
}

func NewSessionUsecase(
	chatID string,
	focusMode model.FocusMode,
	tokenBudget int,
	countTokens tokencount.CountFunc,
) *SessionUsecase {
	return &SessionUsecase{
		chatID:      chatID,
		focusMode:   focusMode,
		tokenBudget: tokenBudget,
		countTokens: countTokens,
	}
}

func (s *SessionUsecase) ChatID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatID
}

func (s *SessionUsecase) FocusMode() model.FocusMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focusMode
}

func (s *SessionUsecase) SetFocusMode(mode model.FocusMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focusMode = mode
}

func (s *SessionUsecase) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messagesLoaded
}

func (s *SessionUsecase) MarkLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messagesLoaded = true
}

// Append adds a message to the end of the timeline.
func (s *SessionUsecase) Append(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// PatchByMessageID applies a partial update to the message with the given
// identifier. Unknown identifiers are a silent no-op.
func (s *SessionUsecase) PatchByMessageID(id string, patch MessagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].MessageID != id {
			continue
		}
		if patch.Suggestions != nil {
			s.messages[i].Suggestions = append([]string(nil), (*patch.Suggestions)...)
		}
		if patch.Sources != nil {
			s.messages[i].Sources = append([]model.Source(nil), (*patch.Sources)...)
		}
		return
	}
}

// ReplaceHistory swaps in a loaded transcript and marks the session loaded.
func (s *SessionUsecase) ReplaceHistory(messages []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]model.Message(nil), messages...)
	s.messagesLoaded = true
}

// Messages returns a copy of the timeline in append order.
func (s *SessionUsecase) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Message(nil), s.messages...)
}

// SnapshotHistoryPairs projects the timeline to ordered (role, content)
// pairs, trimmed oldest-first to the token budget. The most recent pair is
// always kept. A budget of zero disables trimming.
func (s *SessionUsecase) SnapshotHistoryPairs() []model.HistoryPair {
	s.mu.RLock()
	pairs := make([]model.HistoryPair, 0, len(s.messages))
	for _, msg := range s.messages {
		pairs = append(pairs, model.HistoryPair{Role: msg.Role, Content: msg.Content})
	}
	budget := s.tokenBudget
	countTokens := s.countTokens
	s.mu.RUnlock()

	if budget <= 0 || countTokens == nil {
		return pairs
	}
	for len(pairs) > 1 {
		texts := make([]string, 0, len(pairs))
		for _, pair := range pairs {
			texts = append(texts, pair.Content)
		}
		total, err := countTokens(texts)
		if err != nil {
			return pairs
		}
		if total <= budget {
			break
		}
		pairs = pairs[1:]
	}
	return pairs
}
