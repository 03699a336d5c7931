package app

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/plexsearch/chat-client/config"
	"github.com/plexsearch/chat-client/internal/client"
	"github.com/plexsearch/chat-client/internal/model"
	in_memory "github.com/plexsearch/chat-client/internal/storage/in-memory"
	key_value "github.com/plexsearch/chat-client/internal/storage/key-value"
	"github.com/plexsearch/chat-client/internal/usecase"
	"github.com/plexsearch/chat-client/pkg/local"
	"github.com/plexsearch/chat-client/pkg/notify"
	"github.com/plexsearch/chat-client/pkg/tokencount"
)

type Options struct {
	// ChatID resumes an existing chat; empty starts a new one.
	ChatID string
	// InitialMessage is sent as the first turn right after the
	// connection opens.
	InitialMessage string
	// OpenAIKey/OpenAIBaseURL, when set, are persisted as the custom
	// provider credentials before connecting.
	OpenAIKey     string
	OpenAIBaseURL string
}

type settingsStore interface {
	usecase.SettingsStorage
	SetCustomProviderCredentials(ctx context.Context, creds model.CustomProviderCredentials) error
}

func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	notifier := notify.NewLogNotifier(local.Language(cfg.Language), logger, os.Stderr)

	var settings settingsStore
	if cfg.Redis.Endpoint != "" {
		rdb := redis.NewClient(
			&redis.Options{
				Addr: cfg.Redis.Endpoint,
			},
		)
		settings = key_value.NewSettingsStorage(rdb)
	} else {
		logger.Info("no redis endpoint configured, settings will not survive restarts")
		settings = in_memory.NewSettingsStorage()
	}

	if opts.OpenAIKey != "" || opts.OpenAIBaseURL != "" {
		creds := model.CustomProviderCredentials{APIKey: opts.OpenAIKey, BaseURL: opts.OpenAIBaseURL}
		if err := settings.SetCustomProviderCredentials(ctx, creds); err != nil {
			return fmt.Errorf("failed to persist custom provider credentials: %w", err)
		}
	}

	searcher := client.NewSearcherClient(cfg.Searcher)

	var countTokens tokencount.CountFunc
	if counter, err := tokencount.NewCounter(cfg.History.TokenModel); err != nil {
		logger.Warn("token counter unavailable, history will not be trimmed", "error", err)
	} else {
		countTokens = counter.Count
	}

	chatID := opts.ChatID
	resume := chatID != ""
	if !resume {
		chatID = uuid.New().String()
	}
	session := usecase.NewSessionUsecase(chatID, model.FocusModeWebSearch, cfg.History.TokenBudget, countTokens)
	if resume {
		history := usecase.NewHistoryUsecase(
			usecase.HistoryUsecaseDeps{
				Transcripts: searcher,
				Session:     session,
			},
		)
		if err := history.Load(ctx, chatID); err != nil {
			return err
		}
		logger.Info("chat resumed", "chat_id", chatID, "messages", len(session.Messages()))
	} else {
		session.MarkLoaded()
	}

	conn := usecase.NewConnectionUsecase(
		usecase.ConnectionUsecaseDeps{
			Settings: settings,
			Catalog:  searcher,
			Probe:    client.OpenAIProbe{},
			Notifier: notifier,
		}, cfg.Connection, logger,
	)
	turn := usecase.NewTurnUsecase(
		usecase.TurnUsecaseDeps{
			Session:     session,
			Conn:        conn,
			Answers:     searcher,
			Suggestions: searcher,
			Notifier:    notifier,
		}, logger,
	)
	conn.SetFrameHandler(turn.HandleFrame)

	fatal := make(chan error, 1)
	err := conn.Open(
		ctx,
		func() { logger.Info("session ready", "chat_id", chatID) },
		func(err error) {
			select {
			case fatal <- err:
			default:
			}
		},
	)
	if err != nil {
		return err
	}
	defer func() {
		turn.Teardown()
		conn.Close()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	if opts.InitialMessage != "" {
		if err := turn.SendTurn(ctx, opts.InitialMessage); err == nil {
			printLatestAnswer(session)
		}
	}

	for {
		select {
		case err := <-fatal:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := turn.SendTurn(ctx, line); err != nil {
				// Already notified; a not-connected turn changes nothing.
				continue
			}
			printLatestAnswer(session)
		}
	}
}

func printLatestAnswer(session *usecase.SessionUsecase) {
	messages := session.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != model.RoleAssistant {
			continue
		}
		fmt.Println(messages[i].Content)
		return
	}
}
