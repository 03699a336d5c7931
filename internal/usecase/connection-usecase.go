package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/plexsearch/chat-client/config"
	"github.com/plexsearch/chat-client/internal/model"
	"github.com/plexsearch/chat-client/pkg/local"
	"github.com/plexsearch/chat-client/pkg/notify"
)

var (
	ErrNotConnected     = errors.New("connection is not open")
	ErrConnectionClosed = errors.New("connection reached a terminal state")
)

// WSConn is the subset of a WebSocket connection the supervisor drives.
// *websocket.Conn satisfies it.
type WSConn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

type DialFunc func(ctx context.Context, rawURL string) (WSConn, error)

func gorillaDial(ctx context.Context, rawURL string) (WSConn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type CatalogFetcher interface {
	FetchCatalog(ctx context.Context) (model.Catalog, error)
}

// CredentialProbe verifies custom-provider credentials against the
// configured base URL before any connection attempt.
type CredentialProbe interface {
	ProbeCredentials(ctx context.Context, creds model.CustomProviderCredentials) error
}

type ConnectionUsecaseDeps struct {
	Settings SettingsStorage
	Catalog  CatalogFetcher
	Probe    CredentialProbe
	Notifier notify.Notifier
	// Dial is optional; the default dials with gorilla/websocket.
	Dial DialFunc
}

// ConnectionUsecase owns one connection instance and drives it through
// Idle -> Connecting -> Open -> (Closed | Errored). Terminal states stay
// terminal; retrying takes a new instance.
type ConnectionUsecase struct {
	ConnectionUsecaseDeps
	cfg config.Connection
	log *slog.Logger

	mu        sync.Mutex
	state     model.ConnState
	conn      WSConn
	onFrame   FrameHandler
	onFatal   func(error)
	fatalSent bool

	group conc.WaitGroup
}

func NewConnectionUsecase(deps ConnectionUsecaseDeps, cfg config.Connection, log *slog.Logger) *ConnectionUsecase {
	if deps.Dial == nil {
		deps.Dial = gorillaDial
	}
	return &ConnectionUsecase{
		ConnectionUsecaseDeps: deps,
		cfg:                   cfg,
		log:                   log,
		state:                 model.ConnStateIdle,
	}
}

// SetFrameHandler registers the receiver of non-error inbound frames.
// Must be called before Open.
func (c *ConnectionUsecase) SetFrameHandler(handler FrameHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFrame = handler
}

func (c *ConnectionUsecase) State() model.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready reports whether the connection is Open.
func (c *ConnectionUsecase) Ready() bool {
	return c.State() == model.ConnStateOpen
}

// Open resolves the model selection, persists any replacements, and dials
// the channel with the selection encoded as query parameters. Calling it
// while the connection is Connecting or Open is a no-op. Resolution
// failures invoke onFatal without any connection attempt. The connect
// timeout only warns; the attempt may still succeed afterward.
func (c *ConnectionUsecase) Open(ctx context.Context, onReady func(), onFatal func(error)) error {
	c.mu.Lock()
	switch c.state {
	case model.ConnStateConnecting, model.ConnStateOpen:
		c.mu.Unlock()
		return nil
	case model.ConnStateClosed, model.ConnStateErrored:
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	c.state = model.ConnStateConnecting
	c.onFatal = onFatal
	c.mu.Unlock()

	sel, err := c.resolveSelection(ctx)
	if err != nil {
		c.fail(err, configurationMessage(err))
		return err
	}

	var creds model.CustomProviderCredentials
	if sel.ChatModelProvider == model.ProviderCustomOpenAI {
		creds, err = c.customCredentials(ctx)
		if err != nil {
			c.fail(err, MsgCustomProviderUnconfigured)
			return err
		}
	}

	wsURL, err := buildChannelURL(c.cfg.WSURL, sel, creds)
	if err != nil {
		err = fmt.Errorf("failed to build channel URL: %w", err)
		c.fail(err, MsgConnectionError)
		return err
	}

	timer := time.AfterFunc(c.cfg.ConnectTimeout, func() {
		if c.State() != model.ConnStateOpen {
			c.Notifier.Warn(MsgConnectTimeout)
		}
	})
	conn, err := c.Dial(ctx, wsURL)
	timer.Stop()
	if err != nil {
		err = fmt.Errorf("failed to open connection: %w", err)
		c.fail(err, MsgConnectionError)
		return err
	}

	c.mu.Lock()
	if c.state != model.ConnStateConnecting {
		c.mu.Unlock()
		conn.Close()
		return ErrConnectionClosed
	}
	c.conn = conn
	c.state = model.ConnStateOpen
	c.mu.Unlock()

	c.log.Info("connection opened",
		"chat_model", sel.ChatModel,
		"chat_model_provider", sel.ChatModelProvider,
	)
	if onReady != nil {
		onReady()
	}
	c.group.Go(func() { c.readLoop(conn) })
	return nil
}

// Send writes one frame; the connection must be Open.
func (c *ConnectionUsecase) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != model.ConnStateOpen {
		return ErrNotConnected
	}
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close releases an Open connection explicitly and waits for the read loop
// to drain. Idempotent.
func (c *ConnectionUsecase) Close() {
	c.mu.Lock()
	if c.state != model.ConnStateOpen {
		c.mu.Unlock()
		return
	}
	c.state = model.ConnStateClosed
	conn := c.conn
	c.mu.Unlock()

	if err := conn.Close(); err != nil {
		c.log.Warn("failed to close connection", "error", err)
	}
	c.group.Wait()
	c.log.Info("connection closed")
}

func (c *ConnectionUsecase) resolveSelection(ctx context.Context) (model.ModelSelection, error) {
	catalog, err := c.Catalog.FetchCatalog(ctx)
	if err != nil {
		return model.ModelSelection{}, fmt.Errorf("failed to fetch model catalog: %w", err)
	}
	prior, err := c.Settings.GetModelSelection(ctx)
	if err != nil {
		return model.ModelSelection{}, fmt.Errorf("failed to read persisted model selection: %w", err)
	}
	sel, changed, err := ResolveModelSelection(catalog, prior)
	if err != nil {
		return model.ModelSelection{}, err
	}
	if len(changed) > 0 {
		if err := c.Settings.SetModelSelection(ctx, sel); err != nil {
			return model.ModelSelection{}, fmt.Errorf("failed to persist model selection: %w", err)
		}
		c.log.Info("model selection updated", "fields", changed)
	}
	return sel, nil
}

func (c *ConnectionUsecase) customCredentials(ctx context.Context) (model.CustomProviderCredentials, error) {
	creds, err := c.Settings.GetCustomProviderCredentials(ctx)
	if err != nil {
		return model.CustomProviderCredentials{}, fmt.Errorf("failed to read custom provider credentials: %w", err)
	}
	if !creds.Complete() {
		return model.CustomProviderCredentials{}, ErrCustomProviderUnconfigured
	}
	if c.Probe != nil {
		if err := c.Probe.ProbeCredentials(ctx, creds); err != nil {
			return model.CustomProviderCredentials{}, fmt.Errorf("%w: %v", ErrCustomProviderUnconfigured, err)
		}
	}
	return creds, nil
}

func (c *ConnectionUsecase) readLoop(conn WSConn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(err)
			return
		}
		c.dispatchFrame(data)
	}
}

func (c *ConnectionUsecase) dispatchFrame(data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.log.Warn("discarding malformed frame", "error", err)
		return
	}
	if frame.Type == FrameTypeError {
		var text string
		if err := json.Unmarshal(frame.Data, &text); err != nil {
			text = string(frame.Data)
		}
		c.Notifier.Warn(MsgServerReported, text)
		return
	}
	c.mu.Lock()
	handler := c.onFrame
	c.mu.Unlock()
	if handler != nil {
		handler(frame)
	}
}

func (c *ConnectionUsecase) handleDisconnect(err error) {
	c.mu.Lock()
	if c.state == model.ConnStateClosed {
		// Explicit release, not a failure.
		c.mu.Unlock()
		return
	}
	c.state = model.ConnStateErrored
	onFatal := c.takeFatal()
	c.mu.Unlock()

	c.log.Error("connection lost", "error", err)
	c.Notifier.Error(MsgConnectionLost)
	if onFatal != nil {
		onFatal(fmt.Errorf("connection closed unexpectedly: %w", err))
	}
}

// fail moves the connection to Errored, notifies the user, and reports the
// fatal error to the owner exactly once.
func (c *ConnectionUsecase) fail(err error, msg local.TextSet) {
	c.mu.Lock()
	c.state = model.ConnStateErrored
	onFatal := c.takeFatal()
	c.mu.Unlock()

	c.log.Error("connection failed", "error", err)
	c.Notifier.Error(msg)
	if onFatal != nil {
		onFatal(err)
	}
}

// configurationMessage maps a resolution error to its user-visible text.
func configurationMessage(err error) local.TextSet {
	switch {
	case errors.Is(err, ErrCustomProviderUnconfigured):
		return MsgCustomProviderUnconfigured
	case errors.Is(err, ErrNoChatModels):
		return MsgNoChatModels
	case errors.Is(err, ErrNoEmbeddingModels):
		return MsgNoEmbeddingModels
	default:
		return MsgConnectionError
	}
}

// takeFatal hands out the fatal callback at most once. Callers must hold mu.
func (c *ConnectionUsecase) takeFatal() func(error) {
	if c.fatalSent {
		return nil
	}
	c.fatalSent = true
	return c.onFatal
}

func buildChannelURL(rawURL string, sel model.ModelSelection, creds model.CustomProviderCredentials) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("chatModel", sel.ChatModel)
	q.Set("chatModelProvider", sel.ChatModelProvider)
	if sel.ChatModelProvider == model.ProviderCustomOpenAI {
		q.Set("openAIApiKey", creds.APIKey)
		q.Set("openAIBaseURL", creds.BaseURL)
	}
	q.Set("embeddingModel", sel.EmbeddingModel)
	q.Set("embeddingModelProvider", sel.EmbeddingModelProvider)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
