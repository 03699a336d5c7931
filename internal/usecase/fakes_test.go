package usecase_test

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/plexsearch/chat-client/pkg/local"
)

type fakeNotifier struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (n *fakeNotifier) Warn(msg local.TextSet, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, render(msg, args...))
}

func (n *fakeNotifier) Error(msg local.TextSet, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, render(msg, args...))
}

func (n *fakeNotifier) Warnings() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.warns...)
}

func (n *fakeNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func render(msg local.TextSet, args ...any) string {
	if len(args) == 0 {
		return msg.Text(local.Eng)
	}
	return msg.Format(local.Eng, args...)
}

// fakeConn scripts inbound frames through a channel and records outbound
// writes.
type fakeConn struct {
	inbound chan []byte

	mu        sync.Mutex
	written   []any
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data, ok := <-c.inbound:
		if !ok {
			return 0, nil, errors.New("connection reset by peer")
		}
		return 1, data, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) pushFrame(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	c.inbound <- data
}

func (c *fakeConn) Written() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.written...)
}
