package notify

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/plexsearch/chat-client/pkg/local"
)

// Notifier is the user-visible notification sink, kept separate from
// operational logging. Warnings are non-fatal, errors mean the session view
// has to be recreated.
type Notifier interface {
	Warn(msg local.TextSet, args ...any)
	Error(msg local.TextSet, args ...any)
}

type LogNotifier struct {
	language local.Language
	log      *slog.Logger
	out      io.Writer
}

func NewLogNotifier(language local.Language, log *slog.Logger, out io.Writer) *LogNotifier {
	return &LogNotifier{
		language: language,
		log:      log,
		out:      out,
	}
}

func (n *LogNotifier) Warn(msg local.TextSet, args ...any) {
	text := n.render(msg, args...)
	n.log.Warn("user notification", "message", text)
	fmt.Fprintln(n.out, "! "+text)
}

func (n *LogNotifier) Error(msg local.TextSet, args ...any) {
	text := n.render(msg, args...)
	n.log.Error("user notification", "message", text)
	fmt.Fprintln(n.out, "!! "+text)
}

func (n *LogNotifier) render(msg local.TextSet, args ...any) string {
	if len(args) == 0 {
		return msg.Text(n.language)
	}
	return msg.Format(n.language, args...)
}
