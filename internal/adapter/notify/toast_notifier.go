package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rl1809/savdo-pos/internal/port"
)

// ToastNotifier is the local terminal toast, rendered through the log
// stream the terminal UI tails.
type ToastNotifier struct {
	logger zerolog.Logger
}

func NewToastNotifier(logger zerolog.Logger) *ToastNotifier {
	return &ToastNotifier{logger: logger}
}

func (n *ToastNotifier) Notify(_ context.Context, message string) {
	n.logger.Info().Str("channel", "toast").Msg(message)
}

// Multi fans a notification out to several surfaces.
type Multi []port.Notifier

func (m Multi) Notify(ctx context.Context, message string) {
	for _, n := range m {
		n.Notify(ctx, message)
	}
}
