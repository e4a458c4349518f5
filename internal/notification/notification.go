package notification

import (
	"context"
	"log/slog"
)

const (
	// KindCardSettled indicates a pending card transaction settled.
	KindCardSettled = "card_settled"
	// KindPayoutProcessed indicates a payout swept a merchant's balance.
	KindPayoutProcessed = "payout_processed"
)

// Message describes a merchant-facing notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// structured logger until a real merchant webhook channel exists.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "merchant", message.Destination, "body", message.Body)
	return nil
}
