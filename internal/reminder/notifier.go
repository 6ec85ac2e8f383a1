package reminder

import (
	"context"
	"log/slog"
	"time"
)

// Notice is what a Notifier is asked to deliver.
type Notice struct {
	ContractID  string
	RenewalDate time.Time
	FireAt      time.Time
}

// Notifier delivers a renewal reminder. Delivery channels (email, SMS) live
// behind this interface.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// LogNotifier only records that a reminder went out.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(_ context.Context, n Notice) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("reminder.sent",
		"contract_id", n.ContractID,
		"renewal_date", n.RenewalDate.UTC().Format(time.RFC3339),
	)
	return nil
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice) error

func (f NotifierFunc) Notify(ctx context.Context, n Notice) error { return f(ctx, n) }
