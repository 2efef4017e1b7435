package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/gregdel/pushover"

	"github.com/akorchev/weather-notify/internal/forecast"
)

// PushoverNotifier delivers the daily summary with the chart attached.
type PushoverNotifier struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
}

// NewPushoverNotifier registers API token and user key.
func NewPushoverNotifier(token, userKey string) *PushoverNotifier {
	return &PushoverNotifier{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(userKey),
	}
}

// Send pushes the record's summary message, attaching the rendered chart
// when one exists.
func (n *PushoverNotifier) Send(ctx context.Context, rec forecast.ForecastRecord) error {
	msg := &pushover.Message{
		Title:    "☀️ Daily Weather Update",
		Message:  BuildSummary(rec),
		Priority: pushover.PriorityNormal,
		Sound:    pushover.SoundPushover,
	}

	if rec.ChartPath != "" {
		f, err := os.Open(rec.ChartPath)
		if err != nil {
			return fmt.Errorf("open chart %s: %w", rec.ChartPath, err)
		}
		defer f.Close()
		if err := msg.AddAttachment(f); err != nil {
			return fmt.Errorf("attach chart: %w", err)
		}
	}

	if _, err := n.app.SendMessage(msg, n.recipient); err != nil {
		return fmt.Errorf("send pushover message for %s: %w", rec.Location.Key(), err)
	}
	return nil
}
