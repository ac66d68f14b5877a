package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/event"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
)

type EventPublisher interface {
	Publish(event.Event) error
}

// Dispatcher drains recorded events to the bus on a fixed poll cycle.
type Dispatcher struct {
	Repo         Repository
	EventBus     EventPublisher
	Logger       logging.Logger
	PollInterval time.Duration
	BatchSize    int
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchOnce()
		}
	}
}

func (d *Dispatcher) DispatchOnce() {
	events, err := d.Repo.FindUnpublished(d.BatchSize)
	if err != nil {
		d.Logger.Error("outbox poll failed", map[string]any{
			"error": err.Error(),
		})
		return
	}

	for _, evt := range events {
		var payload any

		if err := json.Unmarshal(evt.Payload, &payload); err != nil {
			d.Logger.Error("outbox event has malformed payload", map[string]any{
				"event-id": evt.ID,
				"error":    err.Error(),
			})
			continue
		}

		domainEvent := event.Event{
			Type:    evt.Type,
			Payload: payload,
		}

		if err := d.EventBus.Publish(domainEvent); err != nil {
			d.Logger.Error("outbox publish failed", map[string]any{
				"event-id": evt.ID,
				"error":    err.Error(),
			})
			continue
		}

		if err := d.Repo.MarkPublished(evt.ID); err != nil {
			d.Logger.Error("outbox mark published failed", map[string]any{
				"event-id": evt.ID,
				"error":    err.Error(),
			})
		}
	}
}
