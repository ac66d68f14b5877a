package audit

import (
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/event"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
)

// Handler consumes fulfillment events off the bus and writes the audit
// trail. Payloads arrive as generic maps after the outbox round trip.
type Handler struct {
	Logger logging.Logger
}

func (h *Handler) Handle(evt event.Event) error {
	switch evt.Type {
	case event.PinIssued:
		h.Logger.Info("audit: pin issued", map[string]any{
			"payload": evt.Payload,
		})
	case event.PinDeliveryFailed:
		h.Logger.Warn("audit: pin delivery failed", map[string]any{
			"payload": evt.Payload,
		})
	}
	return nil
}
