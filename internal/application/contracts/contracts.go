package contracts

import "github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/event"

type EventRecorder interface {
	Record(event.Event) error
}
