package inmemory

import (
	"context"
	"maps"
	"sync"
)

// FulfillmentLedger keeps the payment-id -> code reservations in memory.
type FulfillmentLedger struct {
	mu           sync.Mutex
	fulfillments map[string]string
}

func NewFulfillmentLedger() *FulfillmentLedger {
	return &FulfillmentLedger{
		fulfillments: make(map[string]string),
	}
}

func (l *FulfillmentLedger) Reserve(_ context.Context, paymentID, code string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.fulfillments[paymentID]; exists {
		return false, nil
	}

	l.fulfillments[paymentID] = code
	return true, nil
}

func (l *FulfillmentLedger) Fulfillments() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return maps.Clone(l.fulfillments)
}
