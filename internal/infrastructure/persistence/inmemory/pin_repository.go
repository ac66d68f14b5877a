package inmemory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/pin"
)

var ErrPinNotFound = errors.New("pin not found")

type PinRepository struct {
	mu   sync.RWMutex
	pins map[string]*pin.Pin
}

func NewPinRepository() *PinRepository {
	return &PinRepository{
		pins: make(map[string]*pin.Pin),
	}
}

func (r *PinRepository) Save(_ context.Context, p *pin.Pin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pins[p.Code] = p
	return nil
}

func (r *PinRepository) FindByCode(_ context.Context, code string) (*pin.Pin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pins[code]
	if !ok {
		return nil, ErrPinNotFound
	}

	return p, nil
}

func (r *PinRepository) Pins() map[string]*pin.Pin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.pins)
}
