package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/pin"
)

var ErrPinNotFound = errors.New("pin not found")

const keyPrefix = "pins:"

var (
	connectOnce sync.Once
	shared      *redis.Client
	connectErr  error
)

// Connect establishes the process-wide client on first call and hands
// the same handle back on every later call, whatever the URL argument.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	connectOnce.Do(func() {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			connectErr = fmt.Errorf("parse redis url: %w", err)
			return
		}

		opts.DialTimeout = 5 * time.Second
		opts.ReadTimeout = 2 * time.Second
		opts.WriteTimeout = 2 * time.Second
		opts.MaxRetries = 3

		rdb := redis.NewClient(opts)

		if err := rdb.Ping(ctx).Err(); err != nil {
			connectErr = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		shared = rdb
	})

	return shared, connectErr
}

type PinRepository struct {
	rdb *redis.Client
}

func NewPinRepository(rdb *redis.Client) *PinRepository {
	return &PinRepository{rdb: rdb}
}

// pinDocument mirrors the stored document shape.
type pinDocument struct {
	Pin                  string    `json:"pin"`
	ExpirationDate       time.Time `json:"expirationDate"`
	IsActive             bool      `json:"isActive"`
	MercadoPagoPaymentID string    `json:"mercadoPagoPaymentId"`
}

func (r *PinRepository) Save(ctx context.Context, p *pin.Pin) error {
	doc := pinDocument{
		Pin:                  p.Code,
		ExpirationDate:       p.ExpiresAt,
		IsActive:             p.IsActive,
		MercadoPagoPaymentID: p.SourcePaymentID,
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	// overwrite-by-key, sem TTL: a expiração é atributo do documento e
	// quem consome o PIN é que a aplica
	return r.rdb.Set(ctx, keyPrefix+p.Code, b, 0).Err()
}

func (r *PinRepository) FindByCode(ctx context.Context, code string) (*pin.Pin, error) {
	b, err := r.rdb.Get(ctx, keyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPinNotFound
		}
		return nil, err
	}

	var doc pinDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	return &pin.Pin{
		Code:            doc.Pin,
		ExpiresAt:       doc.ExpirationDate,
		IsActive:        doc.IsActive,
		SourcePaymentID: doc.MercadoPagoPaymentID,
	}, nil
}
