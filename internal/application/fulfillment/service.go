package fulfillment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/application/contracts"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/event"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/pin"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/metrics"
)

// ErrMissingContact means the payment was approved but carries no
// deliverable phone number. Nothing is minted or persisted in that case.
var ErrMissingContact = errors.New("approved payment has no contact phone")

type Resolver interface {
	GetPayment(ctx context.Context, id string) (*payment.Record, error)
	GetMerchantOrder(ctx context.Context, id string) (*payment.Record, error)
}

type Notifier interface {
	SendPin(ctx context.Context, phone, code string) error
}

// Ledger reserves a payment identifier before a code is minted for it.
// Reserve reports false when the payment was already fulfilled.
type Ledger interface {
	Reserve(ctx context.Context, paymentID, code string) (bool, error)
}

type OutcomeKind string

const (
	OutcomeIgnored          OutcomeKind = "IGNORED"
	OutcomeNotApproved      OutcomeKind = "NOT_APPROVED"
	OutcomePinIssued        OutcomeKind = "PIN_ISSUED"
	OutcomeAlreadyFulfilled OutcomeKind = "ALREADY_FULFILLED"
)

type Outcome struct {
	Kind      OutcomeKind
	PaymentID string
	Status    payment.Status
	Message   string
}

// Service is the notification fulfillment workflow: classify the
// webhook, confirm the payment with the resolver and, on approval, mint
// a PIN, persist it and deliver it. Side effects are strictly ordered:
// the PIN is persisted before the message goes out, and a failed
// delivery never rolls the persisted PIN back.
type Service struct {
	Resolver  Resolver
	Pins      pin.Repository
	Ledger    Ledger
	Notifier  Notifier
	Generator pin.Generator
	Recorder  contracts.EventRecorder
	Logger    logging.Logger
	Metrics   *metrics.Counters
	Now       func() time.Time
}

func (s *Service) Handle(ctx context.Context, n Notification) (Outcome, error) {
	s.Metrics.IncReceived()

	s.Logger.Info("webhook received", map[string]any{
		"payment-id": n.PaymentID,
		"topic":      n.Topic,
	})

	var (
		rec *payment.Record
		err error
	)

	switch {
	case strings.Contains(n.Topic, "merchant_order"):
		rec, err = s.Resolver.GetMerchantOrder(ctx, n.PaymentID)

	case strings.Contains(n.Topic, "payment"):
		rec, err = s.Resolver.GetPayment(ctx, n.PaymentID)
		if err != nil {
			rec, err = s.fallback(ctx, n.PaymentID, err)
		}

	default:
		s.Metrics.IncIgnored()
		s.Logger.Info("notification ignored", map[string]any{
			"payment-id": n.PaymentID,
			"topic":      n.Topic,
		})
		return Outcome{
			Kind:      OutcomeIgnored,
			PaymentID: n.PaymentID,
			Message:   "Notificação recebida, sem ação necessária",
		}, nil
	}

	if err != nil {
		if errors.Is(err, payment.ErrLookupExhausted) {
			s.Metrics.IncLookupExhausted()
		}
		return Outcome{}, err
	}

	if rec.Status != payment.StatusApproved {
		s.Logger.Info("payment not approved", map[string]any{
			"payment-id": n.PaymentID,
			"status":     string(rec.Status),
		})
		return Outcome{
			Kind:      OutcomeNotApproved,
			PaymentID: n.PaymentID,
			Status:    rec.Status,
			Message:   "Pagamento não aprovado, nenhum PIN gerado",
		}, nil
	}

	phone := rec.PayerPhone()
	if phone == "" {
		return Outcome{}, ErrMissingContact
	}

	code := s.Generator.Generate()

	if s.Ledger != nil {
		fresh, err := s.Ledger.Reserve(ctx, n.PaymentID, code)
		if err != nil {
			return Outcome{}, err
		}
		if !fresh {
			s.Metrics.IncDuplicateSuppressed()
			s.Logger.Info("payment already fulfilled", map[string]any{
				"payment-id": n.PaymentID,
			})
			return Outcome{
				Kind:      OutcomeAlreadyFulfilled,
				PaymentID: n.PaymentID,
				Status:    rec.Status,
				Message:   "Pagamento já processado",
			}, nil
		}
	}

	p := pin.New(code, n.PaymentID, s.now())
	if err := s.Pins.Save(ctx, p); err != nil {
		return Outcome{}, err
	}

	s.Metrics.IncPinIssued()
	s.Logger.Info("pin issued", map[string]any{
		"payment-id": n.PaymentID,
		"expires-at": p.ExpiresAt,
	})

	if err := s.Notifier.SendPin(ctx, phone, code); err != nil {
		s.Metrics.IncMessageFailed()
		s.Logger.Error("pin delivery failed", map[string]any{
			"payment-id": n.PaymentID,
			"error":      err.Error(),
		})
		s.record(event.Event{
			Type: event.PinDeliveryFailed,
			Payload: event.PinDeliveryFailedPayload{
				PaymentID: n.PaymentID,
				Code:      code,
				Phone:     phone,
				Reason:    err.Error(),
			},
		})
		return Outcome{}, err
	}

	s.Metrics.IncMessageSent()
	s.record(event.Event{
		Type: event.PinIssued,
		Payload: event.PinIssuedPayload{
			PaymentID: n.PaymentID,
			Code:      code,
			Phone:     phone,
		},
	})

	return Outcome{
		Kind:      OutcomePinIssued,
		PaymentID: n.PaymentID,
		Status:    rec.Status,
		Message:   "PIN gerado e WhatsApp enviado",
	}, nil
}

// fallback tenta a merchant order quando o lookup primário falha.
func (s *Service) fallback(ctx context.Context, id string, primaryErr error) (*payment.Record, error) {
	rec, err := s.Resolver.GetMerchantOrder(ctx, id)
	if err == nil {
		return rec, nil
	}

	if errors.Is(primaryErr, payment.ErrLookupExhausted) || errors.Is(err, payment.ErrLookupExhausted) {
		return nil, payment.ErrLookupExhausted
	}

	return nil, err
}

func (s *Service) record(evt event.Event) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.Record(evt); err != nil {
		// auditoria nunca muda o resultado do workflow
		s.Logger.Error("failed to record event", map[string]any{
			"event-type": string(evt.Type),
			"error":      err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
