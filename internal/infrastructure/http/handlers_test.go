package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/application/fulfillment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/metrics"
	httpapi "github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infrastructure/persistence/inmemory"
)

type fakeResolver struct {
	getPaymentFn       func(ctx context.Context, id string) (*payment.Record, error)
	getMerchantOrderFn func(ctx context.Context, id string) (*payment.Record, error)

	calls int
}

func (f *fakeResolver) GetPayment(ctx context.Context, id string) (*payment.Record, error) {
	f.calls++
	return f.getPaymentFn(ctx, id)
}

func (f *fakeResolver) GetMerchantOrder(ctx context.Context, id string) (*payment.Record, error) {
	f.calls++
	return f.getMerchantOrderFn(ctx, id)
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendPin(_ context.Context, phone, code string) error {
	f.sent = append(f.sent, phone+":"+code)
	return nil
}

type fixedGenerator struct{}

func (fixedGenerator) Generate() string { return "654321" }

type noopLogger struct{}

func (n *noopLogger) Info(string, map[string]any)  {}
func (n *noopLogger) Warn(string, map[string]any)  {}
func (n *noopLogger) Error(string, map[string]any) {}

func newHandler(resolver *fakeResolver) (*httpapi.WebhookHandler, *fakeNotifier, *inmemory.PinRepository) {
	notifier := &fakeNotifier{}
	pins := inmemory.NewPinRepository()

	service := &fulfillment.Service{
		Resolver:  resolver,
		Pins:      pins,
		Notifier:  notifier,
		Generator: fixedGenerator{},
		Logger:    &noopLogger{},
		Metrics:   &metrics.Counters{},
	}

	return &httpapi.WebhookHandler{Service: service, Logger: &noopLogger{}}, notifier, pins
}

func approved(phone string) func(context.Context, string) (*payment.Record, error) {
	return func(_ context.Context, id string) (*payment.Record, error) {
		rec := &payment.Record{ID: id, Status: payment.StatusApproved}
		rec.Payer.Phone.Number = phone
		return rec, nil
	}
}

func post(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_MalformedJSON_Returns400WithoutLookups(t *testing.T) {
	resolver := &fakeResolver{}
	handler, notifier, pins := newHandler(resolver)

	res := post(handler, `{broken`)

	if res.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.Code)
	}

	if resolver.calls != 0 {
		t.Errorf("expected no outbound lookups, got %d", resolver.calls)
	}

	if len(notifier.sent) != 0 || len(pins.Pins()) != 0 {
		t.Errorf("expected no side effects")
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	if body["error"] == "" {
		t.Errorf("expected error message in body")
	}
}

func TestWebhook_MissingIdentifier_Returns400(t *testing.T) {
	handler, _, _ := newHandler(&fakeResolver{})

	res := post(handler, `{"topic":"payment"}`)

	if res.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.Code)
	}
}

func TestWebhook_ApprovedPayment_Returns200AndIssuesPin(t *testing.T) {
	resolver := &fakeResolver{getPaymentFn: approved("5511999990000")}
	handler, notifier, pins := newHandler(resolver)

	res := post(handler, `{"topic":"payment","id":"pay-1"}`)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body struct {
		Success   bool   `json:"success"`
		PaymentID string `json:"paymentId"`
		Status    string `json:"status"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}

	if !body.Success {
		t.Errorf("expected success flag")
	}

	if body.PaymentID != "pay-1" {
		t.Errorf("expected paymentId pay-1, got %s", body.PaymentID)
	}

	if body.Status != "approved" {
		t.Errorf("expected status approved, got %s", body.Status)
	}

	if len(pins.Pins()) != 1 {
		t.Errorf("expected one pin persisted, got %d", len(pins.Pins()))
	}

	if len(notifier.sent) != 1 {
		t.Errorf("expected one message sent, got %d", len(notifier.sent))
	}
}

func TestWebhook_NotApproved_Returns200WithoutSideEffects(t *testing.T) {
	resolver := &fakeResolver{
		getPaymentFn: func(_ context.Context, id string) (*payment.Record, error) {
			return &payment.Record{ID: id, Status: payment.StatusPending}, nil
		},
	}
	handler, notifier, pins := newHandler(resolver)

	res := post(handler, `{"topic":"payment","id":"pay-1"}`)

	if res.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", res.Code)
	}

	if len(notifier.sent) != 0 || len(pins.Pins()) != 0 {
		t.Errorf("expected no side effects for pending payment")
	}
}

func TestWebhook_ApprovedWithoutPhone_Returns400(t *testing.T) {
	resolver := &fakeResolver{getPaymentFn: approved("")}
	handler, notifier, pins := newHandler(resolver)

	res := post(handler, `{"topic":"payment","id":"pay-1"}`)

	if res.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", res.Code)
	}

	if len(notifier.sent) != 0 || len(pins.Pins()) != 0 {
		t.Errorf("expected no side effects without contact phone")
	}
}

func TestWebhook_RecordNotFound_Returns404(t *testing.T) {
	resolver := &fakeResolver{
		getPaymentFn: func(context.Context, string) (*payment.Record, error) {
			return nil, payment.ErrNotFound
		},
		getMerchantOrderFn: func(context.Context, string) (*payment.Record, error) {
			return nil, payment.ErrNotFound
		},
	}
	handler, _, _ := newHandler(resolver)

	res := post(handler, `{"topic":"payment","id":"missing"}`)

	if res.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", res.Code)
	}
}

func TestWebhook_LookupExhausted_Returns500(t *testing.T) {
	resolver := &fakeResolver{
		getPaymentFn: func(context.Context, string) (*payment.Record, error) {
			return nil, payment.ErrLookupExhausted
		},
		getMerchantOrderFn: func(context.Context, string) (*payment.Record, error) {
			return nil, payment.ErrLookupExhausted
		},
	}
	handler, _, _ := newHandler(resolver)

	res := post(handler, `{"topic":"payment","id":"pay-1"}`)

	if res.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", res.Code)
	}
}

func TestWebhook_UnknownTopic_Returns200Ignored(t *testing.T) {
	resolver := &fakeResolver{}
	handler, _, _ := newHandler(resolver)

	res := post(handler, `{"topic":"subscription","id":"sub-1"}`)

	if res.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", res.Code)
	}

	if resolver.calls != 0 {
		t.Errorf("expected no lookups for unknown topic")
	}
}

func TestWebhook_GET_IsLivenessProbe(t *testing.T) {
	handler, _, _ := newHandler(&fakeResolver{})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", res.Code)
	}

	if !strings.Contains(res.Body.String(), "Webhook ativo") {
		t.Errorf("expected liveness text, got %q", res.Body.String())
	}
}

func TestWebhook_OtherMethods_Return405(t *testing.T) {
	handler, _, _ := newHandler(&fakeResolver{})

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/webhook", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		if res.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, res.Code)
		}
	}
}

func TestRouter_RoutesWebhookPath(t *testing.T) {
	handler, _, _ := newHandler(&fakeResolver{getPaymentFn: approved("5511999990000")})
	router := httpapi.NewRouter(handler)

	res := post(router, `{"topic":"payment","id":"pay-1"}`)

	if res.Code != http.StatusOK {
		t.Errorf("expected 200 through router, got %d", res.Code)
	}
}
