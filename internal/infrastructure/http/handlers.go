package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/application/fulfillment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
)

const livenessBody = "Webhook ativo. Use POST para enviar notificações."

type WebhookHandler struct {
	Service *fulfillment.Service
	Logger  logging.Logger
}

type successResponse struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"paymentId,omitempty"`
	Status    string `json:"status,omitempty"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(livenessBody))
	case http.MethodPost:
		h.receive(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *WebhookHandler) receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := fulfillment.ParseNotification(body)
	if err != nil {
		switch {
		case errors.Is(err, fulfillment.ErrInvalidPayload):
			writeError(w, http.StatusBadRequest, "invalid JSON format")
		default:
			writeError(w, http.StatusBadRequest, "invalid webhook format")
		}
		return
	}

	out, err := h.Service.Handle(r.Context(), n)
	if err != nil {
		h.writeFailure(w, n, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success:   true,
		PaymentID: out.PaymentID,
		Status:    string(out.Status),
		Message:   out.Message,
	})
}

// writeFailure converts workflow errors into the status codes the
// notification platform keys its redelivery behavior on.
func (h *WebhookHandler) writeFailure(w http.ResponseWriter, n fulfillment.Notification, err error) {
	h.Logger.Error("webhook processing failed", map[string]any{
		"payment-id": n.PaymentID,
		"topic":      n.Topic,
		"error":      err.Error(),
	})

	switch {
	case errors.Is(err, fulfillment.ErrMissingContact):
		writeError(w, http.StatusBadRequest, "approved payment has no contact phone")
	case errors.Is(err, payment.ErrNotFound):
		writeError(w, http.StatusNotFound, "payment not found")
	case errors.Is(err, payment.ErrLookupExhausted):
		writeError(w, http.StatusInternalServerError, "payment lookup failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
