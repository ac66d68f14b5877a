package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
)

// Client resolves the authoritative payment status by identifier.
// Every call hits the network; nothing is cached.
type Client struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
	Logger      logging.Logger
	Retry       Policy
}

type recordPayload struct {
	ID     any    `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		Phone struct {
			Number string `json:"number"`
		} `json:"phone"`
	} `json:"payer"`
}

func (c *Client) GetPayment(ctx context.Context, id string) (*payment.Record, error) {
	return c.lookup(ctx, "/v1/payments/"+id)
}

func (c *Client) GetMerchantOrder(ctx context.Context, id string) (*payment.Record, error) {
	return c.lookup(ctx, "/merchant_orders/"+id)
}

func (c *Client) lookup(ctx context.Context, path string) (*payment.Record, error) {
	var rec *payment.Record

	err := c.Retry.Do(func(attempt int) error {
		r, err := c.fetch(ctx, path)
		if err != nil {
			c.Logger.Warn("payment lookup attempt failed", map[string]any{
				"path":    path,
				"attempt": attempt,
				"error":   err.Error(),
			})
			return err
		}

		rec = r
		return nil
	})
	if err != nil {
		if r := ctx.Err(); r != nil {
			return nil, r
		}
		if errors.Is(err, payment.ErrNotFound) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", payment.ErrLookupExhausted, err)
	}

	return rec, nil
}

func (c *Client) fetch(ctx context.Context, path string) (*payment.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	res, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		// segue abaixo
	case res.StatusCode == http.StatusNotFound:
		return nil, Permanent(payment.ErrNotFound)
	default:
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var p recordPayload
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	rec := &payment.Record{
		ID:     stringID(p.ID),
		Status: payment.StatusFromString(p.Status),
	}
	rec.Payer.Phone.Number = p.Payer.Phone.Number

	return rec, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// stringID tolerates both numeric and string ids on the wire.
func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
