package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rcarvalho-pb/pin_fulfillment-go/internal/infra/logging"
)

const pinMessage = "Seu PIN B13L TV é: %s. O PIN tem validade de 30 dias."

// Client sends text messages through the WhatsApp Cloud API.
// Delivery is fire-and-forget: a non-2xx response is an error, but
// there is no receipt tracking.
type Client struct {
	BaseURL     string
	PhoneID     string
	AccessToken string
	HTTPClient  *http.Client
	Logger      logging.Logger
}

type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func (c *Client) SendPin(ctx context.Context, phone, code string) error {
	return c.sendText(ctx, phone, fmt.Sprintf(pinMessage, code))
}

func (c *Client) sendText(ctx context.Context, to, body string) error {
	msg := textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	res, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("send message: status %d: %s", res.StatusCode, snippet)
	}

	c.Logger.Info("whatsapp message sent", map[string]any{
		"to": to,
	})

	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
