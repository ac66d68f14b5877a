package fulfillment

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidPayload    = errors.New("invalid notification payload")
	ErrMissingIdentifier = errors.New("notification has no identifier")
)

// Notification is the normalized inbound webhook: which record to look
// up and under which topic it was announced.
type Notification struct {
	PaymentID string
	Topic     string
}

type rawNotification struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
	ID     any    `json:"id"`
	Data   struct {
		ID any `json:"id"`
	} `json:"data"`
}

// ParseNotification normalizes the two webhook shapes the processor
// sends: the new form carries action + data.id, the legacy form carries
// topic + id (or topic + data.id). The topic defaults to "payment" when
// the payload names none.
func ParseNotification(body []byte) (Notification, error) {
	var raw rawNotification
	if err := json.Unmarshal(body, &raw); err != nil {
		return Notification{}, ErrInvalidPayload
	}

	if id := stringID(raw.Data.ID); id != "" {
		return Notification{PaymentID: id, Topic: topicOf(raw.Action, raw.Topic)}, nil
	}

	if id := stringID(raw.ID); id != "" {
		return Notification{PaymentID: id, Topic: topicOf(raw.Topic, "")}, nil
	}

	return Notification{}, ErrMissingIdentifier
}

func topicOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "payment"
}

// ids chegam ora como string, ora como número
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
