package event

type PinIssuedPayload struct {
	PaymentID string `json:"payment_id"`
	Code      string `json:"code"`
	Phone     string `json:"phone"`
}

type PinDeliveryFailedPayload struct {
	PaymentID string `json:"payment_id"`
	Code      string `json:"code"`
	Phone     string `json:"phone"`
	Reason    string `json:"reason"`
}
