package event

type Type string

const (
	PinIssued         Type = "PIN_ISSUED"
	PinDeliveryFailed Type = "PIN_DELIVERY_FAILED"
)

type Event struct {
	Type    Type
	Payload any
}
