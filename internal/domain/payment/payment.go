package payment

type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
	StatusOther    Status = "other"
)

// StatusFromString normalizes whatever the processor reports into the
// statuses this system branches on. Anything unknown collapses to other.
func StatusFromString(s string) Status {
	switch Status(s) {
	case StatusApproved, StatusPending, StatusRejected:
		return Status(s)
	default:
		return StatusOther
	}
}

type Phone struct {
	Number string `json:"number"`
}

type Payer struct {
	Phone Phone `json:"phone"`
}

// Record is the authoritative payment state fetched from the processor.
// The webhook payload itself is never trusted as ground truth.
type Record struct {
	ID     string
	Status Status
	Payer  Payer
}

func (r *Record) PayerPhone() string {
	return r.Payer.Phone.Number
}
