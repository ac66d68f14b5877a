package pin

import "time"

// Validity is how long an issued PIN stays usable. Expiry enforcement
// belongs to the consuming system, not this one.
const Validity = 30 * 24 * time.Hour

type Pin struct {
	Code            string
	ExpiresAt       time.Time
	IsActive        bool
	SourcePaymentID string
}

func New(code, paymentID string, now time.Time) *Pin {
	return &Pin{
		Code:            code,
		ExpiresAt:       now.Add(Validity),
		IsActive:        true,
		SourcePaymentID: paymentID,
	}
}
