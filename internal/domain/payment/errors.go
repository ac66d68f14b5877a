package payment

import "errors"

var (
	// ErrNotFound means the processor definitively answered that no
	// record exists for the identifier.
	ErrNotFound = errors.New("payment record not found")

	// ErrLookupExhausted means the lookup could not be completed after
	// the retry budget. Distinct from ErrNotFound; never conflate them.
	ErrLookupExhausted = errors.New("payment lookup exhausted")
)
