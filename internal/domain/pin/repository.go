package pin

import "context"

// Repository persists PINs keyed by their own code value.
// Save is an unconditional overwrite-by-key.
type Repository interface {
	Save(context.Context, *Pin) error
	FindByCode(context.Context, string) (*Pin, error)
}
