package mercadopago

import (
	"errors"
	"time"
)

// Policy is a bounded fixed-delay retry: at most MaxAttempts tries,
// separated by Delay. Permanent errors stop the loop immediately.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       func(time.Duration)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as not worth retrying.
func Permanent(err error) error {
	return &permanentError{err: err}
}

func (p *Policy) Do(op func(attempt int) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = op(attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		if attempt < p.MaxAttempts {
			sleep(p.Delay)
		}
	}

	return err
}
