package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrFulfillmentNotFound = errors.New("fulfillment not found")

// FulfillmentLedger records which payment identifiers already had a PIN
// minted. Reserve relies on the primary key for its insert-if-absent
// semantics, so concurrent reservations for the same payment race at
// the database and exactly one wins.
type FulfillmentLedger struct {
	db *sql.DB
}

func NewFulfillmentLedger(db *sql.DB) *FulfillmentLedger {
	return &FulfillmentLedger{db: db}
}

func (l *FulfillmentLedger) Reserve(ctx context.Context, paymentID, code string) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO fulfillments
		 (payment_id, pin_code, created_at)
		 VALUES (?, ?, ?)`,
		paymentID,
		code,
		time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// 0 rows = pagamento já processado
	return affected == 1, nil
}

func (l *FulfillmentLedger) FindByPaymentID(ctx context.Context, paymentID string) (string, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT pin_code
		 FROM fulfillments
		 WHERE payment_id = ?`,
		paymentID,
	)

	var code string
	if err := row.Scan(&code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrFulfillmentNotFound
		}
		return "", err
	}

	return code, nil
}
