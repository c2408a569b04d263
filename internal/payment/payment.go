package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("payment not found")

// Transaction is one completed payment from the booking payment subsystem.
// The reconciliation core only ever reads these; the payment service owns
// their lifecycle. Amount is always the absolute value in cents.
type Transaction struct {
	ID        uuid.UUID
	Amount    int64
	Currency  string
	CreatedAt time.Time
}
