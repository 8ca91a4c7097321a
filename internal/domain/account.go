package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account holds a customer balance in minor units. Balance is only ever
// mutated by the transfer engine inside its transaction; Version backs the
// conditional update in AccountRepository.ApplyDelta.
type Account struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Balance    int64
	Version    int64
	CreatedAt  time.Time
}
