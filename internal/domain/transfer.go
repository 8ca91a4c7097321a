package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is the immutable ledger record of one completed balance movement.
// The id is assigned by the database at commit time and is monotone in commit
// order; rows are never updated or deleted.
type Transfer struct {
	ID                   int64
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               int64
	CreatedAt            time.Time
}
