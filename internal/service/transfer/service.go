package transfer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	ApplyDelta(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta int64, version int64) error
}

type transferRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transfer) error
}

// Service is the funds-transfer engine: it is the only writer of account
// balances and the only producer of transfer rows.
type Service struct {
	accounts  accountRepo
	transfers transferRepo
	db        *sql.DB
	timeout   time.Duration
}

func NewService(accounts accountRepo, transfers transferRepo, db *sql.DB, timeout time.Duration) *Service {
	return &Service{
		accounts:  accounts,
		transfers: transfers,
		db:        db,
		timeout:   timeout,
	}
}
