package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
)

const transferColumns = `id, source_account_id, destination_account_id, amount, created_at`

// TransferRepository is append-only: Create is the single write path and runs
// inside the engine's transaction. Nothing updates or deletes transfer rows.
type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create appends the transfer and fills in the database-assigned id and
// commit timestamp.
func (r *TransferRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transfer) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO transfers (source_account_id, destination_account_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		t.SourceAccountID, t.DestinationAccountID, t.Amount,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransferRepository) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id,
	)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

// ListBySource returns the account's outgoing transfers in commit order.
func (r *TransferRepository) ListBySource(ctx context.Context, accountID uuid.UUID) ([]domain.Transfer, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfers
		WHERE source_account_id = $1 ORDER BY id`, accountID)
}

// ListByDestination returns the account's incoming transfers in commit order.
func (r *TransferRepository) ListByDestination(ctx context.Context, accountID uuid.UUID) ([]domain.Transfer, error) {
	return r.list(ctx, `SELECT `+transferColumns+` FROM transfers
		WHERE destination_account_id = $1 ORDER BY id`, accountID)
}

func (r *TransferRepository) list(ctx context.Context, query string, accountID uuid.UUID) ([]domain.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		transfers = append(transfers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}
	return transfers, nil
}

func scanTransfer(s scanner) (*domain.Transfer, error) {
	var t domain.Transfer
	err := s.Scan(&t.ID, &t.SourceAccountID, &t.DestinationAccountID, &t.Amount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
