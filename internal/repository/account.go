package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
)

const accountColumns = `id, customer_id, balance, version, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, customer_id, balance, version, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.CustomerID, account.Balance, account.Version, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

// GetForUpdate reads an account under a row lock held until the enclosing
// transaction ends. The transfer engine locks both legs this way, in fixed
// id order, before touching either balance.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

// ApplyDelta adjusts a balance by delta, guarded by the version read under
// the row lock and by a non-negativity floor at the storage boundary. Zero
// rows affected means the guard fired and the enclosing transaction must
// roll back.
func (r *AccountRepository) ApplyDelta(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta int64, version int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, version = version + 1
		WHERE id = $2 AND version = $3 AND balance + $1 >= 0`,
		delta, id, version,
	)
	if err != nil {
		return fmt.Errorf("ApplyDelta: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ApplyDelta: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ApplyDelta: %w", domain.ErrBalanceConflict)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.CustomerID, &a.Balance, &a.Version, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
