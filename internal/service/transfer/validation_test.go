package transfer

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
)

// stubAccounts backs the pre-transaction validation path; none of these
// cases may reach the atomic unit, so GetForUpdate and ApplyDelta fail the
// test if called.
type stubAccounts struct {
	t        *testing.T
	accounts map[uuid.UUID]*domain.Account
}

func (s *stubAccounts) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	if a, ok := s.accounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubAccounts) GetForUpdate(_ context.Context, _ *sql.Tx, _ uuid.UUID) (*domain.Account, error) {
	s.t.Fatal("GetForUpdate called on a validation failure path")
	return nil, nil
}

func (s *stubAccounts) ApplyDelta(_ context.Context, _ *sql.Tx, _ uuid.UUID, _ int64, _ int64) error {
	s.t.Fatal("ApplyDelta called on a validation failure path")
	return nil
}

type stubTransfers struct{ t *testing.T }

func (s *stubTransfers) Create(_ context.Context, _ *sql.Tx, _ *domain.Transfer) error {
	s.t.Fatal("Create called on a validation failure path")
	return nil
}

func TestExecute_ValidationFailures(t *testing.T) {
	source := &domain.Account{ID: uuid.New(), CustomerID: uuid.New(), Balance: 10000, Version: 1}
	destination := &domain.Account{ID: uuid.New(), CustomerID: uuid.New(), Balance: 5000, Version: 1}
	missing := uuid.New()

	tests := []struct {
		name     string
		req      ExecuteRequest
		wantErr  error
		wantRole string
	}{
		{
			name:    "same account",
			req:     ExecuteRequest{SourceAccountID: source.ID, DestinationAccountID: source.ID, Amount: 1000},
			wantErr: domain.ErrSameAccount,
		},
		{
			name:     "source missing",
			req:      ExecuteRequest{SourceAccountID: missing, DestinationAccountID: destination.ID, Amount: 1000},
			wantErr:  domain.ErrAccountNotFound,
			wantRole: "source",
		},
		{
			name:     "destination missing",
			req:      ExecuteRequest{SourceAccountID: source.ID, DestinationAccountID: missing, Amount: 1000},
			wantErr:  domain.ErrAccountNotFound,
			wantRole: "destination",
		},
		{
			// existence is checked before the amount, so a missing source
			// wins over a bad amount
			name:     "missing source beats invalid amount",
			req:      ExecuteRequest{SourceAccountID: missing, DestinationAccountID: destination.ID, Amount: 0},
			wantErr:  domain.ErrAccountNotFound,
			wantRole: "source",
		},
		{
			name:    "zero amount",
			req:     ExecuteRequest{SourceAccountID: source.ID, DestinationAccountID: destination.ID, Amount: 0},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     ExecuteRequest{SourceAccountID: source.ID, DestinationAccountID: destination.ID, Amount: -500},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "amount above supported range",
			req:     ExecuteRequest{SourceAccountID: source.ID, DestinationAccountID: destination.ID, Amount: domain.MaxBalance + 1},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(
				&stubAccounts{t: t, accounts: map[uuid.UUID]*domain.Account{
					source.ID:      source,
					destination.ID: destination,
				}},
				&stubTransfers{t: t},
				nil,
				0,
			)

			_, err := svc.Execute(context.Background(), tc.req)

			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantRole != "" {
				assert.Contains(t, err.Error(), tc.wantRole)
			}
		})
	}
}
