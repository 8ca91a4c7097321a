package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
}

type customerChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type transferLister interface {
	ListBySource(ctx context.Context, accountID uuid.UUID) ([]domain.Transfer, error)
	ListByDestination(ctx context.Context, accountID uuid.UUID) ([]domain.Transfer, error)
}

type AccountService struct {
	accounts  accountRepo
	customers customerChecker
	transfers transferLister
}

func NewAccountService(accounts accountRepo, customers customerChecker, transfers transferLister) *AccountService {
	return &AccountService{accounts: accounts, customers: customers, transfers: transfers}
}

func (s *AccountService) CreateAccount(ctx context.Context, customerID uuid.UUID, initialBalance int64) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("CreateAccount: %w", domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	if initialBalance < 0 || initialBalance > domain.MaxBalance {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidBalance)
	}

	account := &domain.Account{
		ID:         uuid.New(),
		CustomerID: customerID,
		Balance:    initialBalance,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	log.Info("account created",
		"account_id", account.ID,
		"customer_id", customerID,
		"balance", account.Balance,
	)

	return account, nil
}

// GetBalance is a plain read outside any transfer transaction; it never waits
// on row locks held by in-flight transfers.
func (s *AccountService) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("GetBalance: %w", err)
	}
	return account.Balance, nil
}

type History struct {
	Incoming []domain.Transfer
	Outgoing []domain.Transfer
}

// GetHistory returns the account's ledger listings in commit order. An
// account with no transfers gets empty slices, not an error; an unknown
// account gets domain.ErrNotFound.
func (s *AccountService) GetHistory(ctx context.Context, accountID uuid.UUID) (*History, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("GetHistory: %w", err)
	}

	outgoing, err := s.transfers.ListBySource(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetHistory: outgoing: %w", err)
	}
	incoming, err := s.transfers.ListByDestination(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetHistory: incoming: %w", err)
	}

	if outgoing == nil {
		outgoing = []domain.Transfer{}
	}
	if incoming == nil {
		incoming = []domain.Transfer{}
	}

	return &History{Incoming: incoming, Outgoing: outgoing}, nil
}
