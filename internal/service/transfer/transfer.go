package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
)

type ExecuteRequest struct {
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               int64
}

// Execute validates and commits one transfer. Preconditions are checked in a
// fixed order before any mutation: same-account, existence of both accounts,
// amount, and finally sufficient balance. The balance check runs against the
// row-locked balance inside the transaction, never against an earlier read,
// so two concurrent transfers cannot both pass the check on a stale snapshot.
//
// Validation failures come back as their own sentinels and are pointless to
// retry unchanged; domain.ErrTransferFailed means the atomic unit could not
// commit and the identical request is safe to resubmit.
func (s *Service) Execute(ctx context.Context, req ExecuteRequest) (*domain.Transfer, error) {
	log := logging.FromContext(ctx)

	if req.SourceAccountID == req.DestinationAccountID {
		return nil, fmt.Errorf("Execute: %w", domain.ErrSameAccount)
	}

	if err := s.resolveAccounts(ctx, req); err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	if err := validateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	t, err := s.executeTransfer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Execute: %w", err)
	}

	log.Info("transfer committed",
		"transfer_id", t.ID,
		"source_account", t.SourceAccountID,
		"destination_account", t.DestinationAccountID,
		"amount", t.Amount,
	)

	return t, nil
}

// resolveAccounts verifies both endpoints exist before the atomic unit is
// opened, naming the missing side. Existence is re-checked under the row
// locks; this pass only orders the failure ahead of amount validation.
func (s *Service) resolveAccounts(ctx context.Context, req ExecuteRequest) error {
	if _, err := s.accounts.GetByID(ctx, req.SourceAccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("resolveAccounts: source: %w", domain.ErrAccountNotFound)
		}
		return fmt.Errorf("resolveAccounts: source: %w", err)
	}
	if _, err := s.accounts.GetByID(ctx, req.DestinationAccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("resolveAccounts: destination: %w", domain.ErrAccountNotFound)
		}
		return fmt.Errorf("resolveAccounts: destination: %w", err)
	}
	return nil
}

// The HTTP layer parses amounts through domain.ParseAmount; the engine still
// re-checks range because it must not trust callers.
func validateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("validateAmount: %w", domain.ErrInvalidAmount)
	}
	if amount > domain.MaxBalance {
		return fmt.Errorf("validateAmount: %w", domain.ErrInvalidAmount)
	}
	return nil
}

func (s *Service) executeTransfer(ctx context.Context, req ExecuteRequest) (*domain.Transfer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("transfer begin failed", "error", err)
		return nil, fmt.Errorf("executeTransfer: begin tx: %w", domain.ErrTransferFailed)
	}
	defer tx.Rollback()

	locked, err := s.lockAccountsInOrder(ctx, tx, req.SourceAccountID, req.DestinationAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("executeTransfer: %w", err)
		}
		log.Error("transfer lock failed", "error", err)
		return nil, fmt.Errorf("executeTransfer: %w", domain.ErrTransferFailed)
	}

	source, destination := locked[req.SourceAccountID], locked[req.DestinationAccountID]

	if source.Balance < req.Amount {
		return nil, fmt.Errorf("executeTransfer: %w", domain.ErrInsufficientBalance)
	}

	if err := s.accounts.ApplyDelta(ctx, tx, source.ID, -req.Amount, source.Version); err != nil {
		log.Error("transfer debit failed", "error", err, "account_id", source.ID)
		return nil, fmt.Errorf("executeTransfer: debit: %w", domain.ErrTransferFailed)
	}
	if err := s.accounts.ApplyDelta(ctx, tx, destination.ID, req.Amount, destination.Version); err != nil {
		log.Error("transfer credit failed", "error", err, "account_id", destination.ID)
		return nil, fmt.Errorf("executeTransfer: credit: %w", domain.ErrTransferFailed)
	}

	t := &domain.Transfer{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               req.Amount,
	}
	if err := s.transfers.Create(ctx, tx, t); err != nil {
		log.Error("transfer append failed", "error", err)
		return nil, fmt.Errorf("executeTransfer: append: %w", domain.ErrTransferFailed)
	}

	if err := tx.Commit(); err != nil {
		log.Error("transfer commit failed", "error", err)
		return nil, fmt.Errorf("executeTransfer: commit: %w", domain.ErrTransferFailed)
	}

	return t, nil
}

// lockAccountsInOrder acquires both row locks in ascending id order whatever
// the transfer direction, so two opposite transfers between the same pair
// cannot deadlock.
func (s *Service) lockAccountsInOrder(ctx context.Context, tx *sql.Tx, sourceID, destinationID uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	ids := []uuid.UUID{sourceID, destinationID}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	locked := make(map[uuid.UUID]*domain.Account, len(ids))
	for _, id := range ids {
		acct, err := s.accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				role := "source"
				if id == destinationID {
					role = "destination"
				}
				return nil, fmt.Errorf("lockAccountsInOrder: %s: %w", role, domain.ErrAccountNotFound)
			}
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		locked[id] = acct
	}
	return locked, nil
}
