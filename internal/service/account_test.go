package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/repository"
	"github.com/kwasiobeng/mini-ledger/internal/service"
	"github.com/kwasiobeng/mini-ledger/internal/service/transfer"
	"github.com/kwasiobeng/mini-ledger/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewTransferRepository(db),
	)
	ctx := context.Background()

	customer := testutil.SeedCustomer(t, db, "alice")

	t.Run("default zero balance", func(t *testing.T) {
		account, err := svc.CreateAccount(ctx, customer.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, account.CustomerID)
		assert.Equal(t, int64(0), account.Balance)
	})

	t.Run("initial balance", func(t *testing.T) {
		account, err := svc.CreateAccount(ctx, customer.ID, 12345)
		require.NoError(t, err)
		assert.Equal(t, int64(12345), testutil.GetAccountBalance(t, db, account.ID))
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, uuid.New(), 0)
		require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, customer.ID, -1)
		require.ErrorIs(t, err, domain.ErrInvalidBalance)
	})

	t.Run("balance above cap rejected", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, customer.ID, domain.MaxBalance+1)
		require.ErrorIs(t, err, domain.ErrInvalidBalance)
	})
}

func TestGetBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewTransferRepository(db),
	)
	ctx := context.Background()

	customer := testutil.SeedCustomer(t, db, "alice")
	account := testutil.SeedAccount(t, db, customer.ID, 7500)

	balance, err := svc.GetBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), balance)

	_, err = svc.GetBalance(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	accountSvc := service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewTransferRepository(db),
	)
	engine := transfer.NewService(
		repository.NewAccountRepository(db),
		repository.NewTransferRepository(db),
		db,
		5*time.Second,
	)
	ctx := context.Background()

	alice := testutil.SeedCustomer(t, db, "alice")
	bob := testutil.SeedCustomer(t, db, "bob")
	source := testutil.SeedAccount(t, db, alice.ID, 10000)
	destination := testutil.SeedAccount(t, db, bob.ID, 0)

	t.Run("empty history is not an error", func(t *testing.T) {
		history, err := accountSvc.GetHistory(ctx, source.ID)
		require.NoError(t, err)
		assert.NotNil(t, history.Incoming)
		assert.NotNil(t, history.Outgoing)
		assert.Empty(t, history.Incoming)
		assert.Empty(t, history.Outgoing)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := accountSvc.GetHistory(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("committed transfer shows up on both sides", func(t *testing.T) {
		tr, err := engine.Execute(ctx, transfer.ExecuteRequest{
			SourceAccountID:      source.ID,
			DestinationAccountID: destination.ID,
			Amount:               4000,
		})
		require.NoError(t, err)

		sourceHistory, err := accountSvc.GetHistory(ctx, source.ID)
		require.NoError(t, err)
		require.Len(t, sourceHistory.Outgoing, 1)
		assert.Equal(t, tr.ID, sourceHistory.Outgoing[0].ID)
		assert.Empty(t, sourceHistory.Incoming)

		destHistory, err := accountSvc.GetHistory(ctx, destination.ID)
		require.NoError(t, err)
		require.Len(t, destHistory.Incoming, 1)
		assert.Equal(t, tr.ID, destHistory.Incoming[0].ID)
		assert.Empty(t, destHistory.Outgoing)
	})
}
