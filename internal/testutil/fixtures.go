package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
)

func SeedCustomer(t *testing.T, db *sql.DB, name string) *domain.Customer {
	t.Helper()

	c := &domain.Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     fmt.Sprintf("%s-%s@test.local", name, uuid.NewString()[:8]),
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO customers (id, name, email, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Email, c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed customer %s: %v", name, err)
	}
	return c
}

func SeedAccount(t *testing.T, db *sql.DB, customerID uuid.UUID, balance int64) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:         uuid.New(),
		CustomerID: customerID,
		Balance:    balance,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, customer_id, balance, version, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.CustomerID, a.Balance, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account for customer %s: %v", customerID, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransfers(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transfers WHERE source_account_id = $1 OR destination_account_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transfers for account %s: %v", accountID, err)
	}
	return count
}

func SumBalances(t *testing.T, db *sql.DB) int64 {
	t.Helper()

	var sum int64
	err := db.QueryRow(`SELECT COALESCE(SUM(balance), 0) FROM accounts`).Scan(&sum)
	if err != nil {
		t.Fatalf("sum balances: %v", err)
	}
	return sum
}
