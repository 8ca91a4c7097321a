package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
)

type customerRepo interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type CustomerService struct {
	customers customerRepo
}

func NewCustomerService(customers customerRepo) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, name, email string) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("CreateCustomer: %w", err)
	}

	logging.FromContext(ctx).Info("customer created", "customer_id", customer.ID)
	return customer, nil
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetCustomerByID: %w", err)
	}
	return customer, nil
}
