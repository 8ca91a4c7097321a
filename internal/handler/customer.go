package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
)

type customerService interface {
	CreateCustomer(ctx context.Context, name, email string) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type CustomerHandler struct {
	customers customerService
}

func NewCustomerHandler(customers customerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r createCustomerRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	} else if !strings.Contains(r.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email"})
	}
	return errs
}

type customerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerDTO(c *domain.Customer) customerDTO {
	return customerDTO{ID: c.ID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), req.Name, req.Email)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create customer", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toCustomerDTO(customer))
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	customer, err := h.customers.GetCustomerByID(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("customer lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toCustomerDTO(customer))
}
