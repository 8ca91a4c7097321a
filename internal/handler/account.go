package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
	"github.com/kwasiobeng/mini-ledger/internal/service"
)

type accountService interface {
	CreateAccount(ctx context.Context, customerID uuid.UUID, initialBalance int64) (*domain.Account, error)
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
	GetHistory(ctx context.Context, accountID uuid.UUID) (*service.History, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	CustomerID string `json:"customer_id"`
	Balance    string `json:"balance"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "required"})
	} else if _, err := uuid.Parse(r.CustomerID); err != nil {
		errs = append(errs, FieldError{Field: "customer_id", Message: "must be a valid uuid"})
	}
	return errs
}

type accountDTO struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Balance    string    `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Balance:    domain.FormatAmount(a.Balance),
		CreatedAt:  a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	initialBalance := int64(0)
	if req.Balance != "" {
		parsed, err := domain.ParseBalance(req.Balance)
		if err != nil {
			RespondDomainError(w, err)
			return
		}
		initialBalance = parsed
	}

	account, err := h.accounts.CreateAccount(r.Context(), uuid.MustParse(req.CustomerID), initialBalance)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	balance, err := h.accounts.GetBalance(r.Context(), accountID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("balance lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{
		"balance": domain.FormatAmount(balance),
	})
}

type historyDTO struct {
	IncomingTransfers []transferDTO `json:"incoming_transfers"`
	OutgoingTransfers []transferDTO `json:"outgoing_transfers"`
}

func (h *AccountHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	history, err := h.accounts.GetHistory(r.Context(), accountID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("history lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := historyDTO{
		IncomingTransfers: make([]transferDTO, len(history.Incoming)),
		OutgoingTransfers: make([]transferDTO, len(history.Outgoing)),
	}
	for i := range history.Incoming {
		dto.IncomingTransfers[i] = toTransferDTO(&history.Incoming[i])
	}
	for i := range history.Outgoing {
		dto.OutgoingTransfers[i] = toTransferDTO(&history.Outgoing[i])
	}

	RespondSuccess(w, http.StatusOK, dto)
}
