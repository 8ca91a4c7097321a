package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/logging"
	"github.com/kwasiobeng/mini-ledger/internal/service/transfer"
)

type transferService interface {
	Execute(ctx context.Context, req transfer.ExecuteRequest) (*domain.Transfer, error)
}

type transferGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Transfer, error)
}

type TransferHandler struct {
	engine    transferService
	transfers transferGetter
}

func NewTransferHandler(engine transferService, transfers transferGetter) *TransferHandler {
	return &TransferHandler{engine: engine, transfers: transfers}
}

type createTransferRequest struct {
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               string `json:"amount"`
}

func (r createTransferRequest) Validate() []FieldError {
	var errs []FieldError

	if r.SourceAccountID == "" {
		errs = append(errs, FieldError{Field: "source_account_id", Message: "required"})
	} else if _, err := uuid.Parse(r.SourceAccountID); err != nil {
		errs = append(errs, FieldError{Field: "source_account_id", Message: "must be a valid uuid"})
	}

	if r.DestinationAccountID == "" {
		errs = append(errs, FieldError{Field: "destination_account_id", Message: "required"})
	} else if _, err := uuid.Parse(r.DestinationAccountID); err != nil {
		errs = append(errs, FieldError{Field: "destination_account_id", Message: "must be a valid uuid"})
	}

	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}

	return errs
}

type transferDTO struct {
	ID                   int64     `json:"id"`
	SourceAccountID      uuid.UUID `json:"source_account_id"`
	DestinationAccountID uuid.UUID `json:"destination_account_id"`
	Amount               string    `json:"amount"`
	CreatedAt            time.Time `json:"created_at"`
}

func toTransferDTO(t *domain.Transfer) transferDTO {
	return transferDTO{
		ID:                   t.ID,
		SourceAccountID:      t.SourceAccountID,
		DestinationAccountID: t.DestinationAccountID,
		Amount:               domain.FormatAmount(t.Amount),
		CreatedAt:            t.CreatedAt,
	}
}

func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	t, err := h.engine.Execute(r.Context(), transfer.ExecuteRequest{
		SourceAccountID:      uuid.MustParse(req.SourceAccountID),
		DestinationAccountID: uuid.MustParse(req.DestinationAccountID),
		Amount:               amount,
	})
	if err != nil {
		log.Warn("transfer rejected", "error", err)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/transfers/%d", t.ID))
	RespondSuccess(w, http.StatusCreated, toTransferDTO(t))
}

func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	t, err := h.transfers.GetByID(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("transfer lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransferDTO(t))
}
