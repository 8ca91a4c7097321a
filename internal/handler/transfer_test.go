package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwasiobeng/mini-ledger/internal/domain"
	"github.com/kwasiobeng/mini-ledger/internal/service/transfer"
)

type mockEngine struct {
	got    *transfer.ExecuteRequest
	result *domain.Transfer
	err    error
}

func (m *mockEngine) Execute(_ context.Context, req transfer.ExecuteRequest) (*domain.Transfer, error) {
	m.got = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockTransferGetter struct {
	result *domain.Transfer
	err    error
}

func (m *mockTransferGetter) GetByID(_ context.Context, _ int64) (*domain.Transfer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func postTransfer(t *testing.T, h *TransferHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateTransfer(t *testing.T) {
	sourceID := uuid.New()
	destinationID := uuid.New()

	validBody := func() string {
		b, _ := json.Marshal(createTransferRequest{
			SourceAccountID:      sourceID.String(),
			DestinationAccountID: destinationID.String(),
			Amount:               "30.00",
		})
		return string(b)
	}

	t.Run("success", func(t *testing.T) {
		engine := &mockEngine{result: &domain.Transfer{
			ID:                   42,
			SourceAccountID:      sourceID,
			DestinationAccountID: destinationID,
			Amount:               3000,
			CreatedAt:            time.Now().UTC(),
		}}
		h := NewTransferHandler(engine, &mockTransferGetter{})

		rec := postTransfer(t, h, validBody())

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/v1/transfers/42", rec.Header().Get("Location"))

		require.NotNil(t, engine.got)
		assert.Equal(t, sourceID, engine.got.SourceAccountID)
		assert.Equal(t, int64(3000), engine.got.Amount)

		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "30.00", data["amount"])
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewTransferHandler(&mockEngine{}, &mockTransferGetter{})

		rec := postTransfer(t, h, "{not json")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST", decodeResponse(t, rec).Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := NewTransferHandler(&mockEngine{}, &mockTransferGetter{})

		rec := postTransfer(t, h, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
		assert.Len(t, resp.Error.Details, 3)
	})

	t.Run("amount with too many decimals", func(t *testing.T) {
		engine := &mockEngine{}
		h := NewTransferHandler(engine, &mockTransferGetter{})

		b, _ := json.Marshal(createTransferRequest{
			SourceAccountID:      sourceID.String(),
			DestinationAccountID: destinationID.String(),
			Amount:               "10.001",
		})
		rec := postTransfer(t, h, string(b))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_AMOUNT", decodeResponse(t, rec).Error.Code)
		assert.Nil(t, engine.got, "engine must not be invoked on a bad amount")
	})

	t.Run("domain errors map to stable codes", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"same account", domain.ErrSameAccount, http.StatusUnprocessableEntity, "SAME_ACCOUNT"},
			{"account not found", domain.ErrAccountNotFound, http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND"},
			{"insufficient balance", domain.ErrInsufficientBalance, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
			{"transfer failed", domain.ErrTransferFailed, http.StatusServiceUnavailable, "TRANSFER_FAILED"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				h := NewTransferHandler(&mockEngine{err: tc.err}, &mockTransferGetter{})

				rec := postTransfer(t, h, validBody())

				assert.Equal(t, tc.wantStatus, rec.Code)
				resp := decodeResponse(t, rec)
				assert.False(t, resp.Success)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
			})
		}
	})
}

func TestGetTransfer(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		tr := &domain.Transfer{
			ID:                   7,
			SourceAccountID:      uuid.New(),
			DestinationAccountID: uuid.New(),
			Amount:               150,
			CreatedAt:            time.Now().UTC(),
		}
		h := NewTransferHandler(&mockEngine{}, &mockTransferGetter{result: tr})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/7", nil)
		req.SetPathValue("id", "7")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		data := decodeResponse(t, rec).Data.(map[string]any)
		assert.Equal(t, "1.50", data["amount"])
	})

	t.Run("not found", func(t *testing.T) {
		h := NewTransferHandler(&mockEngine{}, &mockTransferGetter{err: domain.ErrNotFound})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/999", nil)
		req.SetPathValue("id", "999")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		h := NewTransferHandler(&mockEngine{}, &mockTransferGetter{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/abc", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
