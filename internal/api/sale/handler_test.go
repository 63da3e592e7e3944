package sale_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"govendas/internal/api/sale"
	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) CreateSale(ctx context.Context, form domain.SaleFormData) (domain.Sale, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(domain.Sale), args.Error(1)
}

func (m *MockSaleService) UpdateSale(ctx context.Context, id string, req domain.SaleUpdateRequest) (domain.Sale, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(domain.Sale), args.Error(1)
}

func (m *MockSaleService) DeleteSale(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSaleService) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Sale), args.Error(1)
}

func (m *MockSaleService) ListSales(ctx context.Context, page, limit int) ([]domain.Sale, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]domain.Sale), args.Error(1)
}

// memLock guarda as chaves em um map, como o SETNX do Redis.
type memLock struct {
	held     map[string]bool
	released []string
	err      error
}

func newMemLock() *memLock { return &memLock{held: map[string]bool{}} }

func (l *memLock) Acquire(_ context.Context, scope, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	k := scope + ":" + key
	if l.held[k] {
		return false, nil
	}
	l.held[k] = true
	return true, nil
}

func (l *memLock) Release(_ context.Context, scope, key string) error {
	k := scope + ":" + key
	delete(l.held, k)
	l.released = append(l.released, k)
	return nil
}

const saleBody = `{"customer_name":"Maria","payment_method":"cash","sale_date":"2026-10-19",
  "items":[{"product_id":"p1","product_name":"Caneca","quantity":2,"unit_price":"10.00"}]}`

func newHandler(svc *MockSaleService, lock *memLock) *sale.Handler {
	return sale.NewHandler(svc, lock, logger.New("error", io.Discard))
}

func postSale(h *sale.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(saleBody))
	if key != "" {
		req.Header.Set(sale.IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.CreateSaleHandler(rec, req)
	return rec
}

func TestCreateSaleHandler_Created(t *testing.T) {
	svc := new(MockSaleService)
	created := domain.Sale{ID: "s1", CustomerName: "Maria", TotalAmount: decimal.RequireFromString("20.00")}
	svc.On("CreateSale", mock.Anything, mock.MatchedBy(func(f domain.SaleFormData) bool {
		return f.CustomerName == "Maria" && len(f.Items) == 1
	})).Return(created, nil).Once()

	rec := postSale(newHandler(svc, newMemLock()), "form-1")

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "s1", got.ID)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("20")))
	svc.AssertExpectations(t)
}

func TestCreateSaleHandler_DuplicateSubmissionIsRejected(t *testing.T) {
	svc := new(MockSaleService)
	svc.On("CreateSale", mock.Anything, mock.Anything).Return(domain.Sale{ID: "s1"}, nil).Once()
	h := newHandler(svc, newMemLock())

	first := postSale(h, "form-1")
	second := postSale(h, "form-1")

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)
	svc.AssertNumberOfCalls(t, "CreateSale", 1)
}

func TestCreateSaleHandler_FailedSaleReleasesKey(t *testing.T) {
	svc := new(MockSaleService)
	svc.On("CreateSale", mock.Anything, mock.Anything).
		Return(domain.Sale{}, apperror.NewStockConflictError([]string{"estoque insuficiente para \"Caneca\""})).Once()
	svc.On("CreateSale", mock.Anything, mock.Anything).Return(domain.Sale{ID: "s2"}, nil).Once()
	lock := newMemLock()
	h := newHandler(svc, lock)

	rejected := postSale(h, "form-1")
	retried := postSale(h, "form-1")

	assert.Equal(t, http.StatusConflict, rejected.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rejected.Body.Bytes(), &body))
	assert.Equal(t, "STOCK_CONFLICT", body.Category)
	assert.Contains(t, body.Message, "Caneca")

	assert.Equal(t, http.StatusCreated, retried.Code)
	assert.Equal(t, []string{"sale:form-1"}, lock.released)
}

func TestCreateSaleHandler_LockErrorDoesNotBlockSale(t *testing.T) {
	svc := new(MockSaleService)
	svc.On("CreateSale", mock.Anything, mock.Anything).Return(domain.Sale{ID: "s1"}, nil).Once()
	lock := newMemLock()
	lock.err = errors.New("redis fora")

	rec := postSale(newHandler(svc, lock), "form-1")

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateSaleHandler_PartialStateIsServerError(t *testing.T) {
	svc := new(MockSaleService)
	svc.On("CreateSale", mock.Anything, mock.Anything).
		Return(domain.Sale{}, apperror.NewPartialStateError("estoque não restaurado", errors.New("db fora"))).Once()

	rec := postSale(newHandler(svc, newMemLock()), "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "PARTIAL_STATE")
}

func TestCreateSaleHandler_MalformedBody(t *testing.T) {
	svc := new(MockSaleService)
	req := httptest.NewRequest(http.MethodPost, "/v1/sales", strings.NewReader(`{"items":`))
	rec := httptest.NewRecorder()

	newHandler(svc, newMemLock()).CreateSaleHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
}

func TestDeleteSaleHandler_UsesPathID(t *testing.T) {
	svc := new(MockSaleService)
	svc.On("DeleteSale", mock.Anything, "s1").Return(nil).Once()
	h := newHandler(svc, newMemLock())

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /v1/sales/{id}", h.DeleteSaleHandler)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/sales/s1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
