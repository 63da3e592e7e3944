package saleservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
	"govendas/internal/repository/memoryrepo"
	"govendas/internal/service/installmentservice"
	"govendas/internal/service/saleservice"
	"govendas/internal/service/stockservice"
)

var errFault = errors.New("falha simulada de armazenamento")

// faultyStore injeta falhas em métodos específicos do store em memória.
type faultyStore struct {
	*memoryrepo.Store
	failHeader       bool
	failItems        bool
	failInstallments bool
	failDelete       bool
	failAdjust       map[string]bool

	mu          sync.Mutex
	adjustCalls int
}

func (f *faultyStore) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if f.failHeader {
		return domain.Sale{}, errFault
	}
	return f.Store.CreateSale(ctx, sale)
}

func (f *faultyStore) CreateSaleItems(ctx context.Context, items []domain.SaleItem) error {
	if f.failItems {
		return errFault
	}
	return f.Store.CreateSaleItems(ctx, items)
}

func (f *faultyStore) CreateInstallments(ctx context.Context, in []domain.Installment) error {
	if f.failInstallments {
		return errFault
	}
	return f.Store.CreateInstallments(ctx, in)
}

func (f *faultyStore) DeleteSale(ctx context.Context, id string) error {
	if f.failDelete {
		return errFault
	}
	return f.Store.DeleteSale(ctx, id)
}

func (f *faultyStore) AdjustStock(ctx context.Context, id string, delta int) (domain.Product, error) {
	f.mu.Lock()
	f.adjustCalls++
	f.mu.Unlock()
	if f.failAdjust[id] {
		return domain.Product{}, errFault
	}
	return f.Store.AdjustStock(ctx, id, delta)
}

func newService(store *faultyStore) *saleservice.Service {
	log := logger.NewLogger("error")
	installments := installmentservice.NewService(store, log,
		installmentservice.WithClock(func() time.Time { return today.Add(10 * time.Hour) }))
	return saleservice.NewService(
		store,
		stockservice.NewValidator(store, log),
		stockservice.NewMutator(store, log),
		installments,
		log,
	)
}

func newStore(t *testing.T, stock map[string]int) *faultyStore {
	t.Helper()
	s := memoryrepo.New()
	for id, qty := range stock {
		_, err := s.SaveProduct(context.Background(), domain.Product{
			ID: id, Title: "Produto " + id, Price: decimal.NewFromInt(150), IsActive: true, StockQuantity: qty,
		})
		require.NoError(t, err)
	}
	return &faultyStore{Store: s, failAdjust: map[string]bool{}}
}

func stockOf(t *testing.T, s *faultyStore, id string) int {
	t.Helper()
	p, err := s.GetProductStock(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func assertNoSales(t *testing.T, s *faultyStore) {
	t.Helper()
	sales, err := s.FindAllSales(context.Background(), domain.SaleFilter{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, sales)
	installments, err := s.FindAllInstallments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installments)
}

func installmentForm(productID string, qty int) domain.SaleFormData {
	return domain.SaleFormData{
		CustomerName:      "Maria",
		PaymentMethod:     "installments",
		InstallmentsCount: 3,
		Items: []domain.SaleItemForm{
			{ProductID: productID, ProductName: "Caneca", Quantity: qty, UnitPrice: decimal.RequireFromString("150.00")},
		},
	}
}

func TestCreateSale_InsufficientStockWritesNothing(t *testing.T) {
	store := newStore(t, map[string]int{"p": 2})
	svc := newService(store)

	_, err := svc.CreateSale(context.Background(), installmentForm("p", 3))

	var conflict *apperror.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Violations[0], "solicitado 3, disponível 2")
	assert.Equal(t, 2, stockOf(t, store, "p"))
	assertNoSales(t, store)
}

func TestCreateSale_CommitsEverything(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	sale, err := svc.CreateSale(context.Background(), installmentForm("p", 2))
	require.NoError(t, err)

	assert.Equal(t, 3, stockOf(t, store, "p"))
	assert.Equal(t, "300.00", sale.TotalAmount.StringFixed(2))

	installments, err := store.FindInstallmentsBySale(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	total := decimal.Zero
	for _, in := range installments {
		total = total.Add(in.Amount)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("300.00")))
	// Sem first_due_date a primeira parcela vence um mês após a venda.
	assert.Equal(t, time.Date(2026, 11, 19, 0, 0, 0, 0, time.UTC), installments[0].DueDate)

	full, err := svc.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Len(t, full.Items, 1)
	assert.Len(t, full.Installments, 3)
}

func TestCreateSale_InstallmentFailureRestoresStock(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	store.failInstallments = true
	svc := newService(store)

	_, err := svc.CreateSale(context.Background(), installmentForm("p", 2))

	require.ErrorIs(t, err, errFault)
	var partial *apperror.PartialStateError
	assert.False(t, errors.As(err, &partial))
	assert.Equal(t, 5, stockOf(t, store, "p"))
	assertNoSales(t, store)
}

func TestCreateSale_PartialDecrementRestoresAppliedItems(t *testing.T) {
	store := newStore(t, map[string]int{"a": 5, "b": 5})
	store.failAdjust["b"] = true
	svc := newService(store)

	form := installmentForm("a", 2)
	form.Items = append(form.Items, domain.SaleItemForm{ProductID: "b", ProductName: "Camiseta", Quantity: 1, UnitPrice: decimal.NewFromInt(10)})

	_, err := svc.CreateSale(context.Background(), form)

	require.Error(t, err)
	assert.Equal(t, 5, stockOf(t, store, "a"))
	assert.Equal(t, 5, stockOf(t, store, "b"))
	assertNoSales(t, store)
}

func TestCreateSale_FailedCompensationReportsPartialState(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	store.failInstallments = true
	store.failDelete = true
	svc := newService(store)

	_, err := svc.CreateSale(context.Background(), installmentForm("p", 2))

	var partial *apperror.PartialStateError
	require.ErrorAs(t, err, &partial)
	assert.Contains(t, partial.Msg, "WritingInstallments")
	// O estoque foi devolvido; o cabeçalho ficou para trás.
	assert.Equal(t, 5, stockOf(t, store, "p"))
	status, category, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 500, status)
	assert.Equal(t, "PARTIAL_STATE", category)
}

func TestCreateSale_HeaderFailureWritesNothing(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	store.failHeader = true
	svc := newService(store)

	_, err := svc.CreateSale(context.Background(), installmentForm("p", 2))

	require.ErrorIs(t, err, errFault)
	var partial *apperror.PartialStateError
	assert.False(t, errors.As(err, &partial))
	assert.Equal(t, 5, stockOf(t, store, "p"))
	assert.Zero(t, store.adjustCalls)
	assertNoSales(t, store)
}

func TestCreateSale_ItemsFailureDeletesHeader(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	store.failItems = true
	svc := newService(store)

	_, err := svc.CreateSale(context.Background(), installmentForm("p", 2))

	require.ErrorIs(t, err, errFault)
	assert.Contains(t, err.Error(), "WritingItems")
	var partial *apperror.PartialStateError
	assert.False(t, errors.As(err, &partial))
	// O estoque nunca foi tocado.
	assert.Equal(t, 5, stockOf(t, store, "p"))
	assert.Zero(t, store.adjustCalls)
	assertNoSales(t, store)
}

func TestCreateSale_ItemsFailureWithFailedDeleteIsPartialState(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	store.failItems = true
	store.failDelete = true
	svc := newService(store)

	_, err := svc.CreateSale(context.Background(), installmentForm("p", 2))

	var partial *apperror.PartialStateError
	require.ErrorAs(t, err, &partial)
	assert.Contains(t, partial.Msg, "WritingItems")
	assert.Equal(t, 5, stockOf(t, store, "p"))
}

func TestCreateSale_TooSmallTotalForPlanWritesNothing(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	form := installmentForm("p", 1)
	form.Items[0].UnitPrice = decimal.RequireFromString("0.01")

	_, err := svc.CreateSale(context.Background(), form)

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "installments_count:")
	assert.Zero(t, store.adjustCalls)
	assert.Equal(t, 5, stockOf(t, store, "p"))
	assertNoSales(t, store)
}

func TestCreateSale_OffCatalogItemIsRejected(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	form := installmentForm("p", 1)
	form.Items = append(form.Items, domain.SaleItemForm{ProductName: "Embrulho", Quantity: 1, UnitPrice: decimal.NewFromInt(5)})

	_, err := svc.CreateSale(context.Background(), form)

	var conflict *apperror.StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, conflict.Violations, 1)
	assert.Equal(t, 5, stockOf(t, store, "p"))
}

func TestCreateSale_ConcurrentSalesNeverOversell(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			form := installmentForm("p", 1)
			form.PaymentMethod = "cash"
			form.InstallmentsCount = 1
			if _, err := svc.CreateSale(context.Background(), form); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, stockOf(t, store, "p"))
	sales, err := store.FindAllSales(context.Background(), domain.SaleFilter{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, sales, 5)
}

func TestDeleteSale_RestoresStock(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	sale, err := svc.CreateSale(context.Background(), installmentForm("p", 2))
	require.NoError(t, err)
	require.Equal(t, 3, stockOf(t, store, "p"))

	require.NoError(t, svc.DeleteSale(context.Background(), sale.ID))

	assert.Equal(t, 5, stockOf(t, store, "p"))
	assertNoSales(t, store)

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, svc.DeleteSale(context.Background(), sale.ID), &notFound)
}

func TestDeleteSale_RestoreFailureIsPartialState(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	sale, err := svc.CreateSale(context.Background(), installmentForm("p", 2))
	require.NoError(t, err)

	store.failAdjust["p"] = true
	err = svc.DeleteSale(context.Background(), sale.ID)

	var partial *apperror.PartialStateError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 3, stockOf(t, store, "p"))
}

func TestUpdateSale_ChangesHeaderOnly(t *testing.T) {
	store := newStore(t, map[string]int{"p": 5})
	svc := newService(store)

	sale, err := svc.CreateSale(context.Background(), installmentForm("p", 2))
	require.NoError(t, err)

	status := "paid"
	name := "Maria Souza"
	updated, err := svc.UpdateSale(context.Background(), sale.ID, domain.SaleUpdateRequest{PaymentStatus: &status, CustomerName: &name})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "Maria Souza", updated.CustomerName)
	assert.True(t, updated.TotalAmount.Equal(sale.TotalAmount))
	assert.Equal(t, 3, stockOf(t, store, "p"))

	full, err := svc.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Len(t, full.Items, 1)
	assert.Len(t, full.Installments, 3)
}
