package stockservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
	"govendas/internal/service/stockservice"
)

// MockStockRepository é uma implementação mock de StockReader e StockWriter.
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetProductStock(ctx context.Context, productID string) (domain.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockStockRepository) AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error) {
	args := m.Called(ctx, productID, delta)
	return args.Get(0).(domain.Product), args.Error(1)
}

// TestValidate_AllItemsAvailable testa o caminho feliz.
func TestValidate_AllItemsAvailable(t *testing.T) {
	mockRepo := new(MockStockRepository)
	v := stockservice.NewValidator(mockRepo, logger.NewLogger("error"))

	mockRepo.On("GetProductStock", mock.Anything, "p1").
		Return(domain.Product{ID: "p1", IsActive: true, StockQuantity: 5}, nil)

	result := v.Validate(context.Background(), []domain.StockItem{{ProductID: "p1", ProductName: "Caneca", Quantity: 5}})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
	mockRepo.AssertExpectations(t)
}

// TestValidate_ReportsEveryViolation garante que a validação é exaustiva.
func TestValidate_ReportsEveryViolation(t *testing.T) {
	mockRepo := new(MockStockRepository)
	v := stockservice.NewValidator(mockRepo, logger.NewLogger("error"))

	mockRepo.On("GetProductStock", mock.Anything, "inativo").
		Return(domain.Product{ID: "inativo", IsActive: false, StockQuantity: 10}, nil)
	mockRepo.On("GetProductStock", mock.Anything, "pouco").
		Return(domain.Product{ID: "pouco", IsActive: true, StockQuantity: 2}, nil)
	mockRepo.On("GetProductStock", mock.Anything, "sumiu").
		Return(domain.Product{}, apperror.NewNotFoundError("sumiu"))
	mockRepo.On("GetProductStock", mock.Anything, "db").
		Return(domain.Product{}, errors.New("conexão perdida"))

	result := v.Validate(context.Background(), []domain.StockItem{
		{ProductName: "Avulso", Quantity: 1},
		{ProductID: "inativo", ProductName: "Inativo", Quantity: 1},
		{ProductID: "pouco", ProductName: "Pouco", Quantity: 3},
		{ProductID: "sumiu", ProductName: "Sumiu", Quantity: 1},
		{ProductID: "db", ProductName: "Banco", Quantity: 1},
	})

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 5)
	assert.Contains(t, result.Violations[0], "ausente")
	assert.Contains(t, result.Violations[1], "inativo")
	assert.Contains(t, result.Violations[2], "solicitado 3, disponível 2")
	assert.Contains(t, result.Violations[3], "não encontrado")
	assert.Contains(t, result.Violations[4], "falha ao consultar")
	mockRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything)
}

// TestValidate_SumsRepeatedProduct testa o mesmo produto em duas linhas.
func TestValidate_SumsRepeatedProduct(t *testing.T) {
	mockRepo := new(MockStockRepository)
	v := stockservice.NewValidator(mockRepo, logger.NewLogger("error"))

	mockRepo.On("GetProductStock", mock.Anything, "p1").
		Return(domain.Product{ID: "p1", IsActive: true, StockQuantity: 3}, nil)

	result := v.Validate(context.Background(), []domain.StockItem{
		{ProductID: "p1", ProductName: "Caneca", Quantity: 2},
		{ProductID: "p1", ProductName: "Caneca", Quantity: 2},
	})

	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "solicitado 4, disponível 3")
}

// TestApply_DecrementContinuesAfterItemFailure testa a aplicação parcial.
func TestApply_DecrementContinuesAfterItemFailure(t *testing.T) {
	mockRepo := new(MockStockRepository)
	m := stockservice.NewMutator(mockRepo, logger.NewLogger("error"))

	mockRepo.On("AdjustStock", mock.Anything, "a", -2).Return(domain.Product{ID: "a", StockQuantity: 3}, nil)
	mockRepo.On("AdjustStock", mock.Anything, "b", -9).Return(domain.Product{}, apperror.NewConflictError("estoque insuficiente"))
	mockRepo.On("AdjustStock", mock.Anything, "c", -1).Return(domain.Product{ID: "c", StockQuantity: 0}, nil)

	result := m.Apply(context.Background(), []domain.StockItem{
		{ProductID: "a", ProductName: "A", Quantity: 2},
		{ProductID: "b", ProductName: "B", Quantity: 9},
		{ProductName: "Avulso", Quantity: 1},
		{ProductID: "c", ProductName: "C", Quantity: 1},
	}, domain.StockDecrement)

	assert.False(t, result.Success)
	assert.Equal(t, []string{"a", "c"}, result.Affected)
	assert.Len(t, result.Applied, 2)
	require.Error(t, result.Err)
	assert.Len(t, multierr.Errors(result.Err), 1)
	assert.Contains(t, result.Err.Error(), "B:")
	mockRepo.AssertExpectations(t)
}

// TestApply_RestoreAddsQuantity testa o sentido de restauração.
func TestApply_RestoreAddsQuantity(t *testing.T) {
	mockRepo := new(MockStockRepository)
	m := stockservice.NewMutator(mockRepo, logger.NewLogger("error"))

	mockRepo.On("AdjustStock", mock.Anything, "a", 2).Return(domain.Product{ID: "a", StockQuantity: 7}, nil)

	result := m.Apply(context.Background(), []domain.StockItem{{ProductID: "a", ProductName: "A", Quantity: 2}}, domain.StockRestore)

	assert.True(t, result.Success)
	assert.NoError(t, result.Err)
	assert.Equal(t, []string{"a"}, result.Affected)
	mockRepo.AssertExpectations(t)
}
