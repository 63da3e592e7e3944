package productservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
	"govendas/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	if fn, ok := args.Get(0).(func(context.Context, domain.Product) domain.Product); ok {
		return fn(ctx, product), args.Error(1)
	}
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

// TestCreateProduct_Success testa o cadastro com os valores padrão.
func TestCreateProduct_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	mockRepo.On("SaveProduct", mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(func(_ context.Context, p domain.Product) domain.Product { return p }, nil)

	product, err := svc.CreateProduct(context.Background(), domain.ProductCreateRequest{
		Title:         " Caneca ",
		Price:         decimal.RequireFromString("49.90"),
		StockQuantity: 12,
	})

	require.NoError(t, err)
	assert.Equal(t, "Caneca", product.Title)
	assert.True(t, product.IsActive)
	assert.Equal(t, 12, product.StockQuantity)
	_, parseErr := uuid.Parse(product.ID)
	assert.NoError(t, parseErr)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_Validation testa as regras de entrada.
func TestCreateProduct_Validation(t *testing.T) {
	cases := []domain.ProductCreateRequest{
		{Title: "", Price: decimal.NewFromInt(1)},
		{Title: "x", Price: decimal.Zero},
		{Title: "x", Price: decimal.RequireFromString("1.234")},
		{Title: "x", Price: decimal.NewFromInt(1), StockQuantity: -1},
	}
	for _, req := range cases {
		mockRepo := new(MockProductRepository)
		svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

		_, err := svc.CreateProduct(context.Background(), req)

		assert.IsType(t, &apperror.ValidationError{}, err)
		mockRepo.AssertNotCalled(t, "SaveProduct", mock.Anything, mock.Anything)
	}
}

// TestGetProductByID_NotFound testa a tradução do erro do repositório.
func TestGetProductByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))
	id := uuid.New().String()

	mockRepo.On("FindProductByID", mock.Anything, id).Return(domain.Product{}, apperror.NewNotFoundError("x"))

	_, err := svc.GetProductByID(context.Background(), id)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Contains(t, err.Error(), id)
}

// TestGetProductByID_InvalidUUID testa a validação de formato.
func TestGetProductByID_InvalidUUID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	_, err := svc.GetProductByID(context.Background(), "123")

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindProductByID", mock.Anything, mock.Anything)
}

// TestGetProducts_Success testa a busca de produtos.
func TestGetProducts_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	expectedProducts := []domain.Product{
		{ID: uuid.New().String(), Title: "Product A"},
		{ID: uuid.New().String(), Title: "Product B"},
	}
	mockRepo.On("FindAllProducts", mock.Anything, domain.ProductFilter{Page: 1, Limit: 10}).Return(expectedProducts, nil)

	products, err := svc.GetProducts(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

// TestGetProducts_Fail_RepoError testa um erro do repositório.
func TestGetProducts_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	repoError := errors.New("database connection lost")
	mockRepo.On("FindAllProducts", mock.Anything, domain.ProductFilter{Page: 1, Limit: 10}).Return([]domain.Product{}, repoError)

	_, err := svc.GetProducts(context.Background(), 1, 10)

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "Erro Interno: Falha interna ao buscar produtos.")
	assert.Contains(t, err.Error(), "database connection lost")
	mockRepo.AssertExpectations(t)
}

// TestGetProducts_PageAndLimitSafeguards testa os ajustes de paginação.
func TestGetProducts_PageAndLimitSafeguards(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	mockRepo.On("FindAllProducts", mock.Anything, domain.ProductFilter{Page: 1, Limit: 100}).Return([]domain.Product{}, nil).Once()
	mockRepo.On("FindAllProducts", mock.Anything, domain.ProductFilter{Page: 1, Limit: 10}).Return([]domain.Product{}, nil).Once()

	_, err := svc.GetProducts(context.Background(), 1, 150)
	assert.NoError(t, err)
	_, err = svc.GetProducts(context.Background(), 0, 0)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}
