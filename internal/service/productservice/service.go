package productservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	FindProductByID(ctx context.Context, id string) (domain.Product, error)
	FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// Service cadastra e consulta produtos do catálogo.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateProduct valida e grava um novo produto. O estoque inicial só é definido aqui;
// depois disso ele é movido apenas por vendas.
func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	// 1. Validação de Regras de Negócio
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Product{}, apperror.NewValidationError("O título do produto é obrigatório.")
	}
	if !req.Price.IsPositive() {
		return domain.Product{}, apperror.NewValidationError("O preço do produto deve ser positivo.")
	}
	if !req.Price.Equal(req.Price.Round(2)) {
		return domain.Product{}, apperror.NewValidationError("O preço do produto aceita no máximo duas casas decimais.")
	}
	if req.StockQuantity < 0 {
		return domain.Product{}, apperror.NewValidationError("A quantidade em estoque não pode ser negativa.")
	}

	// 2. Preenchimento de ID e metadados
	now := time.Now().UTC()
	product := domain.Product{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price.Round(2),
		IsActive:      req.IsActive == nil || *req.IsActive,
		StockQuantity: req.StockQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 3. Delegação para a Camada de Persistência
	created, err := s.repo.SaveProduct(ctx, product)
	if err != nil {
		s.logger.Error("Falha ao salvar produto no repositório.", err)
		return domain.Product{}, fmt.Errorf("falha ao salvar produto no repositório: %w", err)
	}

	s.logger.Info("Produto cadastrado.", map[string]interface{}{"product_id": created.ID, "stock": created.StockQuantity})
	return created, nil
}

// GetProductByID busca um produto pelo ID (UUID).
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	// 1. Validação de Formato
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	// 2. Delegação para o Repositório
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		// 3. Tradução de Erro: NotFound do repositório vira 404 de negócio
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não foi encontrado.", id))
		}
		return domain.Product{}, err
	}

	return product, nil
}

// GetProducts lista produtos com paginação. Page < 1 vira 1, limit acima de 100 vira 100
// e limit <= 0 usa o padrão de 10.
func (s *Service) GetProducts(ctx context.Context, page, limit int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	products, err := s.repo.FindAllProducts(ctx, domain.ProductFilter{Page: page, Limit: limit})
	if err != nil {
		s.logger.Error("Falha ao buscar produtos no repositório.", err)
		return nil, apperror.NewInternalError(fmt.Sprintf("Falha interna ao buscar produtos. %s", err.Error()), err)
	}
	return products, nil
}
