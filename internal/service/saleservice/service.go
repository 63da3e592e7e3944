package saleservice

import (
	"context"
	"fmt"
	"time"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
	"govendas/internal/pkg/metrics"
)

// SaleRepository define o contrato que o Serviço de Vendas espera da camada de Persistência.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
	CreateSaleItems(ctx context.Context, items []domain.SaleItem) error
	DeleteSale(ctx context.Context, id string) error
	UpdateSale(ctx context.Context, id string, upd domain.SaleUpdate) (domain.Sale, error)
	FindSaleByID(ctx context.Context, id string) (domain.Sale, error)
	FindSaleItems(ctx context.Context, saleID string) ([]domain.SaleItem, error)
	FindAllSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
}

// StockValidator é implementado por stockservice.Validator.
type StockValidator interface {
	Validate(ctx context.Context, items []domain.StockItem) domain.StockValidation
}

// StockMutator é implementado por stockservice.Mutator.
type StockMutator interface {
	Apply(ctx context.Context, items []domain.StockItem, direction domain.StockDirection) domain.StockApplyResult
}

// InstallmentScheduler é implementado por installmentservice.Service.
type InstallmentScheduler interface {
	CreateSchedule(ctx context.Context, sale domain.Sale, firstDue time.Time) ([]domain.Installment, error)
	ListBySale(ctx context.Context, saleID string) ([]domain.Installment, error)
	Today() time.Time
}

// Service registra, edita e remove vendas mantendo o estoque consistente.
type Service struct {
	repo         SaleRepository
	validator    StockValidator
	mutator      StockMutator
	installments InstallmentScheduler
	logger       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Vendas.
func NewService(repo SaleRepository, validator StockValidator, mutator StockMutator, installments InstallmentScheduler, logger logger.Logger) *Service {
	return &Service{
		repo:         repo,
		validator:    validator,
		mutator:      mutator,
		installments: installments,
		logger:       logger,
	}
}

// CreateSale registra a venda inteira (cabeçalho, itens, baixa de estoque e parcelas) ou nada.
// Se uma etapa falhar depois do cabeçalho, as etapas anteriores são desfeitas; se a
// compensação também falhar, o erro devolvido é um PartialStateError.
func (s *Service) CreateSale(ctx context.Context, form domain.SaleFormData) (domain.Sale, error) {
	draft, err := SanitizeSaleForm(form, s.installments.Today())
	if err != nil {
		metrics.SalesRejected.WithLabelValues("Form").Inc()
		s.logger.Warn("Formulário de venda rejeitado.", map[string]interface{}{"error": err.Error()})
		return domain.Sale{}, err
	}

	c := &saleCreation{svc: s, draft: draft}
	return c.run(ctx)
}

// UpdateSale altera apenas campos do cabeçalho. Itens, estoque, parcelas e total não mudam.
func (s *Service) UpdateSale(ctx context.Context, id string, req domain.SaleUpdateRequest) (domain.Sale, error) {
	upd, err := SanitizeSaleUpdate(req)
	if err != nil {
		return domain.Sale{}, err
	}

	sale, err := s.repo.UpdateSale(ctx, id, upd)
	if err != nil {
		return domain.Sale{}, err
	}

	s.logger.Info("Venda atualizada.", map[string]interface{}{"sale_id": id})
	return sale, nil
}

// DeleteSale remove a venda (itens e parcelas em cascata) e devolve ao estoque
// as quantidades dos itens de catálogo.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	if _, err := s.repo.FindSaleByID(ctx, id); err != nil {
		return err
	}
	items, err := s.repo.FindSaleItems(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSale(ctx, id); err != nil {
		s.logger.Error("Falha ao remover venda.", err)
		return err
	}

	stock := make([]domain.StockItem, len(items))
	for i, it := range items {
		stock[i] = it.StockItem()
	}

	result := s.mutator.Apply(context.WithoutCancel(ctx), stock, domain.StockRestore)
	if !result.Success {
		metrics.PartialStates.Inc()
		perr := apperror.NewPartialStateError(
			fmt.Sprintf("venda %s removida, mas o estoque não foi totalmente restaurado (restaurados: %v): %v", id, result.Affected, result.Err),
			result.Err)
		s.logger.Error(partialStatePrefix+": estoque não restaurado após remoção de venda.", perr)
		return perr
	}

	s.logger.Info("Venda removida e estoque restaurado.", map[string]interface{}{"sale_id": id, "products": result.Affected})
	return nil
}

// GetSale devolve o cabeçalho com itens e parcelas.
func (s *Service) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	sale, err := s.repo.FindSaleByID(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale.Items, err = s.repo.FindSaleItems(ctx, id); err != nil {
		return domain.Sale{}, err
	}
	if sale.Installments, err = s.installments.ListBySale(ctx, id); err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

// ListSales lista cabeçalhos paginados (padrão: página 1, 20 itens, máximo 100).
func (s *Service) ListSales(ctx context.Context, page, limit int) ([]domain.Sale, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	sales, err := s.repo.FindAllSales(ctx, domain.SaleFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao listar vendas.", err)
	}
	return sales, nil
}
