package stockservice

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
	"govendas/internal/pkg/metrics"
)

// StockReader é o que o validador precisa da camada de persistência: leitura sem cache.
type StockReader interface {
	GetProductStock(ctx context.Context, productID string) (domain.Product, error)
}

// StockWriter aplica um delta atômico por produto, recusando resultado negativo.
type StockWriter interface {
	AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error)
}

// Validator checa disponibilidade sem efeitos colaterais.
type Validator struct {
	repo   StockReader
	logger logger.Logger
}

// NewValidator cria e retorna uma nova instância do validador de estoque.
func NewValidator(repo StockReader, logger logger.Logger) *Validator {
	return &Validator{repo: repo, logger: logger}
}

// Validate percorre todos os itens e devolve todas as violações encontradas.
// Itens sem produto do catálogo geram violação e não têm a quantidade checada.
// Quando o mesmo produto aparece em mais de uma linha, as quantidades são somadas.
func (v *Validator) Validate(ctx context.Context, items []domain.StockItem) domain.StockValidation {
	violations := []string{}
	reserved := make(map[string]int)

	for i, it := range items {
		name := it.ProductName
		if name == "" {
			name = fmt.Sprintf("item %d", i+1)
		}

		if it.ProductID == "" {
			violations = append(violations, fmt.Sprintf("ID do produto ausente para %q", name))
			continue
		}
		if it.Quantity < 1 {
			violations = append(violations, fmt.Sprintf("quantidade inválida para %q: %d", name, it.Quantity))
			continue
		}

		product, err := v.repo.GetProductStock(ctx, it.ProductID)
		if err != nil {
			var notFound *apperror.NotFoundError
			if errors.As(err, &notFound) {
				violations = append(violations, fmt.Sprintf("produto %q não encontrado", name))
				continue
			}
			v.logger.Error("Falha ao consultar estoque durante a validação.", err)
			violations = append(violations, fmt.Sprintf("falha ao consultar o estoque de %q", name))
			continue
		}

		if !product.IsActive {
			violations = append(violations, fmt.Sprintf("produto %q está inativo", name))
			continue
		}

		requested := reserved[it.ProductID] + it.Quantity
		if product.StockQuantity < requested {
			violations = append(violations, fmt.Sprintf("estoque insuficiente para %q: solicitado %d, disponível %d",
				name, requested, product.StockQuantity))
			continue
		}
		reserved[it.ProductID] = requested
	}

	if len(violations) > 0 {
		v.logger.Warn("Validação de estoque recusou itens.", map[string]interface{}{"violations": violations})
	}
	return domain.StockValidation{IsValid: len(violations) == 0, Violations: violations}
}

// Mutator é o único componente que escreve stock_quantity.
type Mutator struct {
	repo   StockWriter
	logger logger.Logger
}

// NewMutator cria e retorna uma nova instância do ajustador de estoque.
func NewMutator(repo StockWriter, logger logger.Logger) *Mutator {
	return &Mutator{repo: repo, logger: logger}
}

// Apply ajusta produto a produto. Uma falha num item não impede os demais;
// o resultado lista exatamente o que foi gravado para que o chamador possa compensar.
func (m *Mutator) Apply(ctx context.Context, items []domain.StockItem, direction domain.StockDirection) domain.StockApplyResult {
	result := domain.StockApplyResult{Affected: []string{}, Applied: []domain.StockItem{}}
	seen := make(map[string]bool)
	var errs error

	for _, it := range items {
		if it.ProductID == "" {
			continue
		}

		delta := it.Quantity
		if direction == domain.StockDecrement {
			delta = -it.Quantity
		}

		product, err := m.repo.AdjustStock(ctx, it.ProductID, delta)
		if err != nil {
			metrics.StockAdjustments.WithLabelValues(direction.String(), "failed").Inc()
			m.logger.Warn("Falha ao ajustar estoque de um item.", map[string]interface{}{
				"product_id": it.ProductID,
				"direction":  direction.String(),
				"quantity":   it.Quantity,
				"error":      err.Error(),
			})
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", it.ProductName, err))
			continue
		}

		metrics.StockAdjustments.WithLabelValues(direction.String(), "ok").Inc()
		m.logger.Debug("Estoque ajustado.", map[string]interface{}{
			"product_id":   it.ProductID,
			"direction":    direction.String(),
			"new_quantity": product.StockQuantity,
		})

		result.Applied = append(result.Applied, it)
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			result.Affected = append(result.Affected, it.ProductID)
		}
	}

	result.Err = errs
	result.Success = errs == nil
	return result
}
