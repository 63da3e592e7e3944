package saleservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/metrics"
)

//go:generate stringer -type=CreationStep -trimprefix=Step

// CreationStep é a etapa corrente da criação de uma venda.
type CreationStep int

const (
	StepValidatingStock CreationStep = iota
	StepWritingHeader
	StepWritingItems
	StepDecrementingStock
	StepWritingInstallments
	StepCommitted
	StepRolledBack
)

const partialStatePrefix = "ESTADO PARCIAL IRRECUPERÁVEL"

// saleCreation guarda o que já foi gravado para saber o que desfazer.
type saleCreation struct {
	svc   *Service
	draft SaleDraft
	step  CreationStep

	sale          domain.Sale
	headerWritten bool
	decremented   []domain.StockItem
}

func (c *saleCreation) enter(step CreationStep) {
	c.step = step
	c.svc.logger.Debug("Criação de venda: etapa "+step.String(), map[string]interface{}{"sale_id": c.sale.ID})
}

func (c *saleCreation) run(ctx context.Context) (domain.Sale, error) {
	// 1. Validação de estoque: nada foi gravado ainda
	c.enter(StepValidatingStock)
	if v := c.svc.validator.Validate(ctx, c.draft.StockItems()); !v.IsValid {
		return c.reject(apperror.NewStockConflictError(v.Violations))
	}

	// 2. Cabeçalho
	c.enter(StepWritingHeader)
	now := time.Now().UTC()
	sale, err := c.svc.repo.CreateSale(ctx, domain.Sale{
		ID:                uuid.New().String(),
		CustomerName:      c.draft.CustomerName,
		CustomerEmail:     c.draft.CustomerEmail,
		CustomerPhone:     c.draft.CustomerPhone,
		TotalAmount:       c.draft.Total,
		PaymentMethod:     c.draft.PaymentMethod,
		PaymentStatus:     c.draft.PaymentStatus,
		InstallmentsCount: c.draft.InstallmentsCount,
		SaleDate:          c.draft.SaleDate,
		Notes:             c.draft.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return c.reject(err)
	}
	c.sale = sale
	c.headerWritten = true

	// 3. Itens
	c.enter(StepWritingItems)
	items := make([]domain.SaleItem, len(c.draft.Items))
	for i, it := range c.draft.Items {
		it.ID = uuid.New().String()
		it.SaleID = sale.ID
		it.CreatedAt = now
		items[i] = it
	}
	if err := c.svc.repo.CreateSaleItems(ctx, items); err != nil {
		return c.rollback(ctx, err)
	}
	c.sale.Items = items

	// 4. Baixa de estoque
	c.enter(StepDecrementingStock)
	result := c.svc.mutator.Apply(ctx, c.draft.StockItems(), domain.StockDecrement)
	c.decremented = result.Applied
	if !result.Success {
		return c.rollback(ctx, fmt.Errorf("falha ao baixar o estoque: %w", result.Err))
	}

	// 5. Parcelas
	if c.draft.HasInstallmentPlan() {
		c.enter(StepWritingInstallments)
		firstDue := domain.AddMonthsClamped(c.draft.SaleDate, 1)
		if c.draft.FirstDueDate != nil {
			firstDue = *c.draft.FirstDueDate
		}
		plan, err := c.svc.installments.CreateSchedule(ctx, c.sale, firstDue)
		if err != nil {
			return c.rollback(ctx, err)
		}
		c.sale.Installments = plan
	}

	c.enter(StepCommitted)
	metrics.SalesCreated.Inc()
	c.svc.logger.Info("Venda registrada com sucesso.", map[string]interface{}{
		"sale_id":      c.sale.ID,
		"total":        c.sale.TotalAmount.StringFixed(2),
		"items":        len(c.sale.Items),
		"installments": len(c.sale.Installments),
	})
	return c.sale, nil
}

// reject encerra uma criação que ainda não gravou nada.
func (c *saleCreation) reject(cause error) (domain.Sale, error) {
	metrics.SalesRejected.WithLabelValues(c.step.String()).Inc()
	c.svc.logger.Warn("Venda recusada.", map[string]interface{}{"step": c.step.String(), "error": cause.Error()})
	c.step = StepRolledBack
	return domain.Sale{}, cause
}

// rollback desfaz, na ordem inversa, o que foi gravado até a etapa que falhou:
// devolve ao estoque o que foi baixado e então remove o cabeçalho (itens e parcelas em cascata).
func (c *saleCreation) rollback(ctx context.Context, cause error) (domain.Sale, error) {
	failed := c.step
	metrics.SalesRejected.WithLabelValues(failed.String()).Inc()
	c.svc.logger.Warn("Etapa da criação de venda falhou; compensando.", map[string]interface{}{
		"sale_id": c.sale.ID,
		"step":    failed.String(),
		"error":   cause.Error(),
	})

	// A compensação roda mesmo que a requisição tenha sido cancelada.
	ctx = context.WithoutCancel(ctx)

	var compErr error
	if len(c.decremented) > 0 {
		result := c.svc.mutator.Apply(ctx, c.decremented, domain.StockRestore)
		if !result.Success {
			compErr = multierr.Append(compErr, fmt.Errorf("restauração de estoque: %w", result.Err))
		}
	}
	if c.headerWritten {
		if err := c.svc.repo.DeleteSale(ctx, c.sale.ID); err != nil {
			compErr = multierr.Append(compErr, fmt.Errorf("remoção da venda %s: %w", c.sale.ID, err))
		}
	}
	c.step = StepRolledBack

	if compErr != nil {
		metrics.PartialStates.Inc()
		perr := apperror.NewPartialStateError(
			fmt.Sprintf("a etapa %s falhou (%v) e a compensação não foi concluída: %v", failed, cause, compErr),
			multierr.Append(cause, compErr))
		c.svc.logger.Error(partialStatePrefix+": compensação da venda "+c.sale.ID+" falhou.", perr)
		return domain.Sale{}, perr
	}

	metrics.Compensations.WithLabelValues(failed.String()).Inc()
	c.svc.logger.Info("Compensação concluída; nenhuma alteração permanece.", map[string]interface{}{
		"sale_id": c.sale.ID,
		"step":    failed.String(),
	})
	return domain.Sale{}, fmt.Errorf("venda não registrada (etapa %s): %w", failed, cause)
}
