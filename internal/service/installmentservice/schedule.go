package installmentservice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
)

// MaxInstallments limita o tamanho do plano de pagamento.
const MaxInstallments = 120

var cent = decimal.New(1, -2)

// BuildSchedule divide total em count parcelas mensais a partir de firstDue.
// Cada parcela recebe total/count truncado em centavos e a última absorve o resto,
// de modo que a soma é exatamente total. Vencimentos em dias que não existem no mês
// caem no último dia do mês.
func BuildSchedule(saleID string, total decimal.Decimal, count int, firstDue time.Time) ([]domain.Installment, error) {
	if count < 1 || count > MaxInstallments {
		return nil, apperror.NewValidationError(fmt.Sprintf("O número de parcelas deve estar entre 1 e %d.", MaxInstallments))
	}
	if total.LessThan(cent.Mul(decimal.NewFromInt(int64(count)))) {
		return nil, apperror.NewValidationError(fmt.Sprintf("O valor total %s não comporta %d parcelas.", total.StringFixed(2), count))
	}

	base := total.Div(decimal.NewFromInt(int64(count))).Truncate(2)
	last := total.Sub(base.Mul(decimal.NewFromInt(int64(count - 1))))
	due := time.Date(firstDue.Year(), firstDue.Month(), firstDue.Day(), 0, 0, 0, 0, time.UTC)

	plan := make([]domain.Installment, count)
	for i := range plan {
		amount := base
		if i == count-1 {
			amount = last
		}
		plan[i] = domain.Installment{
			ID:      uuid.New().String(),
			SaleID:  saleID,
			Number:  i + 1,
			Amount:  amount,
			DueDate: domain.AddMonthsClamped(due, i),
			Status:  domain.InstallmentPending,
		}
	}
	return plan, nil
}
