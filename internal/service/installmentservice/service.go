package installmentservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
	"govendas/internal/pkg/metrics"
)

// InstallmentRepository define o contrato que o Serviço de Parcelas espera da camada de Persistência.
type InstallmentRepository interface {
	CreateInstallments(ctx context.Context, installments []domain.Installment) error
	FindInstallmentByID(ctx context.Context, id string) (domain.Installment, error)
	UpdateInstallmentStatus(ctx context.Context, id string, status domain.InstallmentStatus, paidDate *time.Time, method *string) (domain.Installment, error)
	MarkInstallmentOverdue(ctx context.Context, id string, today time.Time) (bool, error)
	FindPendingDueBefore(ctx context.Context, today time.Time) ([]domain.Installment, error)
	FindAllInstallments(ctx context.Context) ([]domain.Installment, error)
	FindInstallmentsBySale(ctx context.Context, saleID string) ([]domain.Installment, error)
}

// Service gera planos de parcelas, altera status e marca vencidas.
type Service struct {
	repo   InstallmentRepository
	logger logger.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configura o Service.
type Option func(*Service)

// WithClock substitui o relógio usado para definir "hoje".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation define o fuso do negócio.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService cria e retorna uma nova instância do Serviço de Parcelas.
func NewService(repo InstallmentRepository, logger logger.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logger, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today é a data atual no fuso do negócio.
func (s *Service) Today() time.Time {
	return domain.DateOf(s.now(), s.loc)
}

// CreateSchedule monta e grava o plano de pagamento da venda num único lote.
func (s *Service) CreateSchedule(ctx context.Context, sale domain.Sale, firstDue time.Time) ([]domain.Installment, error) {
	plan, err := BuildSchedule(sale.ID, sale.TotalAmount, sale.InstallmentsCount, firstDue)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	for i := range plan {
		plan[i].CreatedAt = now
		plan[i].UpdatedAt = now
	}

	if err := s.repo.CreateInstallments(ctx, plan); err != nil {
		s.logger.Error("Falha ao gravar parcelas.", err)
		return nil, err
	}

	s.logger.Debug("Plano de parcelas gravado.", map[string]interface{}{"sale_id": sale.ID, "count": len(plan)})
	return plan, nil
}

// SetStatus aplica uma transição pedida pelo operador.
// paid grava a data de hoje e a forma de pagamento opcional; repetir paid mantém a data original.
// pending limpa data e forma de pagamento. overdue só é atribuído pela varredura.
func (s *Service) SetStatus(ctx context.Context, id string, req domain.InstallmentStatusRequest) (domain.Installment, error) {
	status := domain.InstallmentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	switch status {
	case domain.InstallmentPaid, domain.InstallmentPending:
	case domain.InstallmentOverdue:
		return domain.Installment{}, apperror.NewValidationError("O status overdue é atribuído automaticamente e não pode ser definido manualmente.")
	default:
		return domain.Installment{}, apperror.NewValidationError(fmt.Sprintf("Status de parcela inválido: %q.", req.Status))
	}

	var method *string
	if req.PaymentMethod != nil {
		if m := strings.ToLower(strings.TrimSpace(*req.PaymentMethod)); m != "" {
			if !domain.PaymentMethod(m).Valid() {
				return domain.Installment{}, apperror.NewValidationError(fmt.Sprintf("Forma de pagamento inválida: %q.", *req.PaymentMethod))
			}
			method = &m
		}
	}

	current, err := s.repo.FindInstallmentByID(ctx, id)
	if err != nil {
		return domain.Installment{}, err
	}

	var paidDate *time.Time
	switch status {
	case domain.InstallmentPaid:
		if current.Status == domain.InstallmentPaid {
			if method == nil || (current.PaymentMethod != nil && *current.PaymentMethod == *method) {
				return current, nil
			}
			paidDate = current.PaidDate
		} else {
			today := s.Today()
			paidDate = &today
		}
	case domain.InstallmentPending:
		switch current.Status {
		case domain.InstallmentPending:
			return current, nil
		case domain.InstallmentOverdue:
			return domain.Installment{}, apperror.NewConflictError("Uma parcela vencida só pode ser marcada como paga.")
		}
		method = nil
	}

	updated, err := s.repo.UpdateInstallmentStatus(ctx, id, status, paidDate, method)
	if err != nil {
		s.logger.Error("Falha ao atualizar status da parcela.", err)
		return domain.Installment{}, err
	}

	s.logger.Info("Status da parcela atualizado.", map[string]interface{}{
		"installment_id": id,
		"from":           string(current.Status),
		"to":             string(status),
	})
	return updated, nil
}

// SweepOverdue marca como overdue toda parcela pendente com vencimento anterior a hoje.
// Cada linha é atualizada de forma independente; uma falha é registrada e a varredura continua.
func (s *Service) SweepOverdue(ctx context.Context) (int, error) {
	today := s.Today()

	due, err := s.repo.FindPendingDueBefore(ctx, today)
	if err != nil {
		s.logger.Error("Falha ao buscar parcelas vencidas.", err)
		return 0, err
	}

	marked := 0
	for _, in := range due {
		changed, err := s.repo.MarkInstallmentOverdue(ctx, in.ID, today)
		if err != nil {
			metrics.OverdueSweepFailures.Inc()
			s.logger.Warn("Falha ao marcar parcela como vencida.", map[string]interface{}{
				"installment_id": in.ID,
				"error":          err.Error(),
			})
			continue
		}
		if changed {
			marked++
			metrics.InstallmentsMarkedOverdue.Inc()
		}
	}

	if marked > 0 {
		s.logger.Info("Parcelas marcadas como vencidas.", map[string]interface{}{"count": marked, "today": today.Format(domain.DateLayout)})
	}
	return marked, nil
}

// ListInstallments executa a varredura e devolve todas as parcelas.
// Falhas da varredura não impedem a listagem.
func (s *Service) ListInstallments(ctx context.Context) ([]domain.Installment, error) {
	if _, err := s.SweepOverdue(ctx); err != nil {
		s.logger.Warn("Varredura de vencidas não concluída; listando assim mesmo.", map[string]interface{}{"error": err.Error()})
	}
	return s.repo.FindAllInstallments(ctx)
}

// ListBySale devolve o plano de uma venda.
func (s *Service) ListBySale(ctx context.Context, saleID string) ([]domain.Installment, error) {
	return s.repo.FindInstallmentsBySale(ctx, saleID)
}
