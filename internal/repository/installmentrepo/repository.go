package installmentrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"govendas/internal/domain"
	"govendas/internal/errors"
	"govendas/internal/pkg/database"
	"govendas/internal/pkg/logger"
)

// InstallmentRepository persiste as parcelas das vendas.
type InstallmentRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewInstallmentRepository cria e retorna uma nova instância do Repositório de Parcelas.
func NewInstallmentRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *InstallmentRepository {
	return &InstallmentRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

const installmentColumns = `id, sale_id, installment_number, amount, due_date, status, paid_date, payment_method, created_at, updated_at`

func scanInstallment(row interface{ Scan(...interface{}) error }) (domain.Installment, error) {
	var (
		in       domain.Installment
		paidDate sql.NullTime
		method   sql.NullString
	)
	err := row.Scan(&in.ID, &in.SaleID, &in.Number, &in.Amount, &in.DueDate, &in.Status, &paidDate, &method, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return domain.Installment{}, err
	}
	if paidDate.Valid {
		t := paidDate.Time
		in.PaidDate = &t
	}
	if method.Valid {
		m := method.String
		in.PaymentMethod = &m
	}
	return in, nil
}

func (r *InstallmentRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Installment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar parcelas", err)
	}
	defer rows.Close()

	list := []domain.Installment{}
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler parcela", err)
		}
		list = append(list, in)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar parcelas", err)
	}
	return list, nil
}

// CreateInstallments grava o plano inteiro numa transação.
func (r *InstallmentRepository) CreateInstallments(ctx context.Context, installments []domain.Installment) (err error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const insertSQL = `INSERT INTO installments (id, sale_id, installment_number, amount, due_date, status, paid_date, payment_method, created_at, updated_at)
                       VALUES ($1,$2,$3,$4,$5,$6,NULL,NULL,$7,$8)`

	for _, in := range installments {
		_, err = tx.ExecContext(ctxTimeout, insertSQL,
			in.ID, in.SaleID, in.Number, in.Amount, in.DueDate, in.Status, in.CreatedAt, in.UpdatedAt)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada para a parcela.", in.SaleID))
			}
			r.logger.Error("Falha ao inserir parcela.", err)
			return errors.NewDBError("Falha ao inserir parcelas", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.NewDBError("Falha ao commitar parcelas", err)
	}
	return nil
}

// FindInstallmentByID busca uma parcela.
func (r *InstallmentRepository) FindInstallmentByID(ctx context.Context, id string) (domain.Installment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	in, err := scanInstallment(r.DB.QueryRowContext(ctxTimeout, `SELECT `+installmentColumns+` FROM installments WHERE id = $1`, id))
	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Installment{}, errors.NewNotFoundError(fmt.Sprintf("Parcela %s não encontrada.", id))
	}
	if err != nil {
		return domain.Installment{}, errors.NewDBError("Falha ao buscar parcela", err)
	}
	return in, nil
}

// UpdateInstallmentStatus grava status, data e forma de pagamento de uma parcela.
func (r *InstallmentRepository) UpdateInstallmentStatus(ctx context.Context, id string, status domain.InstallmentStatus, paidDate *time.Time, method *string) (domain.Installment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		pd sql.NullTime
		pm sql.NullString
	)
	if paidDate != nil {
		pd = sql.NullTime{Time: *paidDate, Valid: true}
	}
	if method != nil {
		pm = sql.NullString{String: *method, Valid: true}
	}

	in, err := scanInstallment(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE installments
        SET status = $1, paid_date = $2, payment_method = $3, updated_at = $4
        WHERE id = $5
        RETURNING `+installmentColumns,
		status, pd, pm, time.Now().UTC(), id))
	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Installment{}, errors.NewNotFoundError(fmt.Sprintf("Parcela %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar parcela.", err)
		return domain.Installment{}, errors.NewDBError("Falha ao atualizar parcela", err)
	}
	return in, nil
}

// MarkInstallmentOverdue move a parcela para overdue somente se ela ainda estiver
// pendente e vencida. Devolve false quando nada mudou.
func (r *InstallmentRepository) MarkInstallmentOverdue(ctx context.Context, id string, today time.Time) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `
        UPDATE installments
        SET status = 'overdue', updated_at = $1
        WHERE id = $2 AND status = 'pending' AND due_date < $3`,
		time.Now().UTC(), id, today)
	if err != nil {
		return false, errors.NewDBError("Falha ao marcar parcela vencida", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	return n > 0, nil
}

// FindPendingDueBefore lista as parcelas pendentes com vencimento anterior a today.
func (r *InstallmentRepository) FindPendingDueBefore(ctx context.Context, today time.Time) ([]domain.Installment, error) {
	return r.query(ctx, `SELECT `+installmentColumns+` FROM installments
        WHERE status = 'pending' AND due_date < $1
        ORDER BY due_date, installment_number`, today)
}

// FindAllInstallments lista todas as parcelas por vencimento.
func (r *InstallmentRepository) FindAllInstallments(ctx context.Context) ([]domain.Installment, error) {
	return r.query(ctx, `SELECT `+installmentColumns+` FROM installments ORDER BY due_date, sale_id, installment_number`)
}

// FindInstallmentsBySale lista o plano de uma venda.
func (r *InstallmentRepository) FindInstallmentsBySale(ctx context.Context, saleID string) ([]domain.Installment, error) {
	return r.query(ctx, `SELECT `+installmentColumns+` FROM installments WHERE sale_id = $1 ORDER BY installment_number`, saleID)
}
