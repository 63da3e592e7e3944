package salerepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"govendas/internal/domain"
	"govendas/internal/errors"
	"govendas/internal/pkg/database"
	"govendas/internal/pkg/logger"
)

// SaleRepository persiste cabeçalhos e itens de venda.
// Cada método é uma escrita independente: a atomicidade da venda inteira é
// responsabilidade da camada de serviço (compensação).
type SaleRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSaleRepository cria e retorna uma nova instância do Repositório de Vendas.
func NewSaleRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SaleRepository {
	return &SaleRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

const saleColumns = `id, customer_name, customer_email, customer_phone, total_amount, payment_method,
       payment_status, installments_count, sale_date, notes, created_at, updated_at`

func scanSale(row interface{ Scan(...interface{}) error }) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(&s.ID, &s.CustomerName, &s.CustomerEmail, &s.CustomerPhone, &s.TotalAmount, &s.PaymentMethod,
		&s.PaymentStatus, &s.InstallmentsCount, &s.SaleDate, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateSale grava apenas o cabeçalho da venda.
func (r *SaleRepository) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const saleSQL = `INSERT INTO sales (id, customer_name, customer_email, customer_phone, total_amount, payment_method,
                         payment_status, installments_count, sale_date, notes, created_at, updated_at)
                     VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := r.DB.ExecContext(ctxTimeout, saleSQL,
		sale.ID, sale.CustomerName, sale.CustomerEmail, sale.CustomerPhone, sale.TotalAmount, sale.PaymentMethod,
		sale.PaymentStatus, sale.InstallmentsCount, sale.SaleDate, sale.Notes, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if database.IsCheckViolation(err) {
			return domain.Sale{}, errors.NewValidationError("Cabeçalho da venda rejeitado pelas regras do banco.")
		}
		r.logger.Error("Falha ao inserir venda.", err)
		return domain.Sale{}, errors.NewDBError("Falha ao inserir venda", err)
	}
	return sale, nil
}

// CreateSaleItems grava todos os itens numa única transação.
func (r *SaleRepository) CreateSaleItems(ctx context.Context, items []domain.SaleItem) (err error) {
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

	const itemSQL = `INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, total_price, created_at)
                     VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	for _, it := range items {
		_, err = tx.ExecContext(ctxTimeout, itemSQL,
			it.ID, it.SaleID, nullString(it.ProductID), it.ProductName, it.Quantity, it.UnitPrice, it.TotalPrice, it.CreatedAt)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return errors.NewValidationError(fmt.Sprintf("Produto ou venda inexistente para o item %q.", it.ProductName))
			}
			r.logger.Error("Falha ao inserir item de venda.", err)
			return errors.NewDBError("Falha ao inserir itens da venda", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.NewDBError("Falha ao commitar itens da venda", err)
	}
	return nil
}

// DeleteSale remove o cabeçalho; itens e parcelas saem por ON DELETE CASCADE.
func (r *SaleRepository) DeleteSale(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		if database.IsInvalidID(err) {
			return errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
		}
		r.logger.Error("Falha ao remover venda.", err)
		return errors.NewDBError("Falha ao remover venda", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
	}
	return nil
}

// UpdateSale altera somente os campos de cabeçalho informados.
func (r *SaleRepository) UpdateSale(ctx context.Context, id string, upd domain.SaleUpdate) (domain.Sale, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.CustomerName != nil {
		add("customer_name", *upd.CustomerName)
	}
	if upd.CustomerEmail != nil {
		add("customer_email", *upd.CustomerEmail)
	}
	if upd.CustomerPhone != nil {
		add("customer_phone", *upd.CustomerPhone)
	}
	if upd.PaymentMethod != nil {
		add("payment_method", string(*upd.PaymentMethod))
	}
	if upd.PaymentStatus != nil {
		add("payment_status", string(*upd.PaymentStatus))
	}
	if upd.SaleDate != nil {
		add("sale_date", *upd.SaleDate)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE sales SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), saleColumns)

	sale, err := scanSale(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Sale{}, errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar venda.", err)
		return domain.Sale{}, errors.NewDBError("Falha ao atualizar venda", err)
	}
	return sale, nil
}

// FindSaleByID devolve apenas o cabeçalho.
func (r *SaleRepository) FindSaleByID(ctx context.Context, id string) (domain.Sale, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sale, err := scanSale(r.DB.QueryRowContext(ctxTimeout, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Sale{}, errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
	}
	if err != nil {
		return domain.Sale{}, errors.NewDBError("Falha ao buscar venda", err)
	}
	return sale, nil
}

// FindSaleItems lista os itens de uma venda na ordem de inserção.
func (r *SaleRepository) FindSaleItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT id, sale_id, product_id, product_name, quantity, unit_price, total_price, created_at
        FROM sale_items
        WHERE sale_id = $1
        ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar itens da venda", err)
	}
	defer rows.Close()

	items := []domain.SaleItem{}
	for rows.Next() {
		var (
			it        domain.SaleItem
			productID sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &productID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return nil, errors.NewDBError("Falha ao ler item da venda", err)
		}
		it.ProductID = productID.String
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar itens da venda", err)
	}
	return items, nil
}

// FindAllSales lista cabeçalhos paginados, vendas mais recentes primeiro.
func (r *SaleRepository) FindAllSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC, created_at DESC LIMIT $1 OFFSET $2`,
		filter.Limit, offset)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar vendas", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler venda", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar vendas", err)
	}
	return sales, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
