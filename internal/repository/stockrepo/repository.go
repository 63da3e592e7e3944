package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"govendas/internal/domain"
	"govendas/internal/errors"
	"govendas/internal/pkg/cache"
	"govendas/internal/pkg/database"
	"govendas/internal/pkg/logger"
)

// StockRepository lê e ajusta products.stock_quantity.
// Toda leitura vai direto ao banco: a validação de estoque não pode usar cache.
type StockRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// GetProductStock devolve o produto com a quantidade atual em estoque.
func (r *StockRepository) GetProductStock(ctx context.Context, productID string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, title, is_active, stock_quantity
        FROM products
        WHERE id = $1`

	var p domain.Product
	err := r.DB.QueryRowContext(ctxTimeout, query, productID).Scan(&p.ID, &p.Title, &p.IsActive, &p.StockQuantity)

	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", productID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar estoque no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar estoque", err)
	}
	return p, nil
}

// AdjustStock soma delta ao estoque do produto numa transação com a linha bloqueada
// (SELECT ... FOR UPDATE). Um resultado negativo é recusado com ConflictError e nada é gravado.
func (r *StockRepository) AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error) {
	r.logger.Debug("Iniciando ajuste de estoque no repositório.", map[string]interface{}{
		"product_id": productID,
		"delta":      delta,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para ajuste de estoque.", err)
		return domain.Product{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Ler a quantidade atual bloqueando a linha até o commit
	var current domain.Product
	querySelect := `
        SELECT id, title, is_active, stock_quantity
        FROM products
        WHERE id = $1 FOR UPDATE`

	err = tx.QueryRowContext(ctxTimeout, querySelect, productID).Scan(
		&current.ID, &current.Title, &current.IsActive, &current.StockQuantity,
	)
	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", productID))
	}
	if err != nil {
		r.logger.Error("Falha ao selecionar estoque para atualização.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar estoque para atualização", err)
	}

	// 2. Recusar resultado negativo
	newQuantity := current.StockQuantity + delta
	if newQuantity < 0 {
		r.logger.Warn("Ajuste resultaria em estoque negativo.", map[string]interface{}{
			"product_id":       productID,
			"current_quantity": current.StockQuantity,
			"delta":            delta,
		})
		return domain.Product{}, errors.NewConflictError(fmt.Sprintf(
			"estoque insuficiente para %q: solicitado %d, disponível %d", current.Title, -delta, current.StockQuantity))
	}

	// 3. Gravar
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctxTimeout,
		`UPDATE products SET stock_quantity = $1, updated_at = $2 WHERE id = $3`,
		newQuantity, now, productID)
	if err != nil {
		if database.IsCheckViolation(err) {
			return domain.Product{}, errors.NewConflictError(fmt.Sprintf("estoque de %q não pode ficar negativo", current.Title))
		}
		r.logger.Error("Falha ao atualizar estoque.", err)
		return domain.Product{}, errors.NewDBError("Falha ao atualizar estoque", err)
	}

	// 4. Commitar a transação
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de ajuste de estoque.", commitErr)
		return domain.Product{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	// 5. A cópia em cache ficou velha
	if cacheErr := r.Cache.Delete(ctx, cache.ProductKey(productID)); cacheErr != nil {
		r.logger.Warn("Falha ao invalidar produto no cache.", map[string]interface{}{"product_id": productID, "error": cacheErr.Error()})
	}

	current.StockQuantity = newQuantity
	current.UpdatedAt = now
	r.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"product_id":   productID,
		"new_quantity": newQuantity,
	})
	return current, nil
}
