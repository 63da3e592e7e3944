package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"govendas/internal/domain"
	"govendas/internal/errors"
	"govendas/internal/pkg/cache"
	"govendas/internal/pkg/database"
	"govendas/internal/pkg/logger"
)

// ProductRepository acessa a tabela products com cache-aside no Redis.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger

	// Leituras concorrentes do mesmo ID compartilham uma única consulta ao DB.
	group singleflight.Group
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

const productColumns = `id, title, description, price, is_active, stock_quantity, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.IsActive, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// SaveProduct insere um novo produto.
func (r *ProductRepository) SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const productSQL = `INSERT INTO products (id, title, description, price, is_active, stock_quantity, created_at, updated_at)
                        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.DB.ExecContext(ctxTimeout, productSQL,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.IsActive,
		product.StockQuantity,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if database.IsCheckViolation(err) {
			return domain.Product{}, errors.NewValidationError("Quantidade em estoque ou preço inválidos.")
		}
		return domain.Product{}, errors.NewDBError("Falha ao inserir produto", err)
	}

	return product, nil
}

// FindProductByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindProductByID(ctx context.Context, id string) (domain.Product, error) {
	key := cache.ProductKey(id)

	// 1. Tentar obter do cache
	cachedData, err := r.Cache.Get(ctx, key)
	if err == nil {
		var product domain.Product
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
		r.logger.Warn("Entrada de cache de produto corrompida, consultando o DB.", map[string]interface{}{"product_id": id})
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"product_id": id, "error": err.Error()})
	}

	// 2. Buscar no banco, colapsando chamadas concorrentes
	v, err, _ := r.group.Do(id, func() (interface{}, error) {
		return r.loadProduct(ctx, id)
	})
	if err != nil {
		return domain.Product{}, err
	}
	product := v.(domain.Product)

	// 3. Popular o cache
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		if setErr := r.Cache.Set(ctx, key, productJSON, r.CacheTTL); setErr != nil {
			r.logger.Warn("Falha ao gravar produto no cache.", map[string]interface{}{"product_id": id, "error": setErr.Error()})
		}
	}

	return product, nil
}

func (r *ProductRepository) loadProduct(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))

	if err == sql.ErrNoRows || database.IsInvalidID(err) {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto no DB", err)
	}
	return product, nil
}

// FindAllProducts lista produtos paginados, mais recentes primeiro.
func (r *ProductRepository) FindAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		filter.Limit, offset)
	if err != nil {
		return nil, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar produtos", err)
	}
	return products, nil
}
