package stockrepo_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperror "govendas/internal/errors"
	"govendas/internal/pkg/cache"
	"govendas/internal/pkg/database"
	"govendas/internal/pkg/logger"
	"govendas/internal/repository/stockrepo"
)

// Requer um Postgres com as migrações de sql/ aplicadas.
func newIntegrationRepo(t *testing.T) (*stockrepo.StockRepository, func(stock int) string) {
	t.Helper()
	dsn := os.Getenv("GOVENDAS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GOVENDAS_TEST_DATABASE_URL não definido; pulando teste de integração")
	}

	db, err := database.NewPostgresDB(dsn, database.DefaultPool)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := stockrepo.NewStockRepository(db, cache.NoopClient{}, 5*time.Second, logger.NewLogger("error"))

	insert := func(stock int) string {
		id := uuid.New().String()
		_, err := db.Exec(`INSERT INTO products (id, title, description, price, is_active, stock_quantity, created_at, updated_at)
                           VALUES ($1, $2, '', 10, TRUE, $3, NOW(), NOW())`, id, "integração "+id[:8], stock)
		require.NoError(t, err)
		t.Cleanup(func() { db.Exec(`DELETE FROM products WHERE id = $1`, id) })
		return id
	}
	return repo, insert
}

func TestAdjustStock_Postgres_ConcurrentDecrements(t *testing.T) {
	repo, insert := newIntegrationRepo(t)
	id := insert(5)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.AdjustStock(context.Background(), id, -1)
		}()
	}
	wg.Wait()

	p, err := repo.GetProductStock(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
}

func TestAdjustStock_Postgres_UnknownAndMalformedIDs(t *testing.T) {
	repo, _ := newIntegrationRepo(t)

	var notFound *apperror.NotFoundError
	_, err := repo.AdjustStock(context.Background(), uuid.New().String(), 1)
	assert.ErrorAs(t, err, &notFound)

	_, err = repo.GetProductStock(context.Background(), "nao-e-uuid")
	assert.ErrorAs(t, err, &notFound)
}
