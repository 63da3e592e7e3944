package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "govendas/docs" // Registra a especificação Swagger
	"govendas/internal/api/auth"
	"govendas/internal/api/installment"
	"govendas/internal/api/product"
	"govendas/internal/api/sale"
	"govendas/internal/api/stock"
	"govendas/internal/domain"
	"govendas/internal/pkg/cache"
	"govendas/internal/pkg/metrics"
	"govendas/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Product     *product.Handler
	Stock       *stock.Handler
	Sale        *sale.Handler
	Installment *installment.Handler
	Auth        *auth.Handler
}

// RateLimit configura o limitador por IP.
type RateLimit struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Todas as rotas /v1 exceto /v1/login exigem a role admin.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, limit RateLimit) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.RequireRoles(tokenSvc, domain.RoleAdmin)

	// --- 1. Health check, métricas e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- 2. Autenticação ---
	mux.HandleFunc("POST /v1/login", h.Auth.LoginHandler)

	// --- 3. Catálogo ---
	mux.HandleFunc("GET /v1/products", admin(h.Product.ListProductsHandler))
	mux.HandleFunc("POST /v1/products", admin(h.Product.CreateProductHandler))
	mux.HandleFunc("GET /v1/products/{id}", admin(h.Product.GetProductByIDHandler))

	// --- 4. Estoque ---
	mux.HandleFunc("POST /v1/stock/validate", admin(h.Stock.ValidateStockHandler))

	// --- 5. Vendas ---
	mux.HandleFunc("GET /v1/sales", admin(h.Sale.ListSalesHandler))
	mux.HandleFunc("POST /v1/sales", admin(h.Sale.CreateSaleHandler))
	mux.HandleFunc("GET /v1/sales/{id}", admin(h.Sale.GetSaleHandler))
	mux.HandleFunc("PUT /v1/sales/{id}", admin(h.Sale.UpdateSaleHandler))
	mux.HandleFunc("DELETE /v1/sales/{id}", admin(h.Sale.DeleteSaleHandler))

	// --- 6. Parcelas ---
	mux.HandleFunc("GET /v1/installments", admin(h.Installment.ListInstallmentsHandler))
	mux.HandleFunc("PUT /v1/installments/{id}/status", admin(h.Installment.SetStatusHandler))

	// --- 7. Middlewares globais ---
	var handler http.Handler = mux
	if limit.MaxRequests > 0 {
		handler = middleware.RateLimiter(cacheClient, limit.MaxRequests, limit.Period)(handler)
	}
	return middleware.Metrics(handler)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
