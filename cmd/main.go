package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"govendas/config"
	"govendas/internal/pkg/cache"
	"govendas/internal/pkg/database"
	"govendas/internal/pkg/logger"
	"govendas/internal/pkg/token"

	// Camadas para injeção de dependências
	"govendas/internal/api/auth"
	"govendas/internal/api/installment"
	"govendas/internal/api/product"
	"govendas/internal/api/router"
	"govendas/internal/api/sale"
	"govendas/internal/api/stock"
	"govendas/internal/repository/installmentrepo"
	"govendas/internal/repository/memoryrepo"
	"govendas/internal/repository/productrepo"
	"govendas/internal/repository/salerepo"
	"govendas/internal/repository/stockrepo"
	"govendas/internal/service/authservice"
	"govendas/internal/service/installmentservice"
	"govendas/internal/service/productservice"
	"govendas/internal/service/saleservice"
	"govendas/internal/service/stockservice"
)

// repositories agrupa as implementações de persistência escolhidas na inicialização.
type repositories struct {
	products     productservice.ProductRepository
	stockReader  stockservice.StockReader
	stockWriter  stockservice.StockWriter
	sales        saleservice.SaleRepository
	installments installmentservice.InstallmentRepository
	close        func()
}

func main() {
	log.Println("⚡ Inicializando serviço GoVendas...")
	// 0. Variáveis de ambiente (.env opcional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	var appLog logger.Logger
	if cfg.LogFile != "" {
		appLog = logger.NewFileLogger(cfg.LogLevel, cfg.LogFile)
	} else {
		appLog = logger.NewLogger(cfg.LogLevel)
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "timezone": cfg.BusinessTimezone})

	// 1. Cache (Redis). Sem Redis o serviço continua, apenas sem cache nem trava de idempotência.
	var cacheClient cache.Client = cache.NoopClient{}
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
		if err != nil {
			appLog.Warn("Redis indisponível. Seguindo sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
			appLog.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// 2. Persistência: PostgreSQL ou memória
	repos := buildRepositories(cfg, cacheClient, appLog)
	defer repos.close()

	// 3. Serviços
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	authSvc := authservice.NewService(cfg.AdminEmail, cfg.AdminPasswordHash, tokenSvc, appLog)
	productSvc := productservice.NewService(repos.products, appLog)
	validator := stockservice.NewValidator(repos.stockReader, appLog)
	mutator := stockservice.NewMutator(repos.stockWriter, appLog)
	installmentSvc := installmentservice.NewService(repos.installments, appLog, installmentservice.WithLocation(cfg.Location()))
	saleSvc := saleservice.NewService(repos.sales, validator, mutator, installmentSvc, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// 4. Handlers e roteador
	handlers := router.Handlers{
		Product:     product.NewHandler(productSvc, appLog),
		Stock:       stock.NewHandler(validator, appLog),
		Sale:        sale.NewHandler(saleSvc, cache.NewSubmissionLock(cacheClient, cfg.IdempotencyTTL), appLog),
		Installment: installment.NewHandler(installmentSvc, appLog),
		Auth:        auth.NewHandler(authSvc, appLog),
	}
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimit{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e graceful shutdown
	go func() {
		appLog.Info("Servidor GoVendas ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}

// buildRepositories conecta ao PostgreSQL quando DATABASE_URL está definida.
// Caso contrário usa o armazenamento em memória com produtos de demonstração.
func buildRepositories(cfg *config.Config, cacheClient cache.Client, appLog logger.Logger) repositories {
	if cfg.UseMemoryStore() {
		appLog.Warn("DATABASE_URL ausente. Usando armazenamento em memória (dados perdidos ao reiniciar).", nil)
		store := memoryrepo.NewSeeded()
		return repositories{
			products:     store,
			stockReader:  store,
			stockWriter:  store,
			sales:        store,
			installments: store,
			close:        func() {},
		}
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	stockRepo := stockrepo.NewStockRepository(db, cacheClient, cfg.DBTimeout, appLog)
	return repositories{
		products:     productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.ProductCacheTTL, appLog),
		stockReader:  stockRepo,
		stockWriter:  stockRepo,
		sales:        salerepo.NewSaleRepository(db, cfg.DBTimeout, appLog),
		installments: installmentrepo.NewInstallmentRepository(db, cfg.DBTimeout, appLog),
		close: func() {
			if err := db.Close(); err != nil {
				appLog.Error("Falha ao fechar conexão com o DB.", err)
			}
		},
	}
}
