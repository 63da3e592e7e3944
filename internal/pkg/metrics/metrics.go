package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SalesCreated conta vendas confirmadas (estado Committed).
	SalesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "govendas_sales_created_total",
		Help: "Total de vendas registradas com sucesso",
	})

	// SalesRejected conta vendas recusadas, rotuladas pela etapa em que falharam.
	SalesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govendas_sales_rejected_total",
			Help: "Total de vendas recusadas por etapa",
		},
		[]string{"step"},
	)

	// Compensations conta rollbacks concluídos, por etapa que falhou.
	Compensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govendas_sale_compensations_total",
			Help: "Total de compensações executadas por etapa da criação de venda",
		},
		[]string{"step"},
	)

	// PartialStates conta compensações que falharam (inconsistência a resolver manualmente).
	PartialStates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "govendas_sale_partial_state_total",
		Help: "Total de falhas de compensação que deixaram estado parcial",
	})

	// StockAdjustments conta ajustes de estoque por direção e resultado.
	StockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govendas_stock_adjustments_total",
			Help: "Ajustes de estoque por produto",
		},
		[]string{"direction", "outcome"},
	)

	// InstallmentsMarkedOverdue conta parcelas movidas para overdue pela varredura.
	InstallmentsMarkedOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "govendas_installments_marked_overdue_total",
		Help: "Parcelas marcadas como vencidas",
	})

	// OverdueSweepFailures conta linhas que a varredura não conseguiu atualizar.
	OverdueSweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "govendas_overdue_sweep_failures_total",
		Help: "Falhas individuais na varredura de parcelas vencidas",
	})

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)
)

// ObserveHTTP registra uma requisição concluída.
func ObserveHTTP(method, path string, status int, durationMS float64) {
	httpRequests.WithLabelValues(method, path, http.StatusText(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(durationMS)
}

// Handler expõe o registro padrão para o scraper do Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
