package middleware

import (
	"net/http"
	"strings"
	"time"

	"govendas/internal/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics mede contagem e latência de todas as requisições.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.ObserveHTTP(r.Method, routeLabel(r.URL.Path), rec.status, float64(time.Since(start).Milliseconds()))
	})
}

// routeLabel mantém apenas os dois primeiros segmentos (/v1/sales) para não gerar
// um rótulo por ID.
func routeLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) > 2 {
		segments = segments[:2]
	}
	return "/" + strings.Join(segments, "/")
}
