package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"govendas/internal/pkg/cache"
)

const rateLimitPrefix = "rate-limit:"

func clientIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// RateLimiter limita requisições por IP numa janela fixa, com contadores no cache.
// Se o cache falhar a requisição segue sem limite.
func RateLimiter(client cache.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := rateLimitPrefix + clientIP(r)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))

			used, err := client.GetInt(ctx, key)
			switch {
			case errors.Is(err, cache.ErrCacheMiss):
				// Primeira requisição da janela abre o contador com TTL.
				if err := client.Set(ctx, key, 1, window); err == nil {
					w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
				}
			case err != nil:
			case used >= limit:
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Limite de requisições excedido", http.StatusTooManyRequests)
				return
			default:
				if _, err := client.Incr(ctx, key); err == nil {
					w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-used-1))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
