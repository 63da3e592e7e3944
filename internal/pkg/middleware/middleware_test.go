package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govendas/internal/domain"
	"govendas/internal/pkg/cache"
	"govendas/internal/pkg/middleware"
	"govendas/internal/pkg/token"
)

// counterClient guarda contadores inteiros em memória.
type counterClient struct {
	cache.NoopClient
	counts map[string]int
	err    error
}

func (c *counterClient) GetInt(_ context.Context, key string) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, ok := c.counts[key]
	if !ok {
		return 0, cache.ErrCacheMiss
	}
	return n, nil
}

func (c *counterClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.counts[key] = value.(int)
	return nil
}

func (c *counterClient) Incr(_ context.Context, key string) (int64, error) {
	c.counts[key]++
	return int64(c.counts[key]), nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	client := &counterClient{counts: map[string]int{}}
	h := middleware.RateLimiter(client, 2, time.Minute)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/sales", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_CacheFailureLetsRequestsThrough(t *testing.T) {
	client := &counterClient{counts: map[string]int{}, err: errors.New("redis fora")}
	h := middleware.RateLimiter(client, 1, time.Minute)(okHandler)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sales", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	tokenSvc := token.NewService("segredo-de-teste", time.Hour)
	adminToken, err := tokenSvc.GenerateToken("admin@loja.com", string(domain.RoleAdmin))
	require.NoError(t, err)
	guestToken, err := tokenSvc.GenerateToken("visitante", "guest")
	require.NoError(t, err)

	var seen middleware.UserClaims
	h := middleware.RequireRoles(tokenSvc, domain.RoleAdmin)(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.GetUserClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"sem header", "", http.StatusUnauthorized},
		{"sem prefixo Bearer", adminToken, http.StatusUnauthorized},
		{"token inválido", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"role sem permissão", "Bearer " + guestToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/sales", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	assert.Equal(t, "admin@loja.com", seen.UserID)
	assert.Equal(t, domain.RoleAdmin, seen.Role)
}
