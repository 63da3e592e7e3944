package auth

import (
	"context"
	"net/http"

	"govendas/internal/api/response"
	"govendas/internal/domain"
	"govendas/internal/pkg/logger"
)

// AuthService define o contrato de login.
type AuthService interface {
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
}

// Handler expõe o login do administrador.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de autenticação.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// LoginHandler lida com a requisição POST /v1/login.
// @Summary Autentica o administrador
// @Description Verifica email e senha e retorna um JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Credenciais"
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}

	tokenString, err := h.Service.Login(r.Context(), req)
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, domain.LoginResponse{Token: tokenString}, http.StatusOK)
}
