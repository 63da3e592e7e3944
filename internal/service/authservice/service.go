package authservice

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// Service autentica o administrador configurado em ADMIN_EMAIL / ADMIN_PASSWORD_HASH.
type Service struct {
	adminEmail   string
	passwordHash []byte
	tokenSvc     TokenService
	logger       logger.Logger
}

// NewService cria o serviço de autenticação. passwordHash é um hash bcrypt.
func NewService(adminEmail, passwordHash string, tokenSvc TokenService, logger logger.Logger) *Service {
	return &Service{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: []byte(passwordHash),
		tokenSvc:     tokenSvc,
		logger:       logger,
	}
}

// Login verifica as credenciais e emite um JWT com a role admin.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	// 1. Validação Básica
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}
	if s.adminEmail == "" || len(s.passwordHash) == 0 {
		s.logger.Warn("Login recusado: administrador não configurado.", nil)
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 2. Comparar e-mail e senha sem revelar qual dos dois falhou
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !emailOK || passErr != nil {
		s.logger.Warn("Tentativa de login inválida.", map[string]interface{}{"email": email})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	// 3. Gerar JWT
	tokenString, err := s.tokenSvc.GenerateToken(s.adminEmail, string(domain.RoleAdmin))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Administrador autenticado.", map[string]interface{}{"email": email})
	return tokenString, nil
}
