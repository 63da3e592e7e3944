package domain

// UserRole é o papel do operador autenticado.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
)

// LoginRequest é o payload de POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@loja.com"`
	Password string `json:"password" example:"segredo"`
}

// LoginResponse carrega o token emitido.
type LoginResponse struct {
	Token string `json:"token"`
}
