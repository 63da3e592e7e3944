package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"409"`
	Category string `json:"category" example:"STOCK_CONFLICT"`
	Message  string `json:"message" example:"Estoque indisponível: estoque insuficiente para \"Caneca\": solicitado 3, disponível 2"`
}
