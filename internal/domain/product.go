package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa o item do catálogo consumido pelo motor de vendas.
// StockQuantity nunca fica negativo depois de uma operação concluída.
type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" swaggertype:"string" example:"49.90"`
	IsActive      bool            `json:"is_active"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductCreateRequest é o payload de cadastro de produto.
// IsActive ausente significa produto ativo.
type ProductCreateRequest struct {
	Title         string          `json:"title" example:"Caneca de cerâmica"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" swaggertype:"string" example:"49.90"`
	IsActive      *bool           `json:"is_active,omitempty"`
	StockQuantity int             `json:"stock_quantity" example:"10"`
}

// ProductFilter define os parâmetros de paginação da listagem.
type ProductFilter struct {
	Page  int
	Limit int
}
