package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod é a forma de pagamento da venda.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentPix          PaymentMethod = "pix"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentInstallments PaymentMethod = "installments"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix, PaymentBankTransfer, PaymentInstallments:
		return true
	}
	return false
}

// PaymentStatus é a situação de pagamento do cabeçalho da venda.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartial, PaymentCancelled:
		return true
	}
	return false
}

// Sale é o agregado de venda: cabeçalho, itens e, quando houver, parcelas.
// TotalAmount é sempre a soma de quantity x unit_price dos itens.
type Sale struct {
	ID                string          `json:"id"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email,omitempty"`
	CustomerPhone     string          `json:"customer_phone,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount" swaggertype:"string" example:"300.00"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	InstallmentsCount int             `json:"installments_count"`
	SaleDate          time.Time       `json:"sale_date"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Items        []SaleItem    `json:"items,omitempty"`
	Installments []Installment `json:"installments,omitempty"`
}

// SaleItem é uma linha da venda. ProductID vazio indica item avulso.
type SaleItem struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"150.00"`
	TotalPrice  decimal.Decimal `json:"total_price" swaggertype:"string" example:"300.00"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StockItem converte a linha no par consumido pelo validador e pelo ajuste de estoque.
func (i SaleItem) StockItem() StockItem {
	return StockItem{ProductID: i.ProductID, ProductName: i.ProductName, Quantity: i.Quantity}
}

// SaleFormData é o formulário de venda como chega do cliente, antes da sanitização.
// TotalAmount é ignorado: o total é recalculado a partir dos itens.
type SaleFormData struct {
	CustomerName      string           `json:"customer_name" example:"Maria Souza"`
	CustomerEmail     string           `json:"customer_email" example:"maria@exemplo.com"`
	CustomerPhone     string           `json:"customer_phone"`
	PaymentMethod     string           `json:"payment_method" example:"installments"`
	PaymentStatus     string           `json:"payment_status" example:"pending"`
	InstallmentsCount int              `json:"installments_count" example:"3"`
	SaleDate          string           `json:"sale_date" example:"2026-10-19"`
	FirstDueDate      string           `json:"first_due_date" example:"2026-11-19"`
	Notes             string           `json:"notes"`
	TotalAmount       *decimal.Decimal `json:"total_amount,omitempty" swaggertype:"string"`
	Items             []SaleItemForm   `json:"items"`
}

// SaleItemForm é uma linha do formulário de venda.
type SaleItemForm struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name" example:"Caneca de cerâmica"`
	Quantity    int             `json:"quantity" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" swaggertype:"string" example:"150.00"`
}

// SaleUpdateRequest é o payload de PUT /v1/sales/{id}. Campos nulos não são alterados.
type SaleUpdateRequest struct {
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	SaleDate      *string `json:"sale_date,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// SaleUpdate é a versão sanitizada de SaleUpdateRequest, apenas campos de cabeçalho.
type SaleUpdate struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	PaymentMethod *PaymentMethod
	PaymentStatus *PaymentStatus
	SaleDate      *time.Time
	Notes         *string
}

// IsEmpty indica que nenhum campo foi informado.
func (u SaleUpdate) IsEmpty() bool {
	return u.CustomerName == nil && u.CustomerEmail == nil && u.CustomerPhone == nil &&
		u.PaymentMethod == nil && u.PaymentStatus == nil && u.SaleDate == nil && u.Notes == nil
}

// SaleFilter define os parâmetros de paginação da listagem de vendas.
type SaleFilter struct {
	Page  int
	Limit int
}
