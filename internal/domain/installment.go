package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus é a situação de uma parcela.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

// Installment é uma parcela do plano de pagamento de uma venda.
type Installment struct {
	ID            string            `json:"id"`
	SaleID        string            `json:"sale_id"`
	Number        int               `json:"installment_number"`
	Amount        decimal.Decimal   `json:"amount" swaggertype:"string" example:"100.00"`
	DueDate       time.Time         `json:"due_date"`
	Status        InstallmentStatus `json:"status"`
	PaidDate      *time.Time        `json:"paid_date"`
	PaymentMethod *string           `json:"payment_method"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// InstallmentStatusRequest é o payload de PUT /v1/installments/{id}/status.
type InstallmentStatusRequest struct {
	Status        string  `json:"status" example:"paid"`
	PaymentMethod *string `json:"payment_method,omitempty" example:"pix"`
}
