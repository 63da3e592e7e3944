package saleservice

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/service/installmentservice"
)

var minUnitPrice = decimal.New(1, -2)

// SaleDraft é o formulário de venda já sanitizado e validado.
type SaleDraft struct {
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	PaymentMethod     domain.PaymentMethod
	PaymentStatus     domain.PaymentStatus
	InstallmentsCount int
	SaleDate          time.Time
	FirstDueDate      *time.Time
	Notes             string
	Items             []domain.SaleItem
	Total             decimal.Decimal
}

// HasInstallmentPlan indica que a venda gera parcelas.
func (d SaleDraft) HasInstallmentPlan() bool {
	return d.PaymentMethod == domain.PaymentInstallments || d.InstallmentsCount > 1
}

// StockItems devolve os pares (produto, quantidade) de todas as linhas.
func (d SaleDraft) StockItems() []domain.StockItem {
	out := make([]domain.StockItem, len(d.Items))
	for i, it := range d.Items {
		out[i] = it.StockItem()
	}
	return out
}

// SanitizeSaleForm limpa e valida o formulário campo a campo, parando no primeiro erro.
// O total informado pelo cliente é descartado e recalculado a partir dos itens.
func SanitizeSaleForm(form domain.SaleFormData, today time.Time) (SaleDraft, error) {
	d := SaleDraft{
		CustomerName:  strings.TrimSpace(form.CustomerName),
		CustomerPhone: strings.TrimSpace(form.CustomerPhone),
		Notes:         strings.TrimSpace(form.Notes),
	}

	if d.CustomerName == "" {
		return SaleDraft{}, apperror.NewValidationError("customer_name: o nome do cliente é obrigatório.")
	}

	email, err := sanitizeEmail(form.CustomerEmail)
	if err != nil {
		return SaleDraft{}, err
	}
	d.CustomerEmail = email

	d.PaymentMethod = domain.PaymentMethod(strings.ToLower(strings.TrimSpace(form.PaymentMethod)))
	if !d.PaymentMethod.Valid() {
		return SaleDraft{}, apperror.NewValidationError(fmt.Sprintf("payment_method: forma de pagamento inválida %q.", form.PaymentMethod))
	}

	d.PaymentStatus = domain.PaymentPending
	if s := strings.TrimSpace(form.PaymentStatus); s != "" {
		d.PaymentStatus = domain.PaymentStatus(strings.ToLower(s))
		if !d.PaymentStatus.Valid() {
			return SaleDraft{}, apperror.NewValidationError(fmt.Sprintf("payment_status: status de pagamento inválido %q.", form.PaymentStatus))
		}
	}

	d.InstallmentsCount = form.InstallmentsCount
	if d.InstallmentsCount == 0 {
		d.InstallmentsCount = 1
	}
	if d.InstallmentsCount < 1 || d.InstallmentsCount > installmentservice.MaxInstallments {
		return SaleDraft{}, apperror.NewValidationError(fmt.Sprintf("installments_count: deve estar entre 1 e %d.", installmentservice.MaxInstallments))
	}

	d.SaleDate = today
	if s := strings.TrimSpace(form.SaleDate); s != "" {
		if d.SaleDate, err = parseDate("sale_date", s); err != nil {
			return SaleDraft{}, err
		}
	}

	if s := strings.TrimSpace(form.FirstDueDate); s != "" {
		due, err := parseDate("first_due_date", s)
		if err != nil {
			return SaleDraft{}, err
		}
		d.FirstDueDate = &due
	}

	if len(form.Items) == 0 {
		return SaleDraft{}, apperror.NewValidationError("items: a venda precisa de pelo menos um item.")
	}

	d.Total = decimal.Zero
	d.Items = make([]domain.SaleItem, len(form.Items))
	for i, it := range form.Items {
		field := fmt.Sprintf("items[%d]", i)
		name := strings.TrimSpace(it.ProductName)
		if name == "" {
			return SaleDraft{}, apperror.NewValidationError(field + ".product_name: o nome do produto é obrigatório.")
		}
		if it.Quantity < 1 {
			return SaleDraft{}, apperror.NewValidationError(field + ".quantity: a quantidade mínima é 1.")
		}
		if it.UnitPrice.LessThan(minUnitPrice) {
			return SaleDraft{}, apperror.NewValidationError(field + ".unit_price: o preço unitário mínimo é 0.01.")
		}
		if !it.UnitPrice.Equal(it.UnitPrice.Round(2)) {
			return SaleDraft{}, apperror.NewValidationError(field + ".unit_price: no máximo duas casas decimais.")
		}

		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		d.Items[i] = domain.SaleItem{
			ProductID:   strings.TrimSpace(it.ProductID),
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  lineTotal,
		}
		d.Total = d.Total.Add(lineTotal)
	}

	// Cada parcela precisa de pelo menos um centavo.
	if d.HasInstallmentPlan() && d.Total.LessThan(minUnitPrice.Mul(decimal.NewFromInt(int64(d.InstallmentsCount)))) {
		return SaleDraft{}, apperror.NewValidationError(fmt.Sprintf("installments_count: o total %s não comporta %d parcelas.", d.Total.StringFixed(2), d.InstallmentsCount))
	}

	return d, nil
}

// SanitizeSaleUpdate converte o payload de edição, validando somente os campos informados.
func SanitizeSaleUpdate(req domain.SaleUpdateRequest) (domain.SaleUpdate, error) {
	var upd domain.SaleUpdate

	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return domain.SaleUpdate{}, apperror.NewValidationError("customer_name: o nome do cliente não pode ficar vazio.")
		}
		upd.CustomerName = &name
	}
	if req.CustomerEmail != nil {
		email, err := sanitizeEmail(*req.CustomerEmail)
		if err != nil {
			return domain.SaleUpdate{}, err
		}
		upd.CustomerEmail = &email
	}
	if req.CustomerPhone != nil {
		phone := strings.TrimSpace(*req.CustomerPhone)
		upd.CustomerPhone = &phone
	}
	if req.PaymentMethod != nil {
		m := domain.PaymentMethod(strings.ToLower(strings.TrimSpace(*req.PaymentMethod)))
		if !m.Valid() {
			return domain.SaleUpdate{}, apperror.NewValidationError(fmt.Sprintf("payment_method: forma de pagamento inválida %q.", *req.PaymentMethod))
		}
		upd.PaymentMethod = &m
	}
	if req.PaymentStatus != nil {
		s := domain.PaymentStatus(strings.ToLower(strings.TrimSpace(*req.PaymentStatus)))
		if !s.Valid() {
			return domain.SaleUpdate{}, apperror.NewValidationError(fmt.Sprintf("payment_status: status de pagamento inválido %q.", *req.PaymentStatus))
		}
		upd.PaymentStatus = &s
	}
	if req.SaleDate != nil {
		day, err := parseDate("sale_date", strings.TrimSpace(*req.SaleDate))
		if err != nil {
			return domain.SaleUpdate{}, err
		}
		upd.SaleDate = &day
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		upd.Notes = &notes
	}

	if upd.IsEmpty() {
		return domain.SaleUpdate{}, apperror.NewValidationError("Nenhum campo para atualizar.")
	}
	return upd, nil
}

func sanitizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperror.NewValidationError(fmt.Sprintf("customer_email: e-mail inválido %q.", raw))
	}
	return email, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.NewValidationError(fmt.Sprintf("%s: data inválida %q, use AAAA-MM-DD.", field, s))
	}
	return t, nil
}
