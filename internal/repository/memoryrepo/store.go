// Package memoryrepo guarda produtos, vendas e parcelas em memória. É usado no modo
// de desenvolvimento (sem DATABASE_URL) e nos testes de serviço.
package memoryrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"govendas/internal/domain"
	"govendas/internal/errors"
)

// Store implementa os mesmos métodos dos repositórios Postgres.
// Um único mutex serializa as escritas, o que torna AdjustStock atômico por produto.
type Store struct {
	mu           sync.RWMutex
	products     map[string]domain.Product
	sales        map[string]domain.Sale
	items        map[string][]domain.SaleItem
	installments map[string]domain.Installment
}

// New cria um Store vazio.
func New() *Store {
	return &Store{
		products:     make(map[string]domain.Product),
		sales:        make(map[string]domain.Sale),
		items:        make(map[string][]domain.SaleItem),
		installments: make(map[string]domain.Installment),
	}
}

// NewSeeded cria um Store com alguns produtos de demonstração.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()
	seed := []struct {
		title string
		price string
		stock int
	}{
		{"Caneca de cerâmica", "49.90", 12},
		{"Camiseta estampada", "79.00", 8},
		{"Ecobag de algodão", "35.50", 20},
	}
	for i, p := range seed {
		id := uuid.New().String()
		s.products[id] = domain.Product{
			ID:            id,
			Title:         p.title,
			Price:         decimal.RequireFromString(p.price),
			IsActive:      true,
			StockQuantity: p.stock,
			CreatedAt:     now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt:     now,
		}
	}
	return s
}

// --- Produtos ---

func (s *Store) SaveProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; exists {
		return domain.Product{}, errors.NewConflictError(fmt.Sprintf("Produto %s já existe.", product.ID))
	}
	if product.StockQuantity < 0 {
		return domain.Product{}, errors.NewValidationError("Quantidade em estoque ou preço inválidos.")
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *Store) FindProductByID(_ context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	return p, nil
}

func (s *Store) FindAllProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, filter.Page, filter.Limit), nil
}

// --- Estoque ---

func (s *Store) GetProductStock(ctx context.Context, productID string) (domain.Product, error) {
	p, err := s.FindProductByID(ctx, productID)
	if err != nil {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", productID))
	}
	return p, nil
}

func (s *Store) AdjustStock(_ context.Context, productID string, delta int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", productID))
	}
	newQuantity := p.StockQuantity + delta
	if newQuantity < 0 {
		return domain.Product{}, errors.NewConflictError(fmt.Sprintf(
			"estoque insuficiente para %q: solicitado %d, disponível %d", p.Title, -delta, p.StockQuantity))
	}
	p.StockQuantity = newQuantity
	p.UpdatedAt = time.Now().UTC()
	s.products[productID] = p
	return p, nil
}

// --- Vendas ---

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sales[sale.ID]; exists {
		return domain.Sale{}, errors.NewConflictError(fmt.Sprintf("Venda %s já existe.", sale.ID))
	}
	sale.Items = nil
	sale.Installments = nil
	s.sales[sale.ID] = sale
	return sale, nil
}

func (s *Store) CreateSaleItems(_ context.Context, items []domain.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Valida tudo antes de gravar, como uma transação.
	for _, it := range items {
		if _, ok := s.sales[it.SaleID]; !ok {
			return errors.NewValidationError(fmt.Sprintf("Produto ou venda inexistente para o item %q.", it.ProductName))
		}
		if it.ProductID != "" {
			if _, ok := s.products[it.ProductID]; !ok {
				return errors.NewValidationError(fmt.Sprintf("Produto ou venda inexistente para o item %q.", it.ProductName))
			}
		}
	}
	for _, it := range items {
		s.items[it.SaleID] = append(s.items[it.SaleID], it)
	}
	return nil
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sales[id]; !ok {
		return errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
	}
	delete(s.sales, id)
	delete(s.items, id)
	for instID, in := range s.installments {
		if in.SaleID == id {
			delete(s.installments, instID)
		}
	}
	return nil
}

func (s *Store) UpdateSale(_ context.Context, id string, upd domain.SaleUpdate) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[id]
	if !ok {
		return domain.Sale{}, errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
	}
	if upd.CustomerName != nil {
		sale.CustomerName = *upd.CustomerName
	}
	if upd.CustomerEmail != nil {
		sale.CustomerEmail = *upd.CustomerEmail
	}
	if upd.CustomerPhone != nil {
		sale.CustomerPhone = *upd.CustomerPhone
	}
	if upd.PaymentMethod != nil {
		sale.PaymentMethod = *upd.PaymentMethod
	}
	if upd.PaymentStatus != nil {
		sale.PaymentStatus = *upd.PaymentStatus
	}
	if upd.SaleDate != nil {
		sale.SaleDate = *upd.SaleDate
	}
	if upd.Notes != nil {
		sale.Notes = *upd.Notes
	}
	sale.UpdatedAt = time.Now().UTC()
	s.sales[id] = sale
	return sale, nil
}

func (s *Store) FindSaleByID(_ context.Context, id string) (domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.sales[id]
	if !ok {
		return domain.Sale{}, errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada.", id))
	}
	return sale, nil
}

func (s *Store) FindSaleItems(_ context.Context, saleID string) ([]domain.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.SaleItem{}, s.items[saleID]...), nil
}

func (s *Store) FindAllSales(_ context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		list = append(list, sale)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].SaleDate.Equal(list[j].SaleDate) {
			return list[i].SaleDate.After(list[j].SaleDate)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, filter.Page, filter.Limit), nil
}

// --- Parcelas ---

func (s *Store) CreateInstallments(_ context.Context, installments []domain.Installment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, in := range installments {
		if _, ok := s.sales[in.SaleID]; !ok {
			return errors.NewNotFoundError(fmt.Sprintf("Venda %s não encontrada para a parcela.", in.SaleID))
		}
	}
	for _, in := range installments {
		in.PaidDate = nil
		in.PaymentMethod = nil
		s.installments[in.ID] = in
	}
	return nil
}

func (s *Store) FindInstallmentByID(_ context.Context, id string) (domain.Installment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.installments[id]
	if !ok {
		return domain.Installment{}, errors.NewNotFoundError(fmt.Sprintf("Parcela %s não encontrada.", id))
	}
	return in, nil
}

func (s *Store) UpdateInstallmentStatus(_ context.Context, id string, status domain.InstallmentStatus, paidDate *time.Time, method *string) (domain.Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.installments[id]
	if !ok {
		return domain.Installment{}, errors.NewNotFoundError(fmt.Sprintf("Parcela %s não encontrada.", id))
	}
	in.Status = status
	in.PaidDate = copyTime(paidDate)
	in.PaymentMethod = copyString(method)
	in.UpdatedAt = time.Now().UTC()
	s.installments[id] = in
	return in, nil
}

func (s *Store) MarkInstallmentOverdue(_ context.Context, id string, today time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.installments[id]
	if !ok || in.Status != domain.InstallmentPending || !in.DueDate.Before(today) {
		return false, nil
	}
	in.Status = domain.InstallmentOverdue
	in.UpdatedAt = time.Now().UTC()
	s.installments[id] = in
	return true, nil
}

func (s *Store) FindPendingDueBefore(_ context.Context, today time.Time) ([]domain.Installment, error) {
	return s.filterInstallments(func(in domain.Installment) bool {
		return in.Status == domain.InstallmentPending && in.DueDate.Before(today)
	}), nil
}

func (s *Store) FindAllInstallments(_ context.Context) ([]domain.Installment, error) {
	return s.filterInstallments(func(domain.Installment) bool { return true }), nil
}

func (s *Store) FindInstallmentsBySale(_ context.Context, saleID string) ([]domain.Installment, error) {
	return s.filterInstallments(func(in domain.Installment) bool { return in.SaleID == saleID }), nil
}

func (s *Store) filterInstallments(keep func(domain.Installment) bool) []domain.Installment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := []domain.Installment{}
	for _, in := range s.installments {
		if keep(in) {
			list = append(list, in)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.SaleID != b.SaleID {
			return a.SaleID < b.SaleID
		}
		return a.Number < b.Number
	})
	return list
}

func page[T any](list []T, p, limit int) []T {
	if limit <= 0 {
		return list
	}
	if p < 1 {
		p = 1
	}
	start := (p - 1) * limit
	if start >= len(list) {
		return []T{}
	}
	end := start + limit
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
