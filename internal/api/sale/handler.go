package sale

import (
	"context"
	"net/http"
	"strings"

	"govendas/internal/api/response"
	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
)

// IdempotencyHeader identifica uma submissão do formulário de venda.
const IdempotencyHeader = "Idempotency-Key"

// SaleService define o contrato que o Handler espera da camada de Serviço.
type SaleService interface {
	CreateSale(ctx context.Context, form domain.SaleFormData) (domain.Sale, error)
	UpdateSale(ctx context.Context, id string, req domain.SaleUpdateRequest) (domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	GetSale(ctx context.Context, id string) (domain.Sale, error)
	ListSales(ctx context.Context, page, limit int) ([]domain.Sale, error)
}

// SubmissionLock é implementado por cache.SubmissionLock.
type SubmissionLock interface {
	Acquire(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Handler agrupa os handlers de venda.
type Handler struct {
	Service SaleService
	Lock    SubmissionLock
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de venda.
func NewHandler(svc SaleService, lock SubmissionLock, log logger.Logger) *Handler {
	return &Handler{Service: svc, Lock: lock, Logger: log}
}

// CreateSaleHandler lida com a requisição POST /v1/sales.
// @Summary Registra uma venda
// @Description Valida o estoque, grava cabeçalho e itens, baixa o estoque e gera as parcelas. Tudo ou nada.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Chave única da submissão"
// @Param sale body domain.SaleFormData true "Formulário de venda"
// @Success 201 {object} domain.Sale
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /sales [post]
func (h *Handler) CreateSaleHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var form domain.SaleFormData
	if err := response.Decode(r, &form); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if key != "" {
		acquired, err := h.Lock.Acquire(ctx, "sale", key)
		if err != nil {
			// Sem o cache a venda segue sem proteção contra reenvio.
			h.Logger.Warn("Falha ao adquirir lock de submissão.", map[string]interface{}{"error": err.Error()})
		} else if !acquired {
			response.Error(w, h.Logger, r, apperror.NewConflictError("Esta venda já foi enviada. Aguarde o resultado da submissão anterior."))
			return
		}
	}

	sale, err := h.Service.CreateSale(ctx, form)
	if err != nil {
		if key != "" {
			if relErr := h.Lock.Release(context.WithoutCancel(ctx), "sale", key); relErr != nil {
				h.Logger.Warn("Falha ao liberar lock de submissão.", map[string]interface{}{"error": relErr.Error()})
			}
		}
		response.Error(w, h.Logger, r, err)
		return
	}

	response.JSON(w, h.Logger, r, sale, http.StatusCreated)
}

// ListSalesHandler lida com a requisição GET /v1/sales.
// @Summary Lista vendas
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (padrão 1)"
// @Param limit query int false "Itens por página (padrão 20, máximo 100)"
// @Success 200 {array} domain.Sale
// @Router /sales [get]
func (h *Handler) ListSalesHandler(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Service.ListSales(r.Context(), response.QueryInt(r, "page", 1), response.QueryInt(r, "limit", 20))
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, sales, http.StatusOK)
}

// GetSaleHandler lida com a requisição GET /v1/sales/{id}.
// @Summary Busca uma venda com itens e parcelas
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 200 {object} domain.Sale
// @Failure 404 {object} domain.ErrorResponse
// @Router /sales/{id} [get]
func (h *Handler) GetSaleHandler(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Service.GetSale(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, sale, http.StatusOK)
}

// UpdateSaleHandler lida com a requisição PUT /v1/sales/{id}.
// @Summary Edita o cabeçalho de uma venda
// @Description Altera apenas dados do cliente, pagamento, data e observações. Itens, estoque e parcelas não mudam.
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Param sale body domain.SaleUpdateRequest true "Campos a alterar"
// @Success 200 {object} domain.Sale
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /sales/{id} [put]
func (h *Handler) UpdateSaleHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleUpdateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}

	sale, err := h.Service.UpdateSale(r.Context(), r.PathValue("id"), req)
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, sale, http.StatusOK)
}

// DeleteSaleHandler lida com a requisição DELETE /v1/sales/{id}.
// @Summary Remove uma venda
// @Description Remove a venda com itens e parcelas e devolve as quantidades ao estoque.
// @Tags sales
// @Security BearerAuth
// @Param id path string true "ID da venda"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Router /sales/{id} [delete]
func (h *Handler) DeleteSaleHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSale(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
