package product

import (
	"context"
	"net/http"

	"govendas/internal/api/response"
	"govendas/internal/domain"
	"govendas/internal/pkg/logger"
	"govendas/internal/pkg/middleware"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProducts(ctx context.Context, page, limit int) ([]domain.Product, error)
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateProductHandler lida com a requisição POST /v1/products.
// @Summary Cadastra um produto
// @Description Cria um produto do catálogo com estoque inicial.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body domain.ProductCreateRequest true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if claims, ok := middleware.GetUserClaimsFromContext(ctx); ok {
		h.Logger.Info("Criação de produto solicitada", map[string]interface{}{"user_id": claims.UserID})
	}

	var req domain.ProductCreateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}

	newProduct, err := h.Service.CreateProduct(ctx, req)
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, newProduct, http.StatusCreated)
}

// GetProductByIDHandler lida com a requisição GET /v1/products/{id}.
// @Summary Busca um produto
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do produto (UUID)"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, product, http.StatusOK)
}

// ListProductsHandler lida com a requisição GET /v1/products.
// @Summary Lista produtos
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (padrão 1)"
// @Param limit query int false "Itens por página (padrão 10, máximo 100)"
// @Success 200 {array} domain.Product
// @Router /products [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.GetProducts(r.Context(), response.QueryInt(r, "page", 1), response.QueryInt(r, "limit", 10))
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, products, http.StatusOK)
}
