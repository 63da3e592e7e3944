package stock

import (
	"context"
	"net/http"

	"govendas/internal/api/response"
	"govendas/internal/domain"
	apperror "govendas/internal/errors"
	"govendas/internal/pkg/logger"
)

// StockValidator define o contrato que o Handler espera do validador de estoque.
type StockValidator interface {
	Validate(ctx context.Context, items []domain.StockItem) domain.StockValidation
}

// Handler expõe a checagem de disponibilidade usada pelo formulário antes do envio.
type Handler struct {
	Validator StockValidator
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler de estoque.
func NewHandler(v StockValidator, log logger.Logger) *Handler {
	return &Handler{Validator: v, Logger: log}
}

// ValidateStockHandler lida com a requisição POST /v1/stock/validate.
// @Summary Valida disponibilidade de estoque
// @Description Checa todos os itens e devolve todas as violações; não altera nada.
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.StockValidateRequest true "Itens a validar"
// @Success 200 {object} domain.StockValidation
// @Failure 400 {object} domain.ErrorResponse
// @Router /stock/validate [post]
func (h *Handler) ValidateStockHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.StockValidateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	if len(req.Items) == 0 {
		response.Error(w, h.Logger, r, apperror.NewValidationError("A lista de itens não pode ser vazia."))
		return
	}

	result := h.Validator.Validate(r.Context(), req.Items)
	response.JSON(w, h.Logger, r, result, http.StatusOK)
}
