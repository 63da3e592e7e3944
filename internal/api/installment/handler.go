package installment

import (
	"context"
	"net/http"

	"govendas/internal/api/response"
	"govendas/internal/domain"
	"govendas/internal/pkg/logger"
)

// InstallmentService define o contrato que o Handler espera da camada de Serviço.
type InstallmentService interface {
	ListInstallments(ctx context.Context) ([]domain.Installment, error)
	SetStatus(ctx context.Context, id string, req domain.InstallmentStatusRequest) (domain.Installment, error)
}

// Handler agrupa os handlers de parcelas.
type Handler struct {
	Service InstallmentService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de parcelas.
func NewHandler(svc InstallmentService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListInstallmentsHandler lida com a requisição GET /v1/installments.
// @Summary Lista parcelas
// @Description Marca como vencidas as parcelas pendentes com vencimento passado e lista todas.
// @Tags installments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Installment
// @Router /installments [get]
func (h *Handler) ListInstallmentsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListInstallments(r.Context())
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, list, http.StatusOK)
}

// SetStatusHandler lida com a requisição PUT /v1/installments/{id}/status.
// @Summary Altera o status de uma parcela
// @Description paid registra a data de hoje e a forma de pagamento; pending limpa ambas.
// @Tags installments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da parcela"
// @Param status body domain.InstallmentStatusRequest true "Novo status"
// @Success 200 {object} domain.Installment
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /installments/{id}/status [put]
func (h *Handler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.InstallmentStatusRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}

	in, err := h.Service.SetStatus(r.Context(), r.PathValue("id"), req)
	if err != nil {
		response.Error(w, h.Logger, r, err)
		return
	}
	response.JSON(w, h.Logger, r, in, http.StatusOK)
}
