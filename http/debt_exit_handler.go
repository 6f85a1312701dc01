package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/service"
)

type DebtExitHandler struct {
	service *service.DebtExitService
	logger  *zap.Logger
}

func NewDebtExitHandler(service *service.DebtExitService, logger *zap.Logger) *DebtExitHandler {
	return &DebtExitHandler{service: service, logger: logger}
}

func (h *DebtExitHandler) CalculateDebtExitPlan(w http.ResponseWriter, r *http.Request) {
	var input domain.DebtExitInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.CalculateDebtExitPlan(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}
