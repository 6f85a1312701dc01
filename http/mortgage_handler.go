package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/service"
)

type MortgageHandler struct {
	service *service.MortgageService
	logger  *zap.Logger
}

func NewMortgageHandler(service *service.MortgageService, logger *zap.Logger) *MortgageHandler {
	return &MortgageHandler{service: service, logger: logger}
}

func (h *MortgageHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input domain.MortgageInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.Calculate(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}
