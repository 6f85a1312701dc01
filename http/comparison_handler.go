package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/service"
)

type ComparisonHandler struct {
	service *service.ComparisonService
	logger  *zap.Logger
}

func NewComparisonHandler(service *service.ComparisonService, logger *zap.Logger) *ComparisonHandler {
	return &ComparisonHandler{service: service, logger: logger}
}

func (h *ComparisonHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.ComparisonInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.Compare(input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}
