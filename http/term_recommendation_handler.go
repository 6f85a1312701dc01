package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
	logger  *zap.Logger
}

func NewTermRecommendationHandler(service *service.TermRecommendationService, logger *zap.Logger) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service, logger: logger}
}

func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}
