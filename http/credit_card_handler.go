package http

import (
	"net/http"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/service"
)

type CreditCardHandler struct {
	service *service.CreditCardService
	logger  *zap.Logger
}

func NewCreditCardHandler(service *service.CreditCardService, logger *zap.Logger) *CreditCardHandler {
	return &CreditCardHandler{service: service, logger: logger}
}

func (h *CreditCardHandler) Payoff(w http.ResponseWriter, r *http.Request) {
	var input domain.CreditCardInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.Payoff(input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}
