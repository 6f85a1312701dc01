package http

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/chart"
	"loan-engine/domain"
	"loan-engine/service"
)

type LoanHandler struct {
	service *service.LoanService
	logger  *zap.Logger
}

func NewLoanHandler(service *service.LoanService, logger *zap.Logger) *LoanHandler {
	return &LoanHandler{service: service, logger: logger}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.CalculateLoan(input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}

func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input domain.ScheduleInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}

	result, err := h.service.Schedule(input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, r, h.logger, result)
}

// ScheduleChart renders the schedule as a standalone HTML chart page.
func (h *LoanHandler) ScheduleChart(w http.ResponseWriter, r *http.Request) {
	var input domain.ScheduleInput
	if !decodeRequest(w, r, h.logger, &input) {
		return
	}
	if input.ExtraPayment < 0 {
		http.Error(w, "extra payment must not be negative", http.StatusBadRequest)
		return
	}

	res, err := h.service.Amortize(amortization.LoanParameters{
		Principal:           input.Amount,
		AnnualRatePercent:   input.InterestRate,
		TermMonths:          input.TermMonths,
		ExtraMonthlyPayment: input.ExtraPayment,
		Frequency:           input.Frequency,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderSchedule(&buf, "Loan repayment schedule", res); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeBody(w, r, h.logger, "text/html; charset=utf-8", buf.Bytes())
}
