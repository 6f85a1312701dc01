package http

import (
	"net/http"

	"go.uber.org/zap"
)

type Handlers struct {
	Loan       *LoanHandler
	Mortgage   *MortgageHandler
	Comparison *ComparisonHandler
	CreditCard *CreditCardHandler
	Term       *TermRecommendationHandler
	DebtExit   *DebtExitHandler
}

// NewRouter wires the API routes behind the rate limiter. /healthz is never
// rate limited.
func NewRouter(h Handlers, limiter Limiter, logger *zap.Logger) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/loan/calculate", h.Loan.CalculateLoan)
	api.HandleFunc("/loan/schedule", h.Loan.Schedule)
	api.HandleFunc("/loan/schedule/chart", h.Loan.ScheduleChart)
	api.HandleFunc("/loan/compare", h.Comparison.Compare)
	api.HandleFunc("/loan/recommend-term", h.Term.RecommendTerm)
	api.HandleFunc("/loan/debt-exit-plan", h.DebtExit.CalculateDebtExitPlan)
	api.HandleFunc("/mortgage/calculate", h.Mortgage.Calculate)
	api.HandleFunc("/credit-card/payoff", h.CreditCard.Payoff)

	root := http.NewServeMux()
	root.HandleFunc("/healthz", Healthz)
	root.Handle("/", RateLimitMiddleware(limiter, logger, api))

	return RequestIDMiddleware(logger, root)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}
