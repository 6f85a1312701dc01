package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/money"
)

type TermRecommendationService struct {
	loanService *LoanService
	advisor     *Advisor
	logger      *zap.Logger
}

func NewTermRecommendationService(loanService *LoanService, advisor *Advisor, logger *zap.Logger) *TermRecommendationService {
	return &TermRecommendationService{
		loanService: loanService,
		advisor:     advisor,
		logger:      logger,
	}
}

// RecommendTerm scores every term in the requested range that fits the
// payment ceiling and returns them best first.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	limits := s.loanService.limits

	if input.Amount <= 0 {
		return domain.TermRecommendationResult{}, validationf("amount must be positive")
	}
	if input.InterestRate < 0 {
		return domain.TermRecommendationResult{}, validationf("interest rate must not be negative")
	}
	if input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths {
		return domain.TermRecommendationResult{}, validationf("terms must be at least %d month", MinTermMonths)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, validationf("minimum term is greater than maximum term")
	}
	if input.MaxTermMonths > limits.MaxTermMonths {
		return domain.TermRecommendationResult{}, validationf("maximum term exceeds the limit of %d months", limits.MaxTermMonths)
	}
	if input.MaxTermMonths-input.MinTermMonths > limits.MaxTermRangeMonths {
		return domain.TermRecommendationResult{}, validationf("term range exceeds the maximum of %d months", limits.MaxTermRangeMonths)
	}
	if input.MaxMonthlyPayment <= 0 {
		return domain.TermRecommendationResult{}, validationf("maximum monthly payment must be positive")
	}
	switch input.Preference {
	case PreferenceMinimizeInterest, PreferenceMinimizePayment, PreferenceBalanced:
	default:
		return domain.TermRecommendationResult{}, validationf("unknown preference %q", input.Preference)
	}

	recommendations := []domain.TermRecommendation{}
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		result, err := s.loanService.CalculateLoan(domain.LoanInput{
			Amount:       input.Amount,
			InterestRate: input.InterestRate,
			TermMonths:   term,
		})
		if err != nil {
			s.logger.Warn("failed to calculate loan", zap.Int("term", term), zap.Error(err))
			continue
		}
		if result.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: result.MonthlyPayment,
			TotalInterest:  result.TotalInterest,
			Score:          s.calculateScore(result, input, term),
			Reason:         reasonFor(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, validationf("no term in range keeps the payment under $%.2f", input.MaxMonthlyPayment)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	top := recommendations[0]
	summary := TermSummary{
		Amount:          input.Amount,
		InterestRate:    input.InterestRate,
		RecommendedTerm: top.TermMonths,
		MonthlyPayment:  top.MonthlyPayment,
		TotalInterest:   top.TotalInterest,
		Preference:      input.Preference,
	}
	for i := 1; i < len(recommendations) && i <= maxAlternatives; i++ {
		summary.Alternatives = append(summary.Alternatives, TermAlternative{
			Term:           recommendations[i].TermMonths,
			MonthlyPayment: recommendations[i].MonthlyPayment,
			TotalInterest:  recommendations[i].TotalInterest,
		})
	}
	recommendations[0].Reason = s.advisor.ExplainTermRecommendation(ctx, summary)

	return domain.TermRecommendationResult{
		RecommendedTerm: top.TermMonths,
		Recommendations: recommendations,
	}, nil
}

// calculateScore rates a term from 0 to 10 on interest, payment and length,
// weighted by the borrower's preference.
func (s *TermRecommendationService) calculateScore(
	result domain.LoanResult,
	input domain.TermRecommendationInput,
	term int,
) float64 {
	maxPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MaxTermMonths) / 12
	minPossibleInterest := input.Amount * (input.InterestRate / 100) * float64(input.MinTermMonths) / 12
	interestRange := maxPossibleInterest - minPossibleInterest

	lowestPayment := input.Amount / float64(input.MaxTermMonths)
	paymentRange := input.MaxMonthlyPayment - lowestPayment

	var interestScore, paymentScore float64
	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (result.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (result.MonthlyPayment-lowestPayment)/paymentRange)
	}
	termScore := 10.0
	if span := input.MaxTermMonths - input.MinTermMonths; span > 0 {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case PreferenceMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case PreferenceMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case PreferenceBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}
	return money.Round2(score)
}

func reasonFor(preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return "Term chosen to minimize total interest"
	case PreferenceMinimizePayment:
		return "Term chosen to minimize the monthly payment"
	case PreferenceBalanced:
		return "Best balance between monthly payment and total cost"
	}
	return "Recommendation based on the given parameters"
}
