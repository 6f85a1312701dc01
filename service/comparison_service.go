package service

import (
	"math"

	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/domain"
	"loan-engine/money"
)

type ComparisonService struct {
	loans  *LoanService
	logger *zap.Logger
}

func NewComparisonService(loans *LoanService, logger *zap.Logger) *ComparisonService {
	return &ComparisonService{loans: loans, logger: logger}
}

// RateForCreditScore is the indicative mortgage rate for a credit score band.
func RateForCreditScore(score int) float64 {
	switch {
	case score >= 760:
		return 6.4
	case score >= 700:
		return 6.8
	case score >= 640:
		return 7.5
	default:
		return 8.5
	}
}

// Compare prices two loans side by side. Treating the first as the current
// loan, it reports how many months of payment savings repay the second
// loan's closing costs.
func (s *ComparisonService) Compare(input domain.ComparisonInput) (domain.ComparisonResult, error) {
	current, err := s.option(input.Current, "Current")
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	proposed, err := s.option(input.Proposed, "Proposed")
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	savings := math.Max(0, current.MonthlyPayment-proposed.MonthlyPayment)
	result := domain.ComparisonResult{
		Current:        current,
		Proposed:       proposed,
		MonthlySavings: money.Round2(savings),
		InterestDiff:   money.Round2(current.TotalInterest - proposed.TotalInterest),
	}
	if savings > 0 {
		months := int(math.Ceil(input.Proposed.ClosingCosts / savings))
		result.BreakEvenMonths = &months
	}

	if input.Prequal != nil {
		prequal, err := s.Prequalify(*input.Prequal)
		if err != nil {
			return domain.ComparisonResult{}, err
		}
		result.Prequal = &prequal
	}
	return result, nil
}

func (s *ComparisonService) option(opt domain.LoanOption, defaultName string) (domain.LoanOptionResult, error) {
	if opt.ClosingCosts < 0 {
		return domain.LoanOptionResult{}, validationf("%s closing costs must not be negative", defaultName)
	}
	term, err := s.loans.termFromYears(opt.TermYears)
	if err != nil {
		return domain.LoanOptionResult{}, err
	}
	loan, err := s.loans.CalculateLoan(domain.LoanInput{
		Amount:       opt.Amount,
		InterestRate: opt.InterestRate,
		TermMonths:   term,
	})
	if err != nil {
		return domain.LoanOptionResult{}, err
	}
	name := opt.Name
	if name == "" {
		name = defaultName
	}
	return domain.LoanOptionResult{
		Name:           name,
		MonthlyPayment: loan.MonthlyPayment,
		TotalPayment:   loan.TotalPayment,
		TotalInterest:  loan.TotalInterest,
	}, nil
}

// Prequalify estimates the largest loan whose payment keeps the borrower at
// the target debt-to-income ratio.
func (s *ComparisonService) Prequalify(input domain.PrequalInput) (domain.PrequalResult, error) {
	if input.MonthlyIncome <= 0 {
		return domain.PrequalResult{}, validationf("monthly income must be positive")
	}
	if input.ExistingDebt < 0 {
		return domain.PrequalResult{}, validationf("existing debt must not be negative")
	}
	if input.TargetDTI <= 0 || input.TargetDTI > 100 {
		return domain.PrequalResult{}, validationf("target DTI must be in (0, 100]")
	}
	term, err := s.loans.termFromYears(input.TermYears)
	if err != nil {
		return domain.PrequalResult{}, err
	}

	rate := RateForCreditScore(input.CreditScore)
	result := domain.PrequalResult{EstimatedRate: rate}

	maxPayment := input.MonthlyIncome*input.TargetDTI/100 - input.ExistingDebt
	if maxPayment <= 0 {
		return result, nil
	}
	maxLoan, err := amortization.AffordablePrincipal(maxPayment, rate, term)
	if err != nil {
		return domain.PrequalResult{}, err
	}
	result.MaxAllowedPayment = money.Round2(maxPayment)
	result.EstimatedMaxLoan = money.Round2(maxLoan)
	return result, nil
}
