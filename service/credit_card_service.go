package service

import (
	"math"

	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/config"
	"loan-engine/domain"
	"loan-engine/money"
)

type CreditCardService struct {
	limits config.LimitsConfig
	logger *zap.Logger
}

func NewCreditCardService(limits config.LimitsConfig, logger *zap.Logger) *CreditCardService {
	return &CreditCardService{limits: limits, logger: logger}
}

// Payoff contrasts paying only the issuer's minimum with paying a fixed
// amount every month.
func (s *CreditCardService) Payoff(input domain.CreditCardInput) (domain.CreditCardResult, error) {
	if input.Balance <= 0 {
		return domain.CreditCardResult{}, validationf("balance must be positive")
	}
	if input.Balance > s.limits.MaxDebtAmount {
		return domain.CreditCardResult{}, validationf("balance exceeds the maximum of $%.2f", s.limits.MaxDebtAmount)
	}
	if input.InterestRate < 0 || input.InterestRate > s.limits.MaxInterestRate {
		return domain.CreditCardResult{}, validationf("interest rate must be between 0 and %.2f%%", s.limits.MaxInterestRate)
	}
	if input.MinPaymentPercent <= 0 || input.MinPaymentPercent > 100 {
		return domain.CreditCardResult{}, validationf("minimum payment percent must be in (0, 100]")
	}
	if input.MonthlyPayment <= 0 {
		return domain.CreditCardResult{}, validationf("monthly payment must be positive")
	}

	r := amortization.MonthlyRate(input.InterestRate)
	if interest := input.Balance * r; input.MonthlyPayment <= interest {
		return domain.CreditCardResult{}, validationf(
			"monthly payment $%.2f does not cover the first month's interest of $%.2f", input.MonthlyPayment, interest)
	}

	minimum := s.simulate(input.Balance, r, func(balance, interest float64) float64 {
		return math.Max(MinCardPayment, balance*input.MinPaymentPercent/100+interest)
	})
	fixed := s.simulate(input.Balance, r, func(balance, interest float64) float64 {
		return math.Min(balance+interest, input.MonthlyPayment)
	})

	return domain.CreditCardResult{
		MinimumOnly:   minimum,
		FixedPayment:  fixed,
		InterestSaved: money.Round2(math.Max(0, minimum.TotalInterest-fixed.TotalInterest)),
		MonthsSaved:   max(0, minimum.Months-fixed.Months),
	}, nil
}

// simulate charges interest on the opening balance each month and applies
// whatever payment pay returns, until the balance is gone or the payoff
// horizon runs out.
func (s *CreditCardService) simulate(
	balance, r float64,
	pay func(balance, interest float64) float64,
) domain.PayoffPath {
	var path domain.PayoffPath
	totalInterest := 0.0

	for balance > s.limits.DebtBalanceTolerance && path.Months < s.limits.MaxDebtPayoffMonths {
		interest := balance * r
		principal := math.Min(balance, pay(balance, interest)-interest)

		totalInterest += interest
		balance -= principal
		path.Months++

		paidOff := balance <= s.limits.DebtBalanceTolerance
		if paidOff {
			balance = 0
		}
		if paidOff || path.Months%12 == 0 {
			path.Balances = append(path.Balances, domain.BalancePoint{
				Month:   path.Months,
				Balance: money.Round2(balance),
			})
		}
	}

	if balance > s.limits.DebtBalanceTolerance {
		s.logger.Warn("card payoff reached the month limit",
			zap.Int("months", path.Months),
			zap.Float64("remaining", balance),
		)
	}
	path.PaidOff = balance <= s.limits.DebtBalanceTolerance
	path.TotalInterest = money.Round2(totalInterest)
	return path
}
