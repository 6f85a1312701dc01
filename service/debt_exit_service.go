package service

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/config"
	"loan-engine/domain"
	"loan-engine/money"
)

type DebtExitService struct {
	limits  config.LimitsConfig
	advisor *Advisor
	logger  *zap.Logger
}

func NewDebtExitService(limits config.LimitsConfig, advisor *Advisor, logger *zap.Logger) *DebtExitService {
	return &DebtExitService{
		limits:  limits,
		advisor: advisor,
		logger:  logger,
	}
}

// CalculateDebtExitPlan builds a month-by-month payoff plan with the snowball
// or avalanche method. "compare" runs both and returns the cheaper one.
func (s *DebtExitService) CalculateDebtExitPlan(
	ctx context.Context,
	input domain.DebtExitInput,
) (domain.DebtExitResult, error) {
	if err := s.validate(input); err != nil {
		return domain.DebtExitResult{}, err
	}

	var result domain.DebtExitResult
	if input.Strategy == StrategyCompare {
		snowball := s.calculateStrategy(input, StrategySnowball)
		avalanche := s.calculateStrategy(input, StrategyAvalanche)

		if avalanche.TotalInterestPaid < snowball.TotalInterestPaid {
			result = avalanche
		} else {
			result = snowball
		}

		result.Comparison = &domain.Comparison{
			Snowball: domain.StrategyResult{
				TotalInterestPaid: snowball.TotalInterestPaid,
				MonthsToPayoff:    snowball.MonthsToPayoff,
			},
			Avalanche: domain.StrategyResult{
				TotalInterestPaid: avalanche.TotalInterestPaid,
				MonthsToPayoff:    avalanche.MonthsToPayoff,
			},
			Savings: domain.Savings{
				InterestSaved: money.Round2(math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid)),
				MonthsSaved:   snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
			},
		}
	} else {
		result = s.calculateStrategy(input, input.Strategy)
	}

	summary := DebtStrategySummary{
		Strategy:          result.Strategy,
		TotalDebt:         result.TotalDebt,
		TotalInterestPaid: result.TotalInterestPaid,
		MonthsToPayoff:    result.MonthsToPayoff,
		Debts:             make([]DebtSummary, len(input.Debts)),
	}
	for i, debt := range input.Debts {
		summary.Debts[i] = DebtSummary{Name: debt.Name, Amount: debt.Amount, InterestRate: debt.InterestRate}
	}
	if c := result.Comparison; c != nil {
		summary.Comparison = &StrategyComparison{
			SnowballInterest:  c.Snowball.TotalInterestPaid,
			AvalancheInterest: c.Avalanche.TotalInterestPaid,
			InterestSaved:     c.Savings.InterestSaved,
			MonthsSaved:       c.Savings.MonthsSaved,
		}
	}
	result.Explanation = s.advisor.ExplainDebtStrategy(ctx, summary)

	return result, nil
}

func (s *DebtExitService) validate(input domain.DebtExitInput) error {
	if len(input.Debts) == 0 {
		return validationf("no debts provided")
	}
	if len(input.Debts) > s.limits.MaxDebtsPerRequest {
		return validationf("number of debts exceeds the maximum of %d", s.limits.MaxDebtsPerRequest)
	}
	if input.AvailableMonthlyPayment <= 0 {
		return validationf("available monthly payment must be positive")
	}
	switch input.Strategy {
	case StrategySnowball, StrategyAvalanche, StrategyCompare:
	default:
		return validationf("unknown strategy %q", input.Strategy)
	}

	names := make(map[string]bool)
	totalMinimumPayments := 0.0
	for _, debt := range input.Debts {
		if debt.Name == "" {
			return validationf("debt name must not be empty")
		}
		if names[debt.Name] {
			return validationf("duplicate debt name: %s", debt.Name)
		}
		names[debt.Name] = true

		if debt.Amount <= 0 {
			return validationf("amount of %s must be positive", debt.Name)
		}
		if debt.Amount > s.limits.MaxDebtAmount {
			return validationf("amount of %s exceeds the maximum of $%.2f", debt.Name, s.limits.MaxDebtAmount)
		}
		if debt.InterestRate < 0 || debt.InterestRate > s.limits.MaxInterestRate {
			return validationf("interest rate of %s must be between 0 and %.2f%%", debt.Name, s.limits.MaxInterestRate)
		}
		if debt.MinimumPayment <= 0 {
			return validationf("minimum payment of %s must be positive", debt.Name)
		}
		// The minimum has to cover at least the first month's interest.
		monthlyInterest := debt.Amount * amortization.MonthlyRate(debt.InterestRate)
		if debt.MinimumPayment < monthlyInterest {
			return validationf("minimum payment of %s ($%.2f) is less than its monthly interest ($%.2f)",
				debt.Name, debt.MinimumPayment, monthlyInterest)
		}
		totalMinimumPayments += debt.MinimumPayment
	}

	if totalMinimumPayments > input.AvailableMonthlyPayment {
		return validationf("available monthly payment does not cover the minimum payments")
	}
	return nil
}

func (s *DebtExitService) calculateStrategy(
	input domain.DebtExitInput,
	strategy string,
) domain.DebtExitResult {
	debts := make([]domain.Debt, len(input.Debts))
	copy(debts, input.Debts)

	if strategy == StrategySnowball {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].Amount < debts[j].Amount
		})
	} else {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].InterestRate > debts[j].InterestRate
		})
	}

	balances := make(map[string]float64, len(debts))
	for _, debt := range debts {
		balances[debt.Name] = debt.Amount
	}

	monthlyPlan := []domain.MonthlyPlan{}
	totalInterestPaid := 0.0
	month := 0

	for {
		month++
		available := input.AvailableMonthlyPayment
		payments := []domain.MonthlyPayment{}
		totalPaid := 0.0

		// Interest accrues on the opening balance of every active debt.
		interest := make(map[string]float64, len(debts))
		for _, debt := range debts {
			if balances[debt.Name] <= 0 {
				continue
			}
			interest[debt.Name] = balances[debt.Name] * amortization.MonthlyRate(debt.InterestRate)
			totalInterestPaid += interest[debt.Name]
		}

		// Minimums first, never less than the interest and never more than
		// what is owed.
		for _, debt := range debts {
			if balances[debt.Name] <= 0 {
				continue
			}
			owed := balances[debt.Name] + interest[debt.Name]
			payment := math.Min(math.Max(debt.MinimumPayment, interest[debt.Name]), owed)
			payment = math.Min(payment, available)
			if payment <= 0 {
				continue
			}

			principal := math.Max(0, payment-interest[debt.Name])
			balances[debt.Name] = math.Max(0, balances[debt.Name]-principal)

			payments = append(payments, domain.MonthlyPayment{
				DebtName:         debt.Name,
				Payment:          money.Round2(payment),
				RemainingBalance: money.Round2(balances[debt.Name]),
			})
			available -= payment
			totalPaid += payment
		}

		// Whatever is left goes to the first open debt in strategy order.
		if available > 0 {
			for _, debt := range debts {
				if balances[debt.Name] <= 0 {
					continue
				}
				extra := math.Min(available, balances[debt.Name])
				for i := range payments {
					if payments[i].DebtName == debt.Name {
						balances[debt.Name] = math.Max(0, balances[debt.Name]-extra)
						payments[i].Payment = money.Round2(payments[i].Payment + extra)
						payments[i].RemainingBalance = money.Round2(balances[debt.Name])
						totalPaid += extra
						available -= extra
						break
					}
				}
				break
			}
		}

		monthlyPlan = append(monthlyPlan, domain.MonthlyPlan{
			Month:     month,
			Payments:  payments,
			TotalPaid: money.Round2(totalPaid),
		})

		allPaid := true
		for _, debt := range debts {
			if balances[debt.Name] > s.limits.DebtBalanceTolerance {
				allPaid = false
				break
			}
		}
		if allPaid {
			break
		}

		if month >= s.limits.MaxDebtPayoffMonths {
			s.logger.Warn("debt payoff reached the month limit",
				zap.String("strategy", strategy),
				zap.Int("months", s.limits.MaxDebtPayoffMonths),
			)
			break
		}
	}

	totalDebt := 0.0
	for _, debt := range input.Debts {
		totalDebt += debt.Amount
	}

	return domain.DebtExitResult{
		Strategy:          strategy,
		TotalDebt:         money.Round2(totalDebt),
		TotalInterestPaid: money.Round2(totalInterestPaid),
		MonthsToPayoff:    month,
		MonthlyPlan:       monthlyPlan,
	}
}
