package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loan-engine/config"
	"loan-engine/domain"
)

func newDebtExitService(limits config.LimitsConfig) *DebtExitService {
	return NewDebtExitService(limits, NewAdvisor(config.DefaultConfig().Advisor, zap.NewNop()), zap.NewNop())
}

func portfolio(strategy string) domain.DebtExitInput {
	return domain.DebtExitInput{
		Debts: []domain.Debt{
			{Name: "Card", Amount: 3000, InterestRate: 24, MinimumPayment: 90},
			{Name: "Car", Amount: 12000, InterestRate: 6, MinimumPayment: 250},
			{Name: "Store", Amount: 800, InterestRate: 18, MinimumPayment: 40},
		},
		AvailableMonthlyPayment: 600,
		Strategy:                strategy,
	}
}

func TestDebtExit_ZeroInterestSingleDebt(t *testing.T) {
	result, err := newDebtExitService(config.DefaultLimits()).CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
		Debts:                   []domain.Debt{{Name: "Friend", Amount: 1000, MinimumPayment: 100}},
		AvailableMonthlyPayment: 100,
		Strategy:                StrategySnowball,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.MonthsToPayoff)
	assert.Zero(t, result.TotalInterestPaid)
	assert.Equal(t, 1000.0, result.TotalDebt)
	require.Len(t, result.MonthlyPlan, 10)
	assert.Equal(t, 0.0, result.MonthlyPlan[9].Payments[0].RemainingBalance)
	assert.NotEmpty(t, result.Explanation)
}

func TestDebtExit_SnowballPaysSmallestFirst(t *testing.T) {
	result, err := newDebtExitService(config.DefaultLimits()).CalculateDebtExitPlan(context.Background(), portfolio(StrategySnowball))
	require.NoError(t, err)

	first := result.MonthlyPlan[0].Payments
	require.Len(t, first, 3)
	assert.Equal(t, "Store", first[0].DebtName)
	// Store gets its minimum plus all of the surplus.
	assert.Equal(t, 600.0-90-250, first[0].Payment)
	assert.Equal(t, 600.0, result.MonthlyPlan[0].TotalPaid)
}

func TestDebtExit_AvalanchePaysHighestRateFirst(t *testing.T) {
	result, err := newDebtExitService(config.DefaultLimits()).CalculateDebtExitPlan(context.Background(), portfolio(StrategyAvalanche))
	require.NoError(t, err)
	assert.Equal(t, "Card", result.MonthlyPlan[0].Payments[0].DebtName)
	assert.Equal(t, StrategyAvalanche, result.Strategy)
}

func TestDebtExit_CompareChoosesCheaper(t *testing.T) {
	service := newDebtExitService(config.DefaultLimits())
	ctx := context.Background()

	snowball, err := service.CalculateDebtExitPlan(ctx, portfolio(StrategySnowball))
	require.NoError(t, err)
	avalanche, err := service.CalculateDebtExitPlan(ctx, portfolio(StrategyAvalanche))
	require.NoError(t, err)
	compared, err := service.CalculateDebtExitPlan(ctx, portfolio(StrategyCompare))
	require.NoError(t, err)

	require.NotNil(t, compared.Comparison)
	assert.LessOrEqual(t, avalanche.TotalInterestPaid, snowball.TotalInterestPaid)
	assert.Equal(t, snowball.TotalInterestPaid, compared.Comparison.Snowball.TotalInterestPaid)
	assert.Equal(t, avalanche.TotalInterestPaid, compared.Comparison.Avalanche.TotalInterestPaid)
	assert.GreaterOrEqual(t, compared.Comparison.Savings.InterestSaved, 0.0)
	assert.LessOrEqual(t, compared.TotalInterestPaid, snowball.TotalInterestPaid)
}

func TestDebtExit_MonthLimit(t *testing.T) {
	limits := config.DefaultLimits()
	limits.MaxDebtPayoffMonths = 12

	result, err := newDebtExitService(limits).CalculateDebtExitPlan(context.Background(), domain.DebtExitInput{
		Debts:                   []domain.Debt{{Name: "Loan", Amount: 1000, MinimumPayment: 1}},
		AvailableMonthlyPayment: 1,
		Strategy:                StrategySnowball,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, result.MonthsToPayoff)
	assert.Len(t, result.MonthlyPlan, 12)
}

func TestDebtExit_Invalid(t *testing.T) {
	tests := map[string]func(*domain.DebtExitInput){
		"no debts":         func(in *domain.DebtExitInput) { in.Debts = nil },
		"unknown strategy": func(in *domain.DebtExitInput) { in.Strategy = "lottery" },
		"no budget":        func(in *domain.DebtExitInput) { in.AvailableMonthlyPayment = 0 },
		"empty name":       func(in *domain.DebtExitInput) { in.Debts[0].Name = "" },
		"duplicate name":   func(in *domain.DebtExitInput) { in.Debts[1].Name = "Card" },
		"zero amount":      func(in *domain.DebtExitInput) { in.Debts[0].Amount = 0 },
		"zero minimum":     func(in *domain.DebtExitInput) { in.Debts[0].MinimumPayment = 0 },
		"minimum below interest": func(in *domain.DebtExitInput) {
			in.Debts[0].MinimumPayment = 10
		},
		"minimums above budget": func(in *domain.DebtExitInput) { in.AvailableMonthlyPayment = 300 },
		"too many debts": func(in *domain.DebtExitInput) {
			for i := 0; i < 60; i++ {
				in.Debts = append(in.Debts, domain.Debt{Name: string(rune('a'+i%26)) + string(rune('A'+i/26)), Amount: 10, MinimumPayment: 1})
			}
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			input := portfolio(StrategySnowball)
			mutate(&input)
			_, err := newDebtExitService(config.DefaultLimits()).CalculateDebtExitPlan(context.Background(), input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
