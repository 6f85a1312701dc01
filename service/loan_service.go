package service

import (
	"fmt"

	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/config"
	"loan-engine/domain"
	"loan-engine/money"
)

type LoanService struct {
	limits config.LimitsConfig
	logger *zap.Logger
}

// NewLoanService creates a LoanService bounded by limits.
func NewLoanService(limits config.LimitsConfig, logger *zap.Logger) *LoanService {
	return &LoanService{limits: limits, logger: logger}
}

func (s *LoanService) validate(amount, rate float64, termMonths int) error {
	if amount <= 0 {
		return validationf("amount must be positive")
	}
	if amount > s.limits.MaxLoanAmount {
		return validationf("amount exceeds the maximum of $%.2f", s.limits.MaxLoanAmount)
	}
	if rate < 0 {
		return validationf("interest rate must not be negative")
	}
	if rate > s.limits.MaxInterestRate {
		return validationf("interest rate exceeds the maximum of %.2f%%", s.limits.MaxInterestRate)
	}
	if termMonths < MinTermMonths {
		return validationf("term must be at least %d month", MinTermMonths)
	}
	if termMonths > s.limits.MaxTermMonths {
		return validationf("term exceeds the maximum of %d months", s.limits.MaxTermMonths)
	}
	return nil
}

// termFromYears converts a term in years to months. Terms beyond the limit
// are rejected before the multiplication.
func (s *LoanService) termFromYears(years int) (int, error) {
	maxYears := s.limits.MaxTermMonths / 12
	if years <= 0 || years > maxYears {
		return 0, validationf("term must be between 1 and %d years", maxYears)
	}
	return years * 12, nil
}

// CalculateLoan calculates the level payment and totals for a loan.
func (s *LoanService) CalculateLoan(
	input domain.LoanInput,
) (domain.LoanResult, error) {
	if err := s.validate(input.Amount, input.InterestRate, input.TermMonths); err != nil {
		return domain.LoanResult{}, err
	}

	payment, err := amortization.ComputeScheduledPayment(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		return domain.LoanResult{}, err
	}

	total := payment * float64(input.TermMonths)
	return domain.LoanResult{
		MonthlyPayment: money.Round2(payment),
		TotalPayment:   money.Round2(total),
		TotalInterest:  money.Round2(total - input.Amount),
	}, nil
}

// Amortize checks params against the configured limits and builds the
// schedule. TermMonths is converted to calendar months for the term limit.
func (s *LoanService) Amortize(params amortization.LoanParameters) (amortization.Result, error) {
	if !params.Frequency.IsValid() {
		return amortization.Result{}, validationf("unknown payment frequency")
	}
	perYear := params.Frequency.Value()
	if params.TermMonths > s.limits.MaxTermMonths*perYear/12 {
		return amortization.Result{}, validationf("term exceeds the maximum of %d months", s.limits.MaxTermMonths)
	}
	months := params.TermMonths * 12 / perYear
	if params.TermMonths > 0 && months == 0 {
		months = 1
	}
	if err := s.validate(params.Principal, params.AnnualRatePercent, months); err != nil {
		return amortization.Result{}, err
	}

	res, err := amortization.BuildSchedule(params)
	if err != nil {
		return amortization.Result{}, fmt.Errorf("build schedule: %w", err)
	}
	s.logger.Debug("schedule built",
		zap.Float64("principal", params.Principal),
		zap.Int("periods", len(res.Schedule)),
		zap.Stringer("frequency", params.Frequency),
	)
	return res, nil
}

// Schedule returns the full amortization table. With an extra payment it
// also reports what the extra saves against the plain schedule.
func (s *LoanService) Schedule(input domain.ScheduleInput) (domain.ScheduleResult, error) {
	if input.ExtraPayment < 0 {
		return domain.ScheduleResult{}, validationf("extra payment must not be negative")
	}
	params := amortization.LoanParameters{
		Principal:           input.Amount,
		AnnualRatePercent:   input.InterestRate,
		TermMonths:          input.TermMonths,
		ExtraMonthlyPayment: input.ExtraPayment,
		Frequency:           input.Frequency,
	}
	res, err := s.Amortize(params)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	result := domain.ScheduleResult{
		ScheduledPayment: money.Round2(res.ScheduledPayment),
		TotalInterest:    money.Round2(res.TotalInterest),
		TotalPayment:     money.Round2(res.TotalPaid),
		Periods:          len(res.Schedule),
		Schedule:         scheduleRows(res.Schedule),
	}

	if input.ExtraPayment > 0 {
		params.ExtraMonthlyPayment = 0
		base, err := amortization.BuildSchedule(params)
		if err != nil {
			return domain.ScheduleResult{}, err
		}
		result.InterestSaved = money.Round2(base.TotalInterest - res.TotalInterest)
		result.PeriodsSaved = len(base.Schedule) - len(res.Schedule)
	}
	return result, nil
}

func scheduleRows(entries []amortization.Entry) []domain.ScheduleRow {
	rows := make([]domain.ScheduleRow, len(entries))
	for i, e := range entries {
		rows[i] = domain.ScheduleRow{
			Period:             e.Period,
			Payment:            money.Round2(e.Payment),
			Interest:           money.Round2(e.InterestPortion),
			Principal:          money.Round2(e.PrincipalPortion),
			RemainingBalance:   money.Round2(e.RemainingBalance),
			CumulativeInterest: money.Round2(e.CumulativeInterest),
		}
	}
	return rows
}
