package service

import (
	"context"

	"go.uber.org/zap"

	"loan-engine/amortization"
	"loan-engine/config"
	"loan-engine/domain"
	"loan-engine/money"
)

type MortgageService struct {
	loans            *LoanService
	advisor          *Advisor
	defaultThreshold float64
	logger           *zap.Logger
}

func NewMortgageService(
	loans *LoanService,
	advisor *Advisor,
	cfg config.MortgageConfig,
	logger *zap.Logger,
) *MortgageService {
	return &MortgageService{
		loans:            loans,
		advisor:          advisor,
		defaultThreshold: cfg.PMIRemovalThresholdPercent,
		logger:           logger,
	}
}

// Params translates a calculator form into engine parameters.
func (s *MortgageService) Params(input domain.MortgageInput) (amortization.LoanParameters, error) {
	if input.HomePrice <= 0 {
		return amortization.LoanParameters{}, validationf("home price must be positive")
	}
	if input.DownPaymentPercent < 0 || input.DownPaymentPercent >= 100 {
		return amortization.LoanParameters{}, validationf("down payment must be in [0, 100) percent")
	}
	term, err := s.loans.termFromYears(input.TermYears)
	if err != nil {
		return amortization.LoanParameters{}, err
	}
	if t := input.PMIRemovalThreshold; t < 0 || t > 100 {
		return amortization.LoanParameters{}, validationf("PMI removal threshold must be in (0, 100] percent")
	}

	params := amortization.LoanParameters{
		Principal:         input.HomePrice * (1 - input.DownPaymentPercent/100),
		AnnualRatePercent: input.InterestRate,
		TermMonths:        term,
		Escrow: &amortization.Escrow{
			AnnualPropertyTaxRatePercent: input.PropertyTaxRate,
			MonthlyInsurance:             input.MonthlyInsurance,
			MonthlyHOA:                   input.MonthlyHOA,
		},
		ExtraMonthlyPayment: input.ExtraMonthlyPayment,
		AssetValue:          input.HomePrice,
	}
	ltv := money.Round2(params.Principal / input.HomePrice * 100)
	if input.PMIRate > 0 && ltv > MaxLTVWithoutPMI {
		threshold := input.PMIRemovalThreshold
		if threshold == 0 {
			threshold = s.defaultThreshold
		}
		params.PMI = &amortization.PMI{
			AnnualRatePercent:          input.PMIRate,
			OriginalValueForLTV:        input.HomePrice,
			LTVRemovalThresholdPercent: threshold,
		}
	}
	return params, nil
}

// Calculate prices a mortgage: the first full PITI payment, lifetime totals,
// and the months at which PMI ends and equity overtakes interest.
func (s *MortgageService) Calculate(ctx context.Context, input domain.MortgageInput) (domain.MortgageResult, error) {
	params, err := s.Params(input)
	if err != nil {
		return domain.MortgageResult{}, err
	}
	res, err := s.loans.Amortize(params)
	if err != nil {
		return domain.MortgageResult{}, err
	}
	first, err := res.PITI(params, 1)
	if err != nil {
		return domain.MortgageResult{}, err
	}

	var premiums []float64
	for period := 1; period <= len(res.Schedule) && res.PMIActive(period); period++ {
		b, err := res.PITI(params, period)
		if err != nil {
			return domain.MortgageResult{}, err
		}
		premiums = append(premiums, b.PMI)
	}

	result := domain.MortgageResult{
		LoanAmount:       money.Round2(params.Principal),
		LoanToValue:      money.Round2(params.Principal / input.HomePrice * 100),
		ScheduledPayment: money.Round2(res.ScheduledPayment),
		FirstPayment:     breakdown(first),
		PMIRequired:      res.PMIRequired,
		PMIRemovalMonth:  res.PMIRemovalPeriod,
		TotalPMI:         money.Round2(money.Sum(premiums...)),
		BreakEvenMonth:   res.BreakEvenPeriod,
		PayoffMonths:     len(res.Schedule),
		TotalInterest:    money.Round2(res.TotalInterest),
		TotalPayment:     money.Round2(res.TotalPaid),
	}
	if input.IncludeSchedule {
		result.Schedule = scheduleRows(res.Schedule)
	}
	if input.IncludeExplanation {
		result.Explanation = s.advisor.ExplainMortgage(ctx, MortgageSummary{
			HomePrice:       input.HomePrice,
			LoanAmount:      result.LoanAmount,
			InterestRate:    input.InterestRate,
			TermYears:       input.TermYears,
			MonthlyTotal:    result.FirstPayment.Total,
			TotalInterest:   result.TotalInterest,
			PMIRemovalMonth: result.PMIRemovalMonth,
			BreakEvenMonth:  result.BreakEvenMonth,
		})
	}

	s.logger.Debug("mortgage calculated",
		zap.Float64("loan_amount", result.LoanAmount),
		zap.Bool("pmi_required", result.PMIRequired),
		zap.Int("payoff_months", result.PayoffMonths),
	)
	return result, nil
}

func breakdown(b amortization.PITI) domain.PITIBreakdown {
	return domain.PITIBreakdown{
		Principal: money.Round2(b.Principal),
		Interest:  money.Round2(b.Interest),
		Taxes:     money.Round2(b.Taxes),
		Insurance: money.Round2(b.Insurance),
		HOA:       money.Round2(b.HOA),
		PMI:       money.Round2(b.PMI),
		Total:     money.Round2(b.Total),
	}
}
