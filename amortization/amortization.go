// Package amortization builds level-payment loan schedules, including the
// PMI cutover and equity break-even markers used by mortgage calculators.
//
// Every function is pure: results depend only on the arguments, so callers
// may recompute on each input change and call from any goroutine.
package amortization

import "math"

// MonthlyRate converts an annual percentage rate to the monthly rate used by
// every calculator in this module.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// ComputeScheduledPayment returns the monthly principal-and-interest payment
// that retires principal in termMonths payments.
func ComputeScheduledPayment(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if err := validateLoan(principal, annualRatePercent, termMonths); err != nil {
		return 0, err
	}
	return levelPayment(principal, MonthlyRate(annualRatePercent), termMonths), nil
}

// AffordablePrincipal is the inverse of ComputeScheduledPayment: the largest
// principal that a monthly payment retires over termMonths.
func AffordablePrincipal(payment, annualRatePercent float64, termMonths int) (float64, error) {
	if err := validateLoan(payment, annualRatePercent, termMonths); err != nil {
		return 0, err
	}
	r := MonthlyRate(annualRatePercent)
	if r == 0 {
		return payment * float64(termMonths), nil
	}
	return payment * (1 - math.Pow(1+r, -float64(termMonths))) / r, nil
}

func levelPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	growth := math.Pow(1+r, float64(n))
	return principal * r * growth / (growth - 1)
}

// BuildSchedule amortizes params period by period. Each period's interest is
// charged on the previous period's closing balance. The schedule ends early
// once extra payments retire the balance, and the last period absorbs any
// rounding residue so the balance closes at exactly zero.
func BuildSchedule(params LoanParameters) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}

	r := params.periodicRate()
	payment := levelPayment(params.Principal, r, params.TermMonths)
	asset := params.assetValue()

	var threshold float64
	res := Result{
		ScheduledPayment: payment,
		Schedule:         make([]Entry, 0, params.TermMonths),
	}
	if params.PMI != nil {
		threshold = params.PMI.threshold()
		res.PMIRequired = params.Principal/asset*100 >= threshold
	}

	balance := params.Principal
	cumulative := 0.0
	for period := 1; period <= params.TermMonths && balance > 0; period++ {
		interest := balance * r
		principal := payment - interest + params.ExtraMonthlyPayment
		if principal > balance || period == params.TermMonths {
			principal = balance
		}
		balance = math.Max(0, balance-principal)
		cumulative += interest

		equity := params.Principal - balance
		if asset > 0 {
			equity = asset - balance
		}

		res.Schedule = append(res.Schedule, Entry{
			Period:             period,
			Payment:            interest + principal,
			InterestPortion:    interest,
			PrincipalPortion:   principal,
			RemainingBalance:   balance,
			CumulativeInterest: cumulative,
			Equity:             equity,
		})

		if res.PMIRequired && res.PMIRemovalPeriod == nil && balance/asset*100 < threshold {
			p := period
			res.PMIRemovalPeriod = &p
		}
		if asset > 0 && res.BreakEvenPeriod == nil && equity > cumulative {
			p := period
			res.BreakEvenPeriod = &p
		}
	}

	res.TotalInterest = cumulative
	res.TotalPaid = params.Principal + cumulative
	return res, nil
}

// MonthlyPITI builds the schedule for params and breaks down the payment due
// in the given period.
func MonthlyPITI(params LoanParameters, period int) (PITI, error) {
	res, err := BuildSchedule(params)
	if err != nil {
		return PITI{}, err
	}
	return res.PITI(params, period)
}

// PITI breaks down the payment due in period. params must be the parameters
// r was built from. Periods after an early payoff carry escrow only.
func (r Result) PITI(params LoanParameters, period int) (PITI, error) {
	if period < 1 || period > params.TermMonths {
		return PITI{}, invalidf("period must be in [1, %d], got %d", params.TermMonths, period)
	}

	var b PITI
	if period <= len(r.Schedule) {
		e := r.Schedule[period-1]
		b.Principal = e.PrincipalPortion
		b.Interest = e.InterestPortion
	}

	perYear := float64(params.periodsPerYear())
	if e := params.Escrow; e != nil {
		value := params.assetValue()
		if value == 0 {
			value = params.Principal
		}
		b.Taxes = value * e.AnnualPropertyTaxRatePercent / 100 / perYear
		b.Insurance = e.MonthlyInsurance * 12 / perYear
		b.HOA = e.MonthlyHOA * 12 / perYear
	}
	if r.PMIActive(period) {
		b.PMI = params.Principal * params.PMI.AnnualRatePercent / 100 / perYear
	}

	b.Total = b.Principal + b.Interest + b.Taxes + b.Insurance + b.HOA + b.PMI
	return b, nil
}
