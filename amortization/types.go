package amortization

import "loan-engine/enums/frequency"

// DefaultLTVRemovalThresholdPercent is the loan-to-value at which lenders
// must cancel PMI automatically.
const DefaultLTVRemovalThresholdPercent = 78.0

// LoanParameters describes one loan. TermMonths counts payment periods, which
// are months under the default monthly frequency.
type LoanParameters struct {
	Principal           float64
	AnnualRatePercent   float64
	TermMonths          int
	Escrow              *Escrow
	PMI                 *PMI
	ExtraMonthlyPayment float64

	// AssetValue is the original value of the financed asset. It is used for
	// equity and property taxes when PMI does not carry its own value.
	AssetValue float64

	Frequency frequency.Type
}

// Escrow holds the non-loan parts of a mortgage payment.
type Escrow struct {
	AnnualPropertyTaxRatePercent float64
	MonthlyInsurance             float64
	MonthlyHOA                   float64
}

// PMI models private mortgage insurance that is dropped once the
// loan-to-value ratio falls below LTVRemovalThresholdPercent. A zero
// threshold means DefaultLTVRemovalThresholdPercent; any other value
// outside (0, 100] is rejected.
type PMI struct {
	AnnualRatePercent          float64
	OriginalValueForLTV        float64
	LTVRemovalThresholdPercent float64
}

// Entry is one row of an amortization schedule.
type Entry struct {
	Period             int
	Payment            float64
	InterestPortion    float64
	PrincipalPortion   float64
	RemainingBalance   float64
	CumulativeInterest float64
	Equity             float64
}

// Result is a complete schedule together with its cutover markers.
type Result struct {
	Schedule         []Entry
	ScheduledPayment float64

	// PMIRequired reports whether the opening loan-to-value was at or above
	// the removal threshold.
	PMIRequired      bool
	PMIRemovalPeriod *int
	BreakEvenPeriod  *int

	TotalInterest float64
	TotalPaid     float64
}

// PITI is the per-period payment broken into its parts.
type PITI struct {
	Principal float64
	Interest  float64
	Taxes     float64
	Insurance float64
	HOA       float64
	PMI       float64
	Total     float64
}

func (p *PMI) threshold() float64 {
	if p.LTVRemovalThresholdPercent == 0 {
		return DefaultLTVRemovalThresholdPercent
	}
	return p.LTVRemovalThresholdPercent
}

// assetValue is the value equity, LTV and property taxes are measured
// against; zero when the loan has no known asset.
func (p LoanParameters) assetValue() float64 {
	if p.PMI != nil && p.PMI.OriginalValueForLTV > 0 {
		return p.PMI.OriginalValueForLTV
	}
	return p.AssetValue
}

func (p LoanParameters) periodsPerYear() int {
	return p.Frequency.Value()
}

func (p LoanParameters) periodicRate() float64 {
	return p.AnnualRatePercent / float64(p.periodsPerYear()) / 100
}

// PMIActive reports whether PMI is still charged in the given period.
func (r Result) PMIActive(period int) bool {
	if !r.PMIRequired {
		return false
	}
	return r.PMIRemovalPeriod == nil || period < *r.PMIRemovalPeriod
}
