package amortization

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-engine/enums/frequency"
)

const (
	centTolerance     = 0.01
	relativeTolerance = 1e-6
)

func mortgageParams() LoanParameters {
	return LoanParameters{
		Principal:         400000,
		AnnualRatePercent: 6.5,
		TermMonths:        360,
	}
}

func principalSum(rows []Entry) float64 {
	total := 0.0
	for _, row := range rows {
		total += row.PrincipalPortion
	}
	return total
}

func TestComputeScheduledPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
		want      float64
	}{
		{"30 year mortgage at 6.5%", 400000, 6.5, 360, 2528.27},
		{"100k at 5% for 30 years", 100000, 5, 360, 536.82},
		{"short personal loan", 10000, 12, 24, 470.73},
		{"interest free", 100000, 0, 100, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeScheduledPayment(tt.principal, tt.rate, tt.term)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, centTolerance)
		})
	}
}

func TestComputeScheduledPayment_ZeroRateIsExact(t *testing.T) {
	got, err := ComputeScheduledPayment(100000, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 100000.0/100, got)

	got, err = ComputeScheduledPayment(1000, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 1000.0/3, got)
}

func TestComputeScheduledPayment_InvalidParameter(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		term      int
	}{
		{"negative principal", -1000, 5, 60},
		{"zero principal", 0, 5, 60},
		{"negative rate", 1000, -0.5, 60},
		{"zero term", 1000, 5, 0},
		{"negative term", 1000, 5, -12},
		{"NaN principal", math.NaN(), 5, 60},
		{"infinite rate", 1000, math.Inf(1), 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeScheduledPayment(tt.principal, tt.rate, tt.term)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestBuildSchedule_FirstPeriodSplit(t *testing.T) {
	res, err := BuildSchedule(mortgageParams())
	require.NoError(t, err)

	assert.InDelta(t, 2528.27, res.ScheduledPayment, centTolerance)
	first := res.Schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.InDelta(t, 2166.67, first.InterestPortion, centTolerance)
	assert.InDelta(t, 361.61, first.PrincipalPortion, centTolerance)
	assert.InDelta(t, res.ScheduledPayment, first.InterestPortion+first.PrincipalPortion, 1e-9)
}

func TestBuildSchedule_Conservation(t *testing.T) {
	cases := []LoanParameters{
		mortgageParams(),
		{Principal: 250000, AnnualRatePercent: 3.25, TermMonths: 180},
		{Principal: 50000, AnnualRatePercent: 8.5, TermMonths: 60},
		{Principal: 1234.56, AnnualRatePercent: 24.99, TermMonths: 7},
		{Principal: 100000, AnnualRatePercent: 0, TermMonths: 100},
		{Principal: 400000, AnnualRatePercent: 6.5, TermMonths: 780, Frequency: frequency.BIWEEKLY},
	}
	for _, params := range cases {
		res, err := BuildSchedule(params)
		require.NoError(t, err)
		require.Len(t, res.Schedule, params.TermMonths)

		sum := principalSum(res.Schedule)
		assert.InEpsilon(t, params.Principal, sum, relativeTolerance)
		assert.InDelta(t, params.Principal+res.TotalInterest, res.TotalPaid, 1e-6)
	}
}

func TestBuildSchedule_MonotonicBalance(t *testing.T) {
	cases := []LoanParameters{
		mortgageParams(),
		{Principal: 200000, AnnualRatePercent: 6, TermMonths: 360, ExtraMonthlyPayment: 200},
		{Principal: 100000, AnnualRatePercent: 0, TermMonths: 100, ExtraMonthlyPayment: 333.33},
	}
	for _, params := range cases {
		res, err := BuildSchedule(params)
		require.NoError(t, err)

		prev := params.Principal
		for _, row := range res.Schedule {
			assert.LessOrEqual(t, row.RemainingBalance, prev, "period %d", row.Period)
			assert.GreaterOrEqual(t, row.RemainingBalance, 0.0)
			assert.GreaterOrEqual(t, row.PrincipalPortion, 0.0)
			assert.GreaterOrEqual(t, row.InterestPortion, 0.0)
			prev = row.RemainingBalance
		}
		last := res.Schedule[len(res.Schedule)-1]
		assert.Equal(t, 0.0, last.RemainingBalance)
	}
}

func TestBuildSchedule_ZeroRate(t *testing.T) {
	res, err := BuildSchedule(LoanParameters{Principal: 100000, AnnualRatePercent: 0, TermMonths: 100})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, res.ScheduledPayment)
	require.Len(t, res.Schedule, 100)
	for _, row := range res.Schedule {
		assert.Equal(t, 0.0, row.InterestPortion)
		assert.Equal(t, 1000.0, row.PrincipalPortion)
	}
	last := res.Schedule[len(res.Schedule)-1]
	assert.Equal(t, 0.0, last.CumulativeInterest)
	assert.Equal(t, 0.0, last.RemainingBalance)
	assert.Equal(t, 0.0, res.TotalInterest)
}

func TestBuildSchedule_ExtraPaymentStopsEarly(t *testing.T) {
	params := LoanParameters{Principal: 200000, AnnualRatePercent: 6, TermMonths: 360, ExtraMonthlyPayment: 200}
	res, err := BuildSchedule(params)
	require.NoError(t, err)

	assert.Len(t, res.Schedule, 252)
	assert.InDelta(t, 151875.87, res.TotalInterest, centTolerance)
	assert.InDelta(t, params.Principal, principalSum(res.Schedule), 1e-6)

	base, err := BuildSchedule(LoanParameters{Principal: 200000, AnnualRatePercent: 6, TermMonths: 360})
	require.NoError(t, err)
	assert.Less(t, res.TotalInterest, base.TotalInterest)

	for _, row := range res.Schedule[:len(res.Schedule)-1] {
		assert.InDelta(t, res.ScheduledPayment+200, row.Payment, 1e-9)
	}
}

func TestBuildSchedule_PMIRemoval(t *testing.T) {
	params := mortgageParams()
	params.PMI = &PMI{
		AnnualRatePercent:          0.85,
		OriginalValueForLTV:        500000,
		LTVRemovalThresholdPercent: 78,
	}
	res, err := BuildSchedule(params)
	require.NoError(t, err)

	require.True(t, res.PMIRequired)
	require.NotNil(t, res.PMIRemovalPeriod)
	assert.Equal(t, 26, *res.PMIRemovalPeriod)

	removal := *res.PMIRemovalPeriod
	for _, row := range res.Schedule[:removal-1] {
		assert.GreaterOrEqual(t, row.RemainingBalance/500000*100, 78.0, "period %d", row.Period)
	}
	assert.Less(t, res.Schedule[removal-1].RemainingBalance/500000*100, 78.0)

	assert.True(t, res.PMIActive(removal-1))
	assert.False(t, res.PMIActive(removal))
	assert.False(t, res.PMIActive(360))
}

func TestBuildSchedule_PMIDefaultThreshold(t *testing.T) {
	params := mortgageParams()
	params.PMI = &PMI{AnnualRatePercent: 0.85, OriginalValueForLTV: 500000}
	res, err := BuildSchedule(params)
	require.NoError(t, err)
	require.NotNil(t, res.PMIRemovalPeriod)
	assert.Equal(t, 26, *res.PMIRemovalPeriod)
}

func TestBuildSchedule_PMIWithExtraPaymentsCutsOverOnce(t *testing.T) {
	params := LoanParameters{
		Principal:           380000,
		AnnualRatePercent:   7,
		TermMonths:          360,
		ExtraMonthlyPayment: 1500,
		PMI:                 &PMI{AnnualRatePercent: 1, OriginalValueForLTV: 400000, LTVRemovalThresholdPercent: 78},
	}
	withExtra, err := BuildSchedule(params)
	require.NoError(t, err)

	params.ExtraMonthlyPayment = 0
	withoutExtra, err := BuildSchedule(params)
	require.NoError(t, err)

	require.NotNil(t, withExtra.PMIRemovalPeriod)
	require.NotNil(t, withoutExtra.PMIRemovalPeriod)
	assert.Equal(t, 142, *withoutExtra.PMIRemovalPeriod)
	assert.Less(t, *withExtra.PMIRemovalPeriod, *withoutExtra.PMIRemovalPeriod)

	crossings := 0
	for i, row := range withExtra.Schedule {
		below := row.RemainingBalance/400000*100 < 78
		if below && (i == 0 || withExtra.Schedule[i-1].RemainingBalance/400000*100 >= 78) {
			crossings++
			assert.Equal(t, *withExtra.PMIRemovalPeriod, row.Period)
		}
	}
	assert.Equal(t, 1, crossings)
}

func TestBuildSchedule_PMIOmittedOrNotRequired(t *testing.T) {
	res, err := BuildSchedule(mortgageParams())
	require.NoError(t, err)
	assert.False(t, res.PMIRequired)
	assert.Nil(t, res.PMIRemovalPeriod)

	params := LoanParameters{
		Principal:         300000,
		AnnualRatePercent: 6.5,
		TermMonths:        360,
		PMI:               &PMI{AnnualRatePercent: 0.85, OriginalValueForLTV: 500000},
	}
	res, err = BuildSchedule(params)
	require.NoError(t, err)
	assert.False(t, res.PMIRequired)
	assert.Nil(t, res.PMIRemovalPeriod)
	assert.False(t, res.PMIActive(1))
}

func TestBuildSchedule_BreakEven(t *testing.T) {
	// With a down payment the buyer already holds more equity than any
	// interest paid in the first month.
	params := mortgageParams()
	params.AssetValue = 500000
	res, err := BuildSchedule(params)
	require.NoError(t, err)
	require.NotNil(t, res.BreakEvenPeriod)
	assert.Equal(t, 1, *res.BreakEvenPeriod)
	assert.InDelta(t, 500000-res.Schedule[0].RemainingBalance, res.Schedule[0].Equity, 1e-9)

	// Break-even needs an asset to measure equity against, however quickly
	// the principal is repaid.
	res, err = BuildSchedule(mortgageParams())
	require.NoError(t, err)
	assert.Nil(t, res.BreakEvenPeriod)

	res, err = BuildSchedule(LoanParameters{Principal: 10000, AnnualRatePercent: 5, TermMonths: 12})
	require.NoError(t, err)
	assert.Nil(t, res.BreakEvenPeriod)

	res, err = BuildSchedule(LoanParameters{Principal: 100000, AnnualRatePercent: 0, TermMonths: 100})
	require.NoError(t, err)
	assert.Nil(t, res.BreakEvenPeriod)

	// The asset may come from PMI alone.
	params = mortgageParams()
	params.PMI = &PMI{AnnualRatePercent: 0.5, OriginalValueForLTV: 500000}
	res, err = BuildSchedule(params)
	require.NoError(t, err)
	require.NotNil(t, res.BreakEvenPeriod)
	assert.Equal(t, 1, *res.BreakEvenPeriod)
}

func TestBuildSchedule_Idempotent(t *testing.T) {
	params := mortgageParams()
	params.ExtraMonthlyPayment = 150
	params.Escrow = &Escrow{AnnualPropertyTaxRatePercent: 1.1, MonthlyInsurance: 150, MonthlyHOA: 40}
	params.PMI = &PMI{AnnualRatePercent: 0.85, OriginalValueForLTV: 450000, LTVRemovalThresholdPercent: 78}

	first, err := BuildSchedule(params)
	require.NoError(t, err)
	second, err := BuildSchedule(params)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("BuildSchedule() not idempotent (-first +second):\n%s", diff)
	}
}

func TestBuildSchedule_InvalidParameter(t *testing.T) {
	base := mortgageParams()
	tests := []struct {
		name   string
		mutate func(p *LoanParameters)
	}{
		{"negative principal", func(p *LoanParameters) { p.Principal = -1000 }},
		{"negative rate", func(p *LoanParameters) { p.AnnualRatePercent = -1 }},
		{"zero term", func(p *LoanParameters) { p.TermMonths = 0 }},
		{"negative extra payment", func(p *LoanParameters) { p.ExtraMonthlyPayment = -10 }},
		{"unknown frequency", func(p *LoanParameters) { p.Frequency = frequency.Type(42) }},
		{"negative insurance", func(p *LoanParameters) { p.Escrow = &Escrow{MonthlyInsurance: -1} }},
		{"threshold above 100", func(p *LoanParameters) {
			p.PMI = &PMI{AnnualRatePercent: 0.5, OriginalValueForLTV: 500000, LTVRemovalThresholdPercent: 101}
		}},
		{"negative threshold", func(p *LoanParameters) {
			p.PMI = &PMI{AnnualRatePercent: 0.5, OriginalValueForLTV: 500000, LTVRemovalThresholdPercent: -5}
		}},
		{"PMI without asset value", func(p *LoanParameters) { p.PMI = &PMI{AnnualRatePercent: 0.5} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := BuildSchedule(params)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestBuildSchedule_ThresholdAtHundredAccepted(t *testing.T) {
	params := mortgageParams()
	params.PMI = &PMI{AnnualRatePercent: 0.5, OriginalValueForLTV: 400000, LTVRemovalThresholdPercent: 100}
	res, err := BuildSchedule(params)
	require.NoError(t, err)
	require.NotNil(t, res.PMIRemovalPeriod)
	assert.Equal(t, 1, *res.PMIRemovalPeriod)
}

func TestBuildSchedule_PMIFallsBackToAssetValue(t *testing.T) {
	params := mortgageParams()
	params.AssetValue = 500000
	params.PMI = &PMI{AnnualRatePercent: 0.85}
	res, err := BuildSchedule(params)
	require.NoError(t, err)
	require.NotNil(t, res.PMIRemovalPeriod)
	assert.Equal(t, 26, *res.PMIRemovalPeriod)
}

func TestAffordablePrincipal(t *testing.T) {
	payment, err := ComputeScheduledPayment(400000, 6.5, 360)
	require.NoError(t, err)

	principal, err := AffordablePrincipal(payment, 6.5, 360)
	require.NoError(t, err)
	assert.InEpsilon(t, 400000, principal, relativeTolerance)

	principal, err = AffordablePrincipal(1000, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, principal)

	_, err = AffordablePrincipal(0, 5, 360)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
