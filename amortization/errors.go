package amortization

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned for any out-of-domain loan input.
var ErrInvalidParameter = errors.New("invalid parameter")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateLoan(principal, annualRatePercent float64, termMonths int) error {
	if !finite(principal) || principal <= 0 {
		return invalidf("principal must be positive, got %v", principal)
	}
	if !finite(annualRatePercent) || annualRatePercent < 0 {
		return invalidf("annual rate must not be negative, got %v", annualRatePercent)
	}
	if termMonths <= 0 {
		return invalidf("term must be at least one period, got %d", termMonths)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !finite(v) || v < 0 {
		return invalidf("%s must not be negative, got %v", name, v)
	}
	return nil
}

// Validate checks every field of p without computing anything.
func (p LoanParameters) Validate() error {
	if err := validateLoan(p.Principal, p.AnnualRatePercent, p.TermMonths); err != nil {
		return err
	}
	if !p.Frequency.IsValid() {
		return invalidf("unknown payment frequency %d", int(p.Frequency))
	}
	if err := nonNegative("extra payment", p.ExtraMonthlyPayment); err != nil {
		return err
	}
	if err := nonNegative("asset value", p.AssetValue); err != nil {
		return err
	}
	if e := p.Escrow; e != nil {
		if err := nonNegative("property tax rate", e.AnnualPropertyTaxRatePercent); err != nil {
			return err
		}
		if err := nonNegative("insurance", e.MonthlyInsurance); err != nil {
			return err
		}
		if err := nonNegative("HOA", e.MonthlyHOA); err != nil {
			return err
		}
	}
	if pmi := p.PMI; pmi != nil {
		if err := nonNegative("PMI rate", pmi.AnnualRatePercent); err != nil {
			return err
		}
		if err := nonNegative("PMI original value", pmi.OriginalValueForLTV); err != nil {
			return err
		}
		if p.assetValue() <= 0 {
			return invalidf("PMI requires an original asset value")
		}
		t := pmi.LTVRemovalThresholdPercent
		if !finite(t) || t < 0 || t > 100 {
			return invalidf("LTV removal threshold must be in (0, 100], got %v", t)
		}
	}
	return nil
}
