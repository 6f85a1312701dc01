package domain

type LoanOption struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermYears    int     `json:"term_years"`
	ClosingCosts float64 `json:"closing_costs"`
}

type LoanOptionResult struct {
	Name           string  `json:"name"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// PrequalInput estimates borrowing power from income and a target
// debt-to-income ratio.
type PrequalInput struct {
	MonthlyIncome float64 `json:"monthly_income"`
	ExistingDebt  float64 `json:"existing_debt"`
	TargetDTI     float64 `json:"target_dti"`
	CreditScore   int     `json:"credit_score"`
	TermYears     int     `json:"term_years"`
}

type PrequalResult struct {
	EstimatedRate     float64 `json:"estimated_rate"`
	MaxAllowedPayment float64 `json:"max_allowed_payment"`
	EstimatedMaxLoan  float64 `json:"estimated_max_loan"`
}

type ComparisonInput struct {
	Current  LoanOption    `json:"current"`
	Proposed LoanOption    `json:"proposed"`
	Prequal  *PrequalInput `json:"prequal,omitempty"`
}

type ComparisonResult struct {
	Current         LoanOptionResult `json:"current"`
	Proposed        LoanOptionResult `json:"proposed"`
	MonthlySavings  float64          `json:"monthly_savings"`
	InterestDiff    float64          `json:"interest_difference"`
	BreakEvenMonths *int             `json:"break_even_months"`
	Prequal         *PrequalResult   `json:"prequal,omitempty"`
}
