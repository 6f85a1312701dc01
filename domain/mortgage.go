package domain

// MortgageInput mirrors what a home buyer enters into a mortgage calculator.
// Rates are annual percentages.
type MortgageInput struct {
	HomePrice           float64 `json:"home_price"`
	DownPaymentPercent  float64 `json:"down_payment_percent"`
	InterestRate        float64 `json:"interest_rate"`
	TermYears           int     `json:"term_years"`
	PropertyTaxRate     float64 `json:"property_tax_rate"`
	MonthlyInsurance    float64 `json:"monthly_insurance"`
	MonthlyHOA          float64 `json:"monthly_hoa"`
	PMIRate             float64 `json:"pmi_rate"`
	PMIRemovalThreshold float64 `json:"pmi_removal_threshold,omitempty"`
	ExtraMonthlyPayment float64 `json:"extra_monthly_payment,omitempty"`
	IncludeSchedule     bool    `json:"include_schedule,omitempty"`
	IncludeExplanation  bool    `json:"include_explanation,omitempty"`
}

type PITIBreakdown struct {
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Taxes     float64 `json:"taxes"`
	Insurance float64 `json:"insurance"`
	HOA       float64 `json:"hoa"`
	PMI       float64 `json:"pmi"`
	Total     float64 `json:"total"`
}

type MortgageResult struct {
	LoanAmount       float64       `json:"loan_amount"`
	LoanToValue      float64       `json:"loan_to_value"`
	ScheduledPayment float64       `json:"scheduled_payment"`
	FirstPayment     PITIBreakdown `json:"first_payment"`
	PMIRequired      bool          `json:"pmi_required"`
	PMIRemovalMonth  *int          `json:"pmi_removal_month"`
	TotalPMI         float64       `json:"total_pmi"`
	BreakEvenMonth   *int          `json:"break_even_month"`
	PayoffMonths     int           `json:"payoff_months"`
	TotalInterest    float64       `json:"total_interest"`
	TotalPayment     float64       `json:"total_payment"`
	Schedule         []ScheduleRow `json:"schedule,omitempty"`
	Explanation      string        `json:"explanation,omitempty"`
}
