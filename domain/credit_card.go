package domain

type CreditCardInput struct {
	Balance           float64 `json:"balance"`
	InterestRate      float64 `json:"interest_rate"`
	MinPaymentPercent float64 `json:"min_payment_percent"`
	MonthlyPayment    float64 `json:"monthly_payment"`
}

// BalancePoint samples the balance once a year and at payoff.
type BalancePoint struct {
	Month   int     `json:"month"`
	Balance float64 `json:"balance"`
}

type PayoffPath struct {
	Months        int            `json:"months"`
	TotalInterest float64        `json:"total_interest"`
	PaidOff       bool           `json:"paid_off"`
	Balances      []BalancePoint `json:"balances"`
}

type CreditCardResult struct {
	MinimumOnly   PayoffPath `json:"minimum_only"`
	FixedPayment  PayoffPath `json:"fixed_payment"`
	InterestSaved float64    `json:"interest_saved"`
	MonthsSaved   int        `json:"months_saved"`
}
