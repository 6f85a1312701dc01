package domain

import "loan-engine/enums/frequency"

type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
}

type LoanResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// ScheduleInput asks for a full amortization table. TermMonths counts
// payment periods of the chosen frequency.
type ScheduleInput struct {
	Amount       float64        `json:"amount"`
	InterestRate float64        `json:"interest_rate"`
	TermMonths   int            `json:"term_months"`
	ExtraPayment float64        `json:"extra_payment,omitempty"`
	Frequency    frequency.Type `json:"frequency,omitempty"`
}

type ScheduleRow struct {
	Period             int     `json:"period"`
	Payment            float64 `json:"payment"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
	RemainingBalance   float64 `json:"remaining_balance"`
	CumulativeInterest float64 `json:"cumulative_interest"`
}

type ScheduleResult struct {
	ScheduledPayment float64       `json:"scheduled_payment"`
	TotalInterest    float64       `json:"total_interest"`
	TotalPayment     float64       `json:"total_payment"`
	Periods          int           `json:"periods"`
	InterestSaved    float64       `json:"interest_saved"`
	PeriodsSaved     int           `json:"periods_saved"`
	Schedule         []ScheduleRow `json:"schedule"`
}
