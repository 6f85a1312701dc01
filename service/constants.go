package service

const (
	MinTermMonths = 1

	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"
	StrategyCompare   = "compare"

	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"

	// Lenders waive mortgage insurance at or below this loan-to-value.
	MaxLTVWithoutPMI = 80.0

	// Card issuers never bill less than this while a balance remains.
	MinCardPayment = 25.0

	maxAlternatives = 3
)
