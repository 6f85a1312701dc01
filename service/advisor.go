package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"loan-engine/config"
)

const systemPrompt = "You are an experienced lending advisor. You explain loan, mortgage and debt " +
	"repayment numbers clearly and accurately, quote the exact amounts you are given, " +
	"and help people make informed decisions without promising outcomes."

// Advisor writes plain-language explanations of calculator results using a
// chat completion API. Every method falls back to a fixed template when the
// advisor is disabled or the API call fails, so callers always get text.
type Advisor struct {
	cfg        config.AdvisorConfig
	httpClient *http.Client
	logger     *zap.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewAdvisor(cfg config.AdvisorConfig, logger *zap.Logger) *Advisor {
	return &Advisor{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
	}
}

func (a *Advisor) Enabled() bool {
	return a != nil && a.cfg.Enabled && a.cfg.APIKey != ""
}

// TermSummary is what the advisor needs to explain a recommended term.
type TermSummary struct {
	Amount          float64
	InterestRate    float64
	RecommendedTerm int
	MonthlyPayment  float64
	TotalInterest   float64
	Preference      string
	Alternatives    []TermAlternative
}

type TermAlternative struct {
	Term           int
	MonthlyPayment float64
	TotalInterest  float64
}

type DebtSummary struct {
	Name         string
	Amount       float64
	InterestRate float64
}

type DebtStrategySummary struct {
	Strategy          string
	TotalDebt         float64
	TotalInterestPaid float64
	MonthsToPayoff    int
	Debts             []DebtSummary

	// Set only when both strategies were simulated.
	Comparison *StrategyComparison
}

type StrategyComparison struct {
	SnowballInterest  float64
	AvalancheInterest float64
	InterestSaved     float64
	MonthsSaved       int
}

type MortgageSummary struct {
	HomePrice       float64
	LoanAmount      float64
	InterestRate    float64
	TermYears       int
	MonthlyTotal    float64
	TotalInterest   float64
	PMIRemovalMonth *int
	BreakEvenMonth  *int
}

var preferenceText = map[string]string{
	PreferenceMinimizeInterest: "keep the total interest cost low",
	PreferenceMinimizePayment:  "keep the monthly payment low",
	PreferenceBalanced:         "balance the monthly payment against the total cost",
}

func (a *Advisor) ExplainTermRecommendation(ctx context.Context, s TermSummary) string {
	if !a.Enabled() {
		return fallbackTermExplanation(s)
	}

	goal := preferenceText[s.Preference]
	if goal == "" {
		goal = s.Preference
	}
	var alternatives strings.Builder
	for _, alt := range s.Alternatives {
		fmt.Fprintf(&alternatives, "- %d months: $%.2f per month, $%.2f interest\n",
			alt.Term, alt.MonthlyPayment, alt.TotalInterest)
	}

	prompt := fmt.Sprintf(`Explain this loan term recommendation.

LOAN:
- Amount: $%.2f
- Annual interest rate: %.2f%%
- Recommended term: %d months (%.1f years)
- Monthly payment: $%.2f
- Total interest: $%.2f
- Borrower goal: %s

ALTERNATIVES CONSIDERED:
%s
Explain in 3-4 sentences why %d months best fits the goal, and the trade-off between the monthly payment and the total interest.`,
		s.Amount, s.InterestRate, s.RecommendedTerm, float64(s.RecommendedTerm)/12.0,
		s.MonthlyPayment, s.TotalInterest, goal, alternatives.String(), s.RecommendedTerm)

	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("advisor call failed", zap.String("topic", "term"), zap.Error(err))
		return fallbackTermExplanation(s)
	}
	return text
}

func (a *Advisor) ExplainDebtStrategy(ctx context.Context, s DebtStrategySummary) string {
	if !a.Enabled() {
		return fallbackDebtExplanation(s)
	}

	var debts strings.Builder
	for _, d := range s.Debts {
		fmt.Fprintf(&debts, "- %s: $%.2f at %.2f%% a year\n", d.Name, d.Amount, d.InterestRate)
	}
	comparison := ""
	if c := s.Comparison; c != nil {
		comparison = fmt.Sprintf(`
STRATEGY COMPARISON:
- Snowball: $%.2f in interest
- Avalanche: $%.2f in interest
- Savings with the chosen strategy: $%.2f and %d months`,
			c.SnowballInterest, c.AvalancheInterest, c.InterestSaved, c.MonthsSaved)
	}

	prompt := fmt.Sprintf(`Explain this debt payoff plan.

STRATEGY: %s

SUMMARY:
- Total debt: $%.2f
- Total interest: $%.2f
- Time to pay everything off: %d months (%.1f years)

DEBTS:
%s%s

Explain in 4-5 sentences how the %s strategy works, why it suits this borrower, and give one practical tip for sticking to the plan.`,
		strategyName(s.Strategy), s.TotalDebt, s.TotalInterestPaid,
		s.MonthsToPayoff, float64(s.MonthsToPayoff)/12.0,
		debts.String(), comparison, strategyName(s.Strategy))

	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("advisor call failed", zap.String("topic", "debt"), zap.Error(err))
		return fallbackDebtExplanation(s)
	}
	return text
}

func (a *Advisor) ExplainMortgage(ctx context.Context, s MortgageSummary) string {
	if !a.Enabled() {
		return fallbackMortgageExplanation(s)
	}

	prompt := fmt.Sprintf(`Explain this mortgage.

- Home price: $%.2f
- Loan amount: $%.2f
- Annual interest rate: %.2f%%
- Term: %d years
- First monthly payment including taxes, insurance and PMI: $%.2f
- Total interest over the life of the loan: $%.2f
- PMI removed after payment: %s
- Equity exceeds interest paid after payment: %s

Explain in 3-4 sentences what the borrower pays each month, when mortgage insurance goes away, and when the home starts building more equity than it costs in interest.`,
		s.HomePrice, s.LoanAmount, s.InterestRate, s.TermYears,
		s.MonthlyTotal, s.TotalInterest, monthText(s.PMIRemovalMonth), monthText(s.BreakEvenMonth))

	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("advisor call failed", zap.String("topic", "mortgage"), zap.Error(err))
		return fallbackMortgageExplanation(s)
	}
	return text
}

func (a *Advisor) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from model")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func strategyName(strategy string) string {
	if strategy == StrategyAvalanche {
		return "Avalanche"
	}
	return "Snowball"
}

func monthText(month *int) string {
	if month == nil {
		return "not within the term"
	}
	return fmt.Sprintf("%d (year %d)", *month, (*month+11)/12)
}

func fallbackTermExplanation(s TermSummary) string {
	switch s.Preference {
	case PreferenceMinimizeInterest:
		return fmt.Sprintf("A %d-month term keeps total interest at $%.2f, with a monthly payment of $%.2f. Choose it if lowering the overall cost of the loan matters most.",
			s.RecommendedTerm, s.TotalInterest, s.MonthlyPayment)
	case PreferenceMinimizePayment:
		return fmt.Sprintf("A %d-month term brings the monthly payment down to $%.2f, leaving more room in your monthly budget.",
			s.RecommendedTerm, s.MonthlyPayment)
	default:
		return fmt.Sprintf("A %d-month term balances a monthly payment of $%.2f against $%.2f in total interest.",
			s.RecommendedTerm, s.MonthlyPayment, s.TotalInterest)
	}
}

func fallbackDebtExplanation(s DebtStrategySummary) string {
	tip := "Paying the smallest balances first gives quick wins that keep you motivated."
	if s.Strategy == StrategyAvalanche {
		tip = "Paying the highest rates first keeps the total interest as low as possible."
	}
	return fmt.Sprintf("With the %s strategy you pay $%.2f in interest and clear all debts in %d months (%.1f years). %s",
		strategyName(s.Strategy), s.TotalInterestPaid, s.MonthsToPayoff, float64(s.MonthsToPayoff)/12.0, tip)
}

func fallbackMortgageExplanation(s MortgageSummary) string {
	text := fmt.Sprintf("Borrowing $%.2f for %d years at %.2f%% costs $%.2f a month all-in and $%.2f in interest over the loan.",
		s.LoanAmount, s.TermYears, s.InterestRate, s.MonthlyTotal, s.TotalInterest)
	if s.PMIRemovalMonth != nil {
		text += fmt.Sprintf(" Mortgage insurance drops off after payment %d.", *s.PMIRemovalMonth)
	}
	if s.BreakEvenMonth != nil {
		text += fmt.Sprintf(" From payment %d your equity exceeds the interest paid so far.", *s.BreakEvenMonth)
	}
	return text
}
