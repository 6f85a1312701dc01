package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loan-engine/amortization"
	"loan-engine/chart"
	"loan-engine/enums/frequency"
	"loan-engine/money"
	"loan-engine/service"
)

// loanFlags are the loan parameters shared by schedule and chart.
type loanFlags struct {
	amount       float64
	rate         float64
	term         int
	extra        float64
	frequency    string
	assetValue   float64
	taxRate      float64
	insurance    float64
	hoa          float64
	pmiRate      float64
	pmiThreshold float64
}

func (f *loanFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.amount, "amount", 0, "loan principal")
	fs.Float64Var(&f.rate, "rate", 0, "annual interest rate in percent")
	fs.IntVar(&f.term, "term", 360, "number of payments")
	fs.Float64Var(&f.extra, "extra", 0, "extra principal paid every period")
	fs.StringVar(&f.frequency, "frequency", "monthly", "payment frequency: monthly, biweekly, weekly, quarterly, annually")
	fs.Float64Var(&f.assetValue, "asset-value", 0, "original value of the financed home")
	fs.Float64Var(&f.taxRate, "tax-rate", 0, "annual property tax rate in percent")
	fs.Float64Var(&f.insurance, "insurance", 0, "monthly homeowner's insurance")
	fs.Float64Var(&f.hoa, "hoa", 0, "monthly HOA dues")
	fs.Float64Var(&f.pmiRate, "pmi-rate", 0, "annual PMI rate in percent; requires --asset-value")
	fs.Float64Var(&f.pmiThreshold, "pmi-threshold", 0, "LTV percent at which PMI is removed (default 78)")
	cmd.MarkFlagRequired("amount")
}

func (f *loanFlags) params() (amortization.LoanParameters, error) {
	freq, err := frequency.Parse(f.frequency)
	if err != nil {
		return amortization.LoanParameters{}, err
	}
	params := amortization.LoanParameters{
		Principal:           f.amount,
		AnnualRatePercent:   f.rate,
		TermMonths:          f.term,
		ExtraMonthlyPayment: f.extra,
		AssetValue:          f.assetValue,
		Frequency:           freq,
	}
	if f.taxRate > 0 || f.insurance > 0 || f.hoa > 0 {
		params.Escrow = &amortization.Escrow{
			AnnualPropertyTaxRatePercent: f.taxRate,
			MonthlyInsurance:             f.insurance,
			MonthlyHOA:                   f.hoa,
		}
	}
	if f.pmiRate > 0 {
		params.PMI = &amortization.PMI{
			AnnualRatePercent:          f.pmiRate,
			OriginalValueForLTV:        f.assetValue,
			LTVRemovalThresholdPercent: f.pmiThreshold,
		}
	}
	return params, nil
}

func newScheduleCmd() *cobra.Command {
	var flags loanFlags
	var summaryOnly bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print an amortization schedule",
		Example: `  loan-engine schedule --amount 360000 --rate 6.5 --term 360 \
    --asset-value 400000 --tax-rate 1.2 --insurance 150 --pmi-rate 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			params, err := flags.params()
			if err != nil {
				return err
			}
			res, err := service.NewLoanService(cfg.Limits, logger).Amortize(params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printSummary(out, params, res); err != nil {
				return err
			}
			if summaryOnly {
				return nil
			}
			fmt.Fprintln(out)
			return printSchedule(out, res)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the summary")
	return cmd
}

func newChartCmd() *cobra.Command {
	var flags loanFlags
	var output, title string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Write an HTML chart of an amortization schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			params, err := flags.params()
			if err != nil {
				return err
			}
			res, err := service.NewLoanService(cfg.Limits, logger).Amortize(params)
			if err != nil {
				return err
			}
			if err := chart.WriteFile(output, title, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chart written to %s\n", output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "loan-schedule.html", "output file")
	cmd.Flags().StringVar(&title, "title", "Loan repayment schedule", "chart title")
	return cmd
}

func periodText(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func printSummary(w io.Writer, params amortization.LoanParameters, res amortization.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Scheduled payment\t%s\n", money.Format(res.ScheduledPayment))
	fmt.Fprintf(tw, "Payments\t%d\n", len(res.Schedule))
	fmt.Fprintf(tw, "Total interest\t%s\n", money.Format(res.TotalInterest))
	fmt.Fprintf(tw, "Total paid\t%s\n", money.Format(res.TotalPaid))
	fmt.Fprintf(tw, "Break-even period\t%s\n", periodText(res.BreakEvenPeriod))

	if params.PMI != nil {
		fmt.Fprintf(tw, "PMI required\t%t\n", res.PMIRequired)
		fmt.Fprintf(tw, "PMI removal period\t%s\n", periodText(res.PMIRemovalPeriod))
	}
	if params.Escrow != nil || params.PMI != nil {
		first, err := res.PITI(params, 1)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "First payment (PITI)\t%s\n", money.Format(first.Total))
		fmt.Fprintf(tw, "  taxes / insurance / HOA / PMI\t%s / %s / %s / %s\n",
			money.Format(first.Taxes), money.Format(first.Insurance), money.Format(first.HOA), money.Format(first.PMI))
	}
	return tw.Flush()
}

func printSchedule(w io.Writer, res amortization.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tPayment\tInterest\tPrincipal\tBalance\tCum. interest\tEquity\t")
	for _, e := range res.Schedule {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.Period,
			money.Format(e.Payment),
			money.Format(e.InterestPortion),
			money.Format(e.PrincipalPortion),
			money.Format(e.RemainingBalance),
			money.Format(e.CumulativeInterest),
			money.Format(e.Equity),
		)
	}
	return tw.Flush()
}
