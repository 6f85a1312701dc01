// Package chart renders amortization schedules as interactive HTML charts.
package chart

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"loan-engine/amortization"
	"loan-engine/money"
)

const (
	width  = "1200px"
	height = "600px"
)

var ErrEmptySchedule = errors.New("schedule has no rows")

// RenderSchedule writes a page with a stacked principal/interest bar chart
// and a remaining-balance line to w.
func RenderSchedule(w io.Writer, title string, res amortization.Result) error {
	if len(res.Schedule) == 0 {
		return ErrEmptySchedule
	}
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(paymentBars(title, res.Schedule), balanceLine(res.Schedule))
	return page.Render(w)
}

// WriteFile renders the chart into fileName, adding an .html extension.
func WriteFile(fileName, title string, res amortization.Result) error {
	if filepath.Ext(fileName) != ".html" {
		fileName += ".html"
	}
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := RenderSchedule(f, title, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func periodLabels(rows []amortization.Entry) []string {
	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = strconv.Itoa(row.Period)
	}
	return labels
}

func paymentBars(title string, rows []amortization.Entry) *charts.Bar {
	principal := make([]opts.BarData, len(rows))
	interest := make([]opts.BarData, len(rows))
	for i, row := range rows {
		principal[i] = opts.BarData{Value: money.Round2(row.PrincipalPortion)}
		interest[i] = opts.BarData{Value: money.Round2(row.InterestPortion)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", End: 50},
			opts.DataZoom{Type: "slider", End: 50},
		),
	)
	bar.SetXAxis(periodLabels(rows)).
		AddSeries("Principal", principal).
		AddSeries("Interest", interest).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "stackA"}))
	return bar
}

func balanceLine(rows []amortization.Entry) *charts.Line {
	balance := make([]opts.LineData, len(rows))
	for i, row := range rows {
		balance[i] = opts.LineData{Value: money.Round2(row.RemainingBalance)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: "Remaining balance"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(periodLabels(rows)).AddSeries("Balance", balance)
	return line
}
