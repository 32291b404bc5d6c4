package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"Coning/internal/calc/premium/batch"
)

const Title = "Critical Flow Rate by Method"

// Render writes an HTML page with one bar group per batch method and one
// series per well.
func Render(w io.Writer, rates []batch.WellRates) error {
	if len(rates) == 0 {
		return fmt.Errorf("chart: no wells")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: Title,
			Width:     "1000px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: Title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Method",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Critical Flow Rate (STB/d)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Orient: "vertical",
			Right:  "0%",
			Top:    "10%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithAnimation(false),
	)

	methods := make([]string, 0, len(batch.Methods))
	for _, m := range batch.Methods {
		methods = append(methods, m.Title())
	}
	bar.SetXAxis(methods)

	for _, wr := range rates {
		data := make([]opts.BarData, 0, len(wr.Rates))
		for _, v := range wr.Rates {
			data = append(data, opts.BarData{Value: barValue(v)})
		}
		bar.AddSeries(wr.Well, data)
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("chart: render: %w", err)
	}
	return nil
}

// barValue maps non-finite rates to "-", which echarts draws as a gap.
func barValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return v
}
