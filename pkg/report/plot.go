package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/gitseek/pkg/bisect"
	"github.com/Sumatoshi-tech/gitseek/pkg/history"
)

// noSample is the echarts marker for "no data at this index".
const noSample = "-"

// WritePlot renders an HTML page charting every probe outcome over the
// commit timeline: found and absent probes as separate series, failed
// probes as a third.
func WritePlot(path string, summary Summary, timeline *history.Timeline, events []bisect.ProbeEvent) error {
	n := timeline.Len()

	labels := make([]string, n)
	for i := range n {
		labels[i] = shortHash(timeline.At(i).Hash)
	}

	found := emptySeries(n)
	absent := emptySeries(n)
	failed := emptySeries(n)

	for _, event := range events {
		switch {
		case event.Err != nil:
			failed[event.Index] = opts.ScatterData{Value: 0}
		case event.Found:
			found[event.Index] = opts.ScatterData{Value: 1}
		default:
			absent[event.Index] = opts.ScatterData{Value: 0}
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("probes for %q", summary.Query),
			Subtitle: summary.Path,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "commit"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "found"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	scatter.SetXAxis(labels).
		AddSeries("found", found).
		AddSeries("absent", absent).
		AddSeries("failed", failed)

	page := components.NewPage()
	page.AddCharts(scatter)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer file.Close()

	err = page.Render(file)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

func emptySeries(n int) []opts.ScatterData {
	series := make([]opts.ScatterData, n)
	for i := range series {
		series[i] = opts.ScatterData{Value: noSample}
	}

	return series
}

func shortHash(hash string) string {
	const short = 8

	if len(hash) <= short {
		return hash
	}

	return hash[:short]
}
