package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// speedScale runs from congested (red) to free flow (blue).
var speedScale = []string{"#e31a1c", "#fd8d3c", "#fecc5c", "#ffffcc", "#a1dab4", "#41b6c4", "#225ea8"}

// GridHeatMap renders the observed cells of one lane as a coloured scatter:
// minutes since start on x, space-bin start in feet on y, mean speed as the
// mapped value.
func GridHeatMap(lane int, cells []trajectory.Cell, spaceBinFeet float64, start time.Time) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(cells))
	maxSpeed := 0.0
	for _, c := range cells {
		if c.LaneID != lane || !c.Observed() || math.IsNaN(*c.MeanSpeed) {
			continue
		}
		x := c.TimeBin.Sub(start).Minutes()
		y := float64(c.SpaceBin) * spaceBinFeet
		maxSpeed = math.Max(maxSpeed, *c.MeanSpeed)
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, math.Round(*c.MeanSpeed*10) / 10}})
	}
	if maxSpeed == 0 {
		maxSpeed = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Macroscopic speed", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Lane %d mean speed", lane), Subtitle: fmt.Sprintf("cells=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (min)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distance (ft)", NameLocation: "middle", NameGap: 50}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSpeed),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: speedScale},
		}),
	)
	scatter.AddSeries("mean speed (mph)", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

// WriteGridHeatMaps renders one heat map per lane into a single page.
func WriteGridHeatMaps(w io.Writer, cells []trajectory.Cell, spaceBinFeet float64) error {
	if len(cells) == 0 {
		return &trajectory.EmptySelectionError{View: "macroscopic grid"}
	}
	start := cells[0].TimeBin
	lanes := make(map[int]struct{})
	for _, c := range cells {
		if c.TimeBin.Before(start) {
			start = c.TimeBin
		}
		lanes[c.LaneID] = struct{}{}
	}

	page := components.NewPage()
	for _, lane := range sortedLanes(lanes) {
		page.AddCharts(GridHeatMap(lane, cells, spaceBinFeet, start))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render heat maps: %w", err)
	}
	return nil
}
