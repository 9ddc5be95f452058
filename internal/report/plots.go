package report

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

const (
	plotWidth  = 14 * vg.Inch
	plotHeight = 6 * vg.Inch

	// curveDensityLimit is the x-axis upper bound of speed-density plots.
	curveDensityLimit = 250.0
)

// speedBands colours time-space points by floor(speed/10) mph.
var speedBands = []color.RGBA{
	{R: 0xe3, G: 0x1a, B: 0x1c, A: 255},
	{R: 0xfd, G: 0x8d, B: 0x3c, A: 255},
	{R: 0xfe, G: 0xcc, B: 0x5c, A: 255},
	{R: 0xff, G: 0xff, B: 0xcc, A: 255},
	{R: 0xa1, G: 0xda, B: 0xb4, A: 255},
	{R: 0x41, G: 0xb6, B: 0xc4, A: 255},
	{R: 0x22, G: 0x5e, B: 0xa8, A: 255},
	{R: 0x00, G: 0x00, B: 0x00, A: 255},
}

var stepColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}

// speedBandColor returns the band colour of a speed, clamped to the
// palette's 0..80 mph range.
func speedBandColor(mph float64) color.Color {
	if math.IsNaN(mph) {
		return speedBands[0]
	}
	i := int(math.Floor(mph / 10))
	if i < 0 {
		i = 0
	}
	if i >= len(speedBands) {
		i = len(speedBands) - 1
	}
	return speedBands[i]
}

func sortedLanes[V any](m map[int]V) []int {
	lanes := lo.Keys(m)
	sort.Ints(lanes)
	return lanes
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

// SavePNG writes p to file at the standard report size.
func SavePNG(p *plot.Plot, file string) error {
	if err := p.Save(plotWidth, plotHeight, file); err != nil {
		return fmt.Errorf("save %s: %w", file, err)
	}
	return nil
}

// stepPoints traces the outline of a histogram: a flat segment across each
// bin, joined by vertical risers.
func stepPoints(bins []trajectory.HistogramBin) plotter.XYs {
	pts := make(plotter.XYs, 0, 2*len(bins)+2)
	for i, b := range bins {
		if i == 0 {
			pts = append(pts, plotter.XY{X: b.Lower, Y: 0})
		}
		pts = append(pts, plotter.XY{X: b.Lower, Y: b.Percentage}, plotter.XY{X: b.Upper, Y: b.Percentage})
		if i == len(bins)-1 {
			pts = append(pts, plotter.XY{X: b.Upper, Y: 0})
		}
	}
	return pts
}

// HistogramPlot draws bins as a step outline of percentage per bin.
func HistogramPlot(title, xLabel string, bins []trajectory.HistogramBin) (*plot.Plot, error) {
	if len(bins) == 0 {
		return nil, &trajectory.EmptySelectionError{View: title}
	}
	p := newPlot(title, xLabel, "Percentage")
	line, err := plotter.NewLine(stepPoints(bins))
	if err != nil {
		return nil, fmt.Errorf("histogram %q: %w", title, err)
	}
	line.Color = stepColor
	line.Width = vg.Points(2)
	p.Add(line)
	p.Y.Min = 0
	return p, nil
}

// ARMSPlot draws acceleration RMS against speed bucket.
func ARMSPlot(bins []trajectory.ARMSBin) (*plot.Plot, error) {
	if len(bins) == 0 {
		return nil, &trajectory.EmptySelectionError{View: "acceleration rms"}
	}
	p := newPlot("Acceleration RMS by speed", "Speed (mph)", "ARMS (m/s²)")
	pts := make(plotter.XYs, len(bins))
	for i, b := range bins {
		pts[i] = plotter.XY{X: b.SpeedBin, Y: b.ARMS}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("arms: %w", err)
	}
	line.Color = stepColor
	line.Width = vg.Points(1)
	points.Color = stepColor
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	return p, nil
}

// SpeedDensityPlot scatters the observed grid cells and overlays the mean
// speed curve. spaceBin and timeBin annotate the legend.
func SpeedDensityPlot(title string, cells []trajectory.Cell, curve []trajectory.CurvePoint, spaceBin, timeBin float64) (*plot.Plot, error) {
	observed := lo.Filter(cells, func(c trajectory.Cell, _ int) bool { return c.Observed() })
	if len(observed) == 0 {
		return nil, &trajectory.EmptySelectionError{View: title}
	}
	p := newPlot(title, "Density (veh/mile)", "Speed (mph)")
	p.X.Min = 0
	p.X.Max = curveDensityLimit

	pts := make(plotter.XYs, 0, len(observed))
	for _, c := range observed {
		if *c.Density > curveDensityLimit || math.IsNaN(*c.MeanSpeed) {
			continue
		}
		pts = append(pts, plotter.XY{X: *c.Density, Y: *c.MeanSpeed})
	}
	if len(pts) > 0 {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("speed-density cells: %w", err)
		}
		sc.GlyphStyle.Color = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 160}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("SpaceBin:%.0fft TimeBin:%.0fsec", spaceBin, timeBin), sc)
	}

	if len(curve) > 0 {
		mean := make(plotter.XYs, len(curve))
		for i, c := range curve {
			mean[i] = plotter.XY{X: c.Density, Y: c.MeanSpeed}
		}
		line, err := plotter.NewLine(mean)
		if err != nil {
			return nil, fmt.Errorf("speed-density curve: %w", err)
		}
		line.Color = color.RGBA{R: 0xe3, G: 0x1a, B: 0x1c, A: 255}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("mean speed", line)
	}
	return p, nil
}

// TimeSpacePlot scatters records by seconds since the window start and
// position, coloured by speed band. Each vehicle's first and last points are
// drawn larger.
func TimeSpacePlot(w trajectory.Window, records []trajectory.Record) (*plot.Plot, error) {
	if len(records) == 0 {
		return nil, &trajectory.EmptySelectionError{View: w.String()}
	}
	p := newPlot(fmt.Sprintf("Time-space diagram, lane %d", w.Lane), "Time (s)", "Distance (ft)")

	ends := make(map[int]bool, 2*len(records))
	for i := range records {
		if i == 0 || records[i-1].VehicleID != records[i].VehicleID {
			ends[i] = true
		}
		if i == len(records)-1 || records[i+1].VehicleID != records[i].VehicleID {
			ends[i] = true
		}
	}

	pts := make(plotter.XYs, len(records))
	for i, r := range records {
		pts[i] = plotter.XY{X: r.Time.Sub(w.Start).Seconds(), Y: r.Position}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("time-space: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		radius := vg.Points(1)
		if ends[i] {
			radius = vg.Points(3)
		}
		return draw.GlyphStyle{
			Color:  speedBandColor(records[i].Speed),
			Radius: radius,
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)

	for i := range speedBands {
		p.Legend.Add(bandLabel(i), swatch{draw.GlyphStyle{Color: speedBands[i], Radius: vg.Points(3), Shape: draw.CircleGlyph{}}})
	}
	return p, nil
}

// swatch is a legend thumbnail for a colour that has no plotter of its own.
type swatch struct {
	style draw.GlyphStyle
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.DrawGlyph(s.style, c.Center())
}

func bandLabel(i int) string {
	if i == len(speedBands)-1 {
		return fmt.Sprintf("%d+ mph", i*10)
	}
	return fmt.Sprintf("%d-%d mph", i*10, (i+1)*10)
}

// TrajectoriesPlot draws position over time for each vehicle, with time in
// seconds since start.
func TrajectoriesPlot(trajectories []trajectory.Trajectory, start time.Time) (*plot.Plot, error) {
	if len(trajectories) == 0 {
		return nil, &trajectory.EmptySelectionError{View: "vehicle trajectories"}
	}
	p := newPlot("Vehicle trajectories", "Time (s)", "Distance (ft)")
	colors := generateColors(len(trajectories))
	for i, tr := range trajectories {
		pts := make(plotter.XYs, len(tr.Records))
		for j, r := range tr.Records {
			pts[j] = plotter.XY{X: r.Time.Sub(start).Seconds(), Y: r.Position}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("vehicle %d: %w", tr.VehicleID, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("vehicle %d", tr.VehicleID), line)
	}
	return p, nil
}

// generateColors creates a palette of n distinct colours.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		q := l + s - l*s
		if l < 0.5 {
			q = l * (1 + s)
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
