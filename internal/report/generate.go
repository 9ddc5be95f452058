package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gonum.org/v1/plot"

	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/security"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// DefaultTrajectoryVehicles is how many vehicles the trajectories chart
// draws.
const DefaultTrajectoryVehicles = 10

// Settings controls one report run.
type Settings struct {
	SpaceBinFeet    float64
	TimeBinSeconds  float64
	SpeedBinMPH     float64
	DensityBinVPM   float64
	MinCurveSamples int
	Location        *time.Location // table timestamps; nil keeps UTC
	Vehicles        int            // vehicles in the trajectories chart; 0 uses the default
}

// Output is the directory one run writes into.
type Output struct {
	Dir   string
	Files []string
}

// NewOutput creates dir if needed.
func NewOutput(dir string) (*Output, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Output{Dir: dir}, nil
}

func (o *Output) path(name string) (string, error) {
	p, err := security.OutputPath(o.Dir, name)
	if err != nil {
		return "", err
	}
	o.Files = append(o.Files, p)
	return p, nil
}

// WriteTable writes t as <name>.csv.
func (o *Output) WriteTable(t Table) error {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return err
	}
	p, err := o.path(t.Name + ".csv")
	if err != nil {
		return err
	}
	return os.WriteFile(p, buf.Bytes(), 0o644)
}

// WritePlot saves p as <name>.png.
func (o *Output) WritePlot(name string, p *plot.Plot) error {
	file, err := o.path(name + ".png")
	if err != nil {
		return err
	}
	return SavePNG(p, file)
}

// WriteHeatMaps writes the per-lane grid heat maps as <name>.html.
func (o *Output) WriteHeatMaps(name string, cells []trajectory.Cell, spaceBinFeet float64) error {
	var buf bytes.Buffer
	if err := WriteGridHeatMaps(&buf, cells, spaceBinFeet); err != nil {
		return err
	}
	p, err := o.path(name + ".html")
	if err != nil {
		return err
	}
	return os.WriteFile(p, buf.Bytes(), 0o644)
}

// Generate computes every analysis of d and writes its tables, charts and
// heat maps to out. Analyses whose input is empty are logged and skipped.
func Generate(d *trajectory.Dataset, s Settings, out *Output) error {
	start := time.Now()
	defer func() {
		n := len(out.Files)
		monitoring.Stage("report", start, &n)
	}()

	// Descriptive statistics and distributions.
	samples := d.Kinematics1Hz()
	travel := d.CorridorTravelTimes()
	columns := map[string][]float64{
		"speed":          d.Speeds(),
		"acceleration":   d.Accelerations(),
		"jerk":           trajectory.Jerks(samples),
		"corridor_speed": trajectory.TravelSpeeds(travel),
	}
	summaries := make(map[string]trajectory.Summary, len(columns))
	for name, values := range columns {
		sum, err := trajectory.Describe(values, true, 2)
		if err != nil {
			return fmt.Errorf("describe %s: %w", name, err)
		}
		summaries[name] = sum
	}
	if err := out.WriteTable(SummaryTable("summary", summaries)); err != nil {
		return err
	}
	if err := out.WriteTable(TravelTimeTable(travel, s.Location)); err != nil {
		return err
	}
	if err := out.WriteTable(KinematicsTable(samples, s.Location)); err != nil {
		return err
	}

	hists := []struct {
		name, title, xLabel string
		build               func() ([]trajectory.HistogramBin, error)
	}{
		{"speed_distribution", "Speed distribution", "Speed (mph)", func() ([]trajectory.HistogramBin, error) {
			return trajectory.UnitHistogram(columns["speed"])
		}},
		{"corridor_speed_distribution", "Corridor speed distribution", "Speed (mph)", func() ([]trajectory.HistogramBin, error) {
			return trajectory.UnitHistogram(columns["corridor_speed"])
		}},
		{"jerk_distribution", "Jerk distribution", "Jerk (ft/s³)", func() ([]trajectory.HistogramBin, error) {
			return trajectory.UnitHistogram(columns["jerk"])
		}},
		{"acceleration_distribution", "Acceleration distribution", "Acceleration (ft/s²)", func() ([]trajectory.HistogramBin, error) {
			return trajectory.AccelerationHistogram(trajectory.SampleAccelerations(samples))
		}},
	}
	for _, h := range hists {
		bins, err := h.build()
		if skip(h.name, err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", h.name, err)
		}
		if err := out.WriteTable(HistogramTable(h.name, bins)); err != nil {
			return err
		}
		p, err := HistogramPlot(h.title, h.xLabel, bins)
		if err != nil {
			return err
		}
		if err := out.WritePlot(h.name, p); err != nil {
			return err
		}
	}

	// Acceleration RMS.
	arms, err := d.AccelerationRMS(s.SpeedBinMPH)
	if err != nil {
		return fmt.Errorf("acceleration rms: %w", err)
	}
	if err := out.WriteTable(ARMSTable(arms)); err != nil {
		return err
	}
	if p, err := ARMSPlot(arms); !skip("acceleration_rms", err) {
		if err != nil {
			return err
		}
		if err := out.WritePlot("acceleration_rms", p); err != nil {
			return err
		}
	}

	// Macroscopic grid and speed-density curves.
	cells, err := d.MacroscopicGrid(s.SpaceBinFeet, s.TimeBinSeconds)
	if err != nil {
		return fmt.Errorf("macroscopic grid: %w", err)
	}
	if err := out.WriteTable(GridTable(cells, s.Location)); err != nil {
		return err
	}
	curve, err := trajectory.SpeedDensityCurve(cells, s.DensityBinVPM, s.MinCurveSamples)
	if err != nil {
		return fmt.Errorf("speed-density curve: %w", err)
	}
	byLane, err := trajectory.SpeedDensityCurveByLane(cells, s.DensityBinVPM, s.MinCurveSamples)
	if err != nil {
		return fmt.Errorf("speed-density curve: %w", err)
	}
	if err := out.WriteTable(CurveTable("speed_density", curve, byLane)); err != nil {
		return err
	}
	if p, err := SpeedDensityPlot("Speed vs density", cells, curve, s.SpaceBinFeet, s.TimeBinSeconds); !skip("speed_density", err) {
		if err != nil {
			return err
		}
		if err := out.WritePlot("speed_density", p); err != nil {
			return err
		}
	}
	for _, lane := range sortedLanes(byLane) {
		laneCells := make([]trajectory.Cell, 0, len(cells))
		for _, c := range cells {
			if c.LaneID == lane {
				laneCells = append(laneCells, c)
			}
		}
		name := fmt.Sprintf("speed_density_lane_%d", lane)
		p, err := SpeedDensityPlot(fmt.Sprintf("Speed vs density, lane %d", lane), laneCells, byLane[lane], s.SpaceBinFeet, s.TimeBinSeconds)
		if skip(name, err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := out.WritePlot(name, p); err != nil {
			return err
		}
	}
	if err := out.WriteHeatMaps("grid_heatmap", cells, s.SpaceBinFeet); err != nil && !skip("grid_heatmap", err) {
		return err
	}

	// Time-space diagrams, one per lane over its full extent.
	for _, w := range laneWindows(d.Records()) {
		name := fmt.Sprintf("time_space_lane_%d", w.Lane)
		recs, err := d.Select(w)
		if skip(name, err) {
			continue
		}
		if err != nil {
			return err
		}
		p, err := TimeSpacePlot(w, recs)
		if err != nil {
			return err
		}
		if err := out.WritePlot(name, p); err != nil {
			return err
		}
	}

	// Trajectories of the first vehicles.
	n := s.Vehicles
	if n <= 0 {
		n = DefaultTrajectoryVehicles
	}
	ids := d.VehicleIDs()
	if len(ids) > n {
		ids = ids[:n]
	}
	trajs, err := d.VehicleTrajectories(ids)
	if skip("vehicle_trajectories", err) {
		return nil
	}
	if err != nil {
		return err
	}
	p, err := TrajectoriesPlot(trajs, earliest(d.Records()))
	if err != nil {
		return err
	}
	return out.WritePlot("vehicle_trajectories", p)
}

// skip reports whether err marks an empty analysis input, logging it if so.
func skip(name string, err error) bool {
	var empty *trajectory.EmptySelectionError
	if errors.As(err, &empty) {
		monitoring.Logf("[report] skipping %s: %v", name, err)
		return true
	}
	return false
}

// laneWindows returns one window per lane spanning that lane's records.
func laneWindows(records []trajectory.Record) []trajectory.Window {
	byLane := make(map[int]*trajectory.Window)
	for _, r := range records {
		w, ok := byLane[r.LaneID]
		if !ok {
			byLane[r.LaneID] = &trajectory.Window{
				Lane: r.LaneID, Start: r.Time, End: r.Time,
				StartPosition: r.Position, EndPosition: r.Position,
			}
			continue
		}
		if r.Time.Before(w.Start) {
			w.Start = r.Time
		}
		if r.Time.After(w.End) {
			w.End = r.Time
		}
		if r.Position < w.StartPosition {
			w.StartPosition = r.Position
		}
		if r.Position > w.EndPosition {
			w.EndPosition = r.Position
		}
	}
	out := make([]trajectory.Window, 0, len(byLane))
	for _, w := range byLane {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lane < out[j].Lane })
	return out
}

func earliest(records []trajectory.Record) time.Time {
	var t time.Time
	for i, r := range records {
		if i == 0 || r.Time.Before(t) {
			t = r.Time
		}
	}
	return t
}
