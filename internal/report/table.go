// Package report turns trajectory analyses into tables, PNG charts and HTML
// heat maps.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// Table is an ordered set of rows of named fields.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Append adds one row. The row must have one value per column.
func (t *Table) Append(values ...string) {
	t.Rows = append(t.Rows, values)
}

// WriteCSV writes the header row followed by every data row.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%s row %d: %d fields, want %d", t.Name, i, len(row), len(t.Columns))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.Name, i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatOptFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v, prec)
}

func formatOptInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02 15:04:05.000")
}

// HistogramTable lists one row per bin.
func HistogramTable(name string, bins []trajectory.HistogramBin) Table {
	t := Table{Name: name, Columns: []string{"bin", "lower", "upper", "frequency", "percentage"}}
	for _, b := range bins {
		t.Append(b.Label, formatFloat(b.Lower, 1), formatFloat(b.Upper, 1),
			strconv.Itoa(b.Frequency), formatFloat(b.Percentage, 2))
	}
	return t
}

// SummaryTable lists one descriptive-statistics row per named column.
func SummaryTable(name string, summaries map[string]trajectory.Summary) Table {
	t := Table{Name: name, Columns: []string{
		"column", "count", "na", "mean", "std", "min", "5%", "25%", "50%", "75%", "95%", "max",
	}}
	keys := lo.Keys(summaries)
	sort.Strings(keys)
	for _, k := range keys {
		s := summaries[k]
		t.Append(k, strconv.Itoa(s.Count), strconv.Itoa(s.NA),
			formatFloat(s.Mean, 2), formatFloat(s.Std, 2), formatFloat(s.Min, 2),
			formatFloat(s.P5, 2), formatFloat(s.P25, 2), formatFloat(s.P50, 2),
			formatFloat(s.P75, 2), formatFloat(s.P95, 2), formatFloat(s.Max, 2))
	}
	return t
}

// TravelTimeTable lists one row per vehicle.
func TravelTimeTable(rows []trajectory.TravelTime, loc *time.Location) Table {
	t := Table{Name: "travel_times", Columns: []string{
		"vehicle_id", "start", "start_position_ft", "end", "end_position_ft",
		"duration_s", "distance_ft", "speed_mph",
	}}
	for _, r := range rows {
		speed := ""
		if !math.IsInf(r.SpeedMPH, 0) {
			speed = formatFloat(r.SpeedMPH, 2)
		}
		t.Append(strconv.Itoa(r.VehicleID), formatTime(r.Start, loc), formatFloat(r.StartPosition, 1),
			formatTime(r.End, loc), formatFloat(r.EndPosition, 1),
			formatFloat(r.DurationSeconds, 1), formatFloat(r.DistanceFeet, 1), speed)
	}
	return t
}

// GridTable lists every cell of the macroscopic grid, including empty ones.
func GridTable(cells []trajectory.Cell, loc *time.Location) Table {
	t := Table{Name: "macroscopic_grid", Columns: []string{
		"lane", "space_bin", "time_bin", "mean_speed_mph", "count", "density_vpm",
	}}
	for _, c := range cells {
		t.Append(strconv.Itoa(c.LaneID), strconv.Itoa(c.SpaceBin), formatTime(c.TimeBin, loc),
			formatOptFloat(c.MeanSpeed, 2), formatOptInt(c.Count), formatOptFloat(c.Density, 2))
	}
	return t
}

// KinematicsTable lists the 1 Hz per-vehicle samples.
func KinematicsTable(samples []trajectory.KinematicSample, loc *time.Location) Table {
	t := Table{Name: "kinematics_1hz", Columns: []string{
		"vehicle_id", "time", "mean_acceleration", "mean_speed_mph", "mean_position_ft", "jerk",
	}}
	for _, s := range samples {
		t.Append(strconv.Itoa(s.VehicleID), formatTime(s.Time, loc),
			formatFloat(s.MeanAcceleration, 3), formatFloat(s.MeanSpeed, 2),
			formatFloat(s.MeanPosition, 1), formatFloat(s.Jerk, 3))
	}
	return t
}

// ARMSTable lists acceleration RMS per speed bucket.
func ARMSTable(bins []trajectory.ARMSBin) Table {
	t := Table{Name: "acceleration_rms", Columns: []string{"speed_bin_mph", "arms", "count"}}
	for _, b := range bins {
		t.Append(formatFloat(b.SpeedBin, 1), formatFloat(b.ARMS, 4), strconv.Itoa(b.Count))
	}
	return t
}

// CurveTable lists a speed-density curve. Lane is empty for the overall
// curve.
func CurveTable(name string, overall []trajectory.CurvePoint, byLane map[int][]trajectory.CurvePoint) Table {
	t := Table{Name: name, Columns: []string{"lane", "density_vpm", "mean_speed_mph", "cells"}}
	for _, p := range overall {
		t.Append("", formatFloat(p.Density, 1), formatFloat(p.MeanSpeed, 2), strconv.Itoa(p.Cells))
	}
	for _, lane := range sortedLanes(byLane) {
		for _, p := range byLane[lane] {
			t.Append(strconv.Itoa(lane), formatFloat(p.Density, 1), formatFloat(p.MeanSpeed, 2), strconv.Itoa(p.Cells))
		}
	}
	return t
}
