package trajectory

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// HistogramBin is one row of a distribution table.
type HistogramBin struct {
	Label      string
	Lower      float64
	Upper      float64
	Frequency  int
	Percentage float64 // of all input values, including out-of-range ones
}

// Histogram counts values into the bins delimited by edges. Bins are
// half-open [lower, upper) except the last, which also includes its upper
// edge. NaN and out-of-range values are not counted but still contribute to
// the percentage denominator.
func Histogram(values, edges []float64, label func(lower, upper float64) string) ([]HistogramBin, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("histogram needs at least two edges, got %d", len(edges))
	}
	if !sort.Float64sAreSorted(edges) {
		return nil, fmt.Errorf("histogram edges are not sorted")
	}

	lo, hi := edges[0], edges[len(edges)-1]
	inRange := make([]float64, 0, len(values))
	onUpper := 0
	for _, v := range values {
		switch {
		case math.IsNaN(v) || v < lo || v > hi:
		case v == hi:
			onUpper++
		default:
			inRange = append(inRange, v)
		}
	}
	sort.Float64s(inRange)

	counts := stat.Histogram(nil, edges, inRange, nil)
	counts[len(counts)-1] += float64(onUpper)

	bins := make([]HistogramBin, len(counts))
	for i, c := range counts {
		b := HistogramBin{
			Label:     label(edges[i], edges[i+1]),
			Lower:     edges[i],
			Upper:     edges[i+1],
			Frequency: int(c),
		}
		if len(values) > 0 {
			b.Percentage = c / float64(len(values)) * 100
		}
		bins[i] = b
	}
	return bins, nil
}

// UnitEdges returns unit-width edges from floor(min) to ceil(max) of the
// finite values. It returns nil when there are none.
func UnitEdges(values []float64) []float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	lo := math.Floor(floats.Min(finite))
	hi := math.Ceil(floats.Max(finite))
	if hi == lo {
		hi = lo + 1
	}
	return floats.Span(make([]float64, int(hi-lo)+1), lo, hi)
}

// CenterLabel labels a bin by its centre, e.g. "-0.5".
func CenterLabel(lower, upper float64) string {
	return fmt.Sprintf("%.1f", (lower+upper)/2)
}

// UnitHistogram is the unit-width distribution used for jerk and speed
// tables, labelled by bin centre.
func UnitHistogram(values []float64) ([]HistogramBin, error) {
	edges := UnitEdges(values)
	if edges == nil {
		return nil, &EmptySelectionError{View: "histogram input"}
	}
	return Histogram(values, edges, CenterLabel)
}

// Fixed acceleration table range in ft/s².
const (
	accelTableMin = -21.5
	accelTableMax = 10.5
)

// AccelerationHistogram is the fixed-range acceleration table with unit bins
// from -21.5 to 10.5 ft/s².
func AccelerationHistogram(values []float64) ([]HistogramBin, error) {
	n := int(accelTableMax-accelTableMin) + 1
	edges := floats.Span(make([]float64, n), accelTableMin, accelTableMax)
	return Histogram(values, edges, func(lower, upper float64) string {
		return fmt.Sprintf("%.1f <= acc < %.1f", lower, upper)
	})
}
