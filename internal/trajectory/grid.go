package trajectory

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/banshee-data/trajectory.report/internal/units"
)

// Cell aggregates the observations of one lane, space bin and time bin.
// MeanSpeed, Count and Density are nil for cells with no observations.
type Cell struct {
	LaneID    int
	SpaceBin  int       // floor(position / spaceBinFeet)
	TimeBin   time.Time // bin start
	MeanSpeed *float64  // mph
	Count     *int      // vehicle-samples observed in the cell
	Density   *float64  // vehicles per mile
}

// Observed reports whether any sample fell in the cell.
func (c Cell) Observed() bool { return c.Count != nil }

type cellKey struct {
	lane     int
	spaceBin int
	timeBin  int64 // unix nanos of bin start
}

type cellAcc struct {
	n     int
	speed nanMean
}

// MacroscopicGrid bins every record by lane, floor(position/spaceBinFeet)
// and epoch time truncated to timeBinSeconds, and returns the full cross
// product of observed lanes × space bins × time bins sorted by lane, space
// bin and time bin. Density is
//
//	count * (5280/spaceBinFeet) / (timeBinSeconds/timeStepSeconds)
//
// i.e. samples per cell scaled to a mile and divided by the number of raw
// samples a vehicle contributes per time bin. Count includes records with a
// NaN speed; MeanSpeed skips them.
func (d *Dataset) MacroscopicGrid(spaceBinFeet, timeBinSeconds float64) ([]Cell, error) {
	if !(spaceBinFeet > 0) {
		return nil, fmt.Errorf("space bin must be positive, got %v ft", spaceBinFeet)
	}
	binNanos := int64(math.Round(timeBinSeconds * float64(time.Second)))
	if !(timeBinSeconds > 0) || binNanos <= 0 {
		return nil, fmt.Errorf("time bin must be positive, got %v s", timeBinSeconds)
	}
	if len(d.records) == 0 {
		return nil, &EmptySelectionError{View: "macroscopic grid"}
	}

	loc := d.records[0].Time.Location()
	acc := make(map[cellKey]*cellAcc)
	lanes := make(map[int]struct{})
	spaceBins := make(map[int]struct{})
	timeBins := make(map[int64]struct{})

	for _, r := range d.records {
		k := cellKey{
			lane:     r.LaneID,
			spaceBin: int(math.Floor(r.Position / spaceBinFeet)),
			timeBin:  floorDiv(r.Time.UnixNano(), binNanos) * binNanos,
		}
		lanes[k.lane] = struct{}{}
		spaceBins[k.spaceBin] = struct{}{}
		timeBins[k.timeBin] = struct{}{}

		a := acc[k]
		if a == nil {
			a = &cellAcc{}
			acc[k] = a
		}
		a.n++
		a.speed.add(r.Speed)
	}

	laneAxis := lo.Keys(lanes)
	sort.Ints(laneAxis)
	spaceAxis := lo.Keys(spaceBins)
	sort.Ints(spaceAxis)
	timeAxis := lo.Keys(timeBins)
	sort.Slice(timeAxis, func(i, j int) bool { return timeAxis[i] < timeAxis[j] })

	samplesPerBin := timeBinSeconds / d.timeStep.Seconds()

	cells := make([]Cell, 0, len(laneAxis)*len(spaceAxis)*len(timeAxis))
	for _, lane := range laneAxis {
		for _, sb := range spaceAxis {
			for _, tb := range timeAxis {
				c := Cell{LaneID: lane, SpaceBin: sb, TimeBin: time.Unix(0, tb).In(loc)}
				if a, ok := acc[cellKey{lane, sb, tb}]; ok {
					c.Count = intPtr(a.n)
					c.MeanSpeed = floatPtr(a.speed.value())
					c.Density = floatPtr(units.PerMile(float64(a.n), spaceBinFeet) / samplesPerBin)
				}
				cells = append(cells, c)
			}
		}
	}
	return cells, nil
}

// CurvePoint is the mean speed of grid cells whose density falls in one
// density bucket.
type CurvePoint struct {
	Density   float64 // bucket start, vehicles per mile
	MeanSpeed float64 // mph
	Cells     int
}

// SpeedDensityCurve buckets observed cells by floor(density/densityBin) and
// averages their speed. Cells without a mean speed are ignored. Buckets with
// minCells or fewer cells are dropped.
func SpeedDensityCurve(cells []Cell, densityBin float64, minCells int) ([]CurvePoint, error) {
	if !(densityBin > 0) {
		return nil, fmt.Errorf("density bin must be positive, got %v", densityBin)
	}

	type bucket struct {
		n   int
		sum float64
	}
	buckets := make(map[float64]*bucket)
	for _, c := range cells {
		if c.Density == nil || c.MeanSpeed == nil || math.IsNaN(*c.MeanSpeed) {
			continue
		}
		key := math.Floor(*c.Density/densityBin) * densityBin
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.n++
		b.sum += *c.MeanSpeed
	}

	keys := lo.Keys(buckets)
	sort.Float64s(keys)
	var out []CurvePoint
	for _, k := range keys {
		b := buckets[k]
		if b.n <= minCells {
			continue
		}
		out = append(out, CurvePoint{Density: k, MeanSpeed: b.sum / float64(b.n), Cells: b.n})
	}
	return out, nil
}

// SpeedDensityCurveByLane computes SpeedDensityCurve separately per lane.
func SpeedDensityCurveByLane(cells []Cell, densityBin float64, minCells int) (map[int][]CurvePoint, error) {
	byLane := lo.GroupBy(cells, func(c Cell) int { return c.LaneID })
	out := make(map[int][]CurvePoint, len(byLane))
	for lane, lc := range byLane {
		curve, err := SpeedDensityCurve(lc, densityBin, minCells)
		if err != nil {
			return nil, fmt.Errorf("lane %d: %w", lane, err)
		}
		out[lane] = curve
	}
	return out, nil
}
