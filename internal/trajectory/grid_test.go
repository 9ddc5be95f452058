package trajectory

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tenSamples puts one vehicle's ten 0.1s samples into a single 10ft × 1s cell.
func tenSamples(vid, lane int, start time.Duration, startPos float64) []Record {
	out := make([]Record, 10)
	for i := range out {
		out[i] = rec(vid, lane, start+time.Duration(i)*100*time.Millisecond, startPos+float64(i), 20+float64(i), 0)
	}
	return out
}

func TestMacroscopicGridDensity(t *testing.T) {
	t.Parallel()

	d := mustNew(t, tenSamples(1, 1, 0, 0))
	require.Equal(t, 100*time.Millisecond, d.TimeStep())

	cells, err := d.MacroscopicGrid(10, 1)
	require.NoError(t, err)
	require.Len(t, cells, 1)

	c := cells[0]
	require.True(t, c.Observed())
	assert.Equal(t, 10, *c.Count)
	assert.InDelta(t, 528.0, *c.Density, 1e-9)
	assert.InDelta(t, 24.5, *c.MeanSpeed, 1e-9)
	assert.True(t, c.TimeBin.Equal(t0))
	assert.Equal(t, 0, c.SpaceBin)
}

func TestMacroscopicGridSkipsNaNSpeed(t *testing.T) {
	t.Parallel()

	records := tenSamples(1, 1, 0, 0)
	records[3].Speed = math.NaN()
	silent := tenSamples(2, 2, 0, 0)
	for i := range silent {
		silent[i].Speed = math.NaN()
	}
	d := mustNew(t, append(records, silent...))

	cells, err := d.MacroscopicGrid(10, 1)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	c := cells[0]
	assert.Equal(t, 10, *c.Count, "NaN speeds still count")
	assert.InDelta(t, 528.0, *c.Density, 1e-9)
	assert.InDelta(t, 222.0/9, *c.MeanSpeed, 1e-9)

	require.True(t, cells[1].Observed())
	assert.True(t, math.IsNaN(*cells[1].MeanSpeed))

	curve, err := SpeedDensityCurve(cells, 100, 0)
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.Equal(t, 1, curve[0].Cells)
	assert.InDelta(t, 222.0/9, curve[0].MeanSpeed, 1e-9)
}

func TestMacroscopicGridCompleteness(t *testing.T) {
	t.Parallel()

	records := append(tenSamples(1, 1, 0, 0), tenSamples(2, 2, 2*time.Second, 50)...)
	d := mustNew(t, records)
	snapshot := d.Records()

	cells, err := d.MacroscopicGrid(10, 1)
	require.NoError(t, err)
	require.Len(t, cells, 2*2*2, "lanes × space bins × time bins")

	observed := 0
	for i, c := range cells {
		if c.Observed() {
			observed++
			continue
		}
		assert.Nil(t, c.MeanSpeed, "cell %d", i)
		assert.Nil(t, c.Density, "cell %d", i)
	}
	assert.Equal(t, 2, observed)

	assert.Equal(t, 1, cells[0].LaneID)
	assert.Equal(t, 0, cells[0].SpaceBin)
	assert.True(t, cells[0].TimeBin.Equal(t0))
	assert.True(t, cells[1].TimeBin.Equal(t0.Add(2*time.Second)))
	assert.Equal(t, 5, cells[2].SpaceBin)
	assert.Equal(t, 2, cells[7].LaneID)
	assert.True(t, cells[7].Observed())

	if diff := cmp.Diff(snapshot, d.Records()); diff != "" {
		t.Errorf("grid mutated the dataset:\n%s", diff)
	}

	// repeated calls with other bin sizes do not interfere
	coarse, err := d.MacroscopicGrid(100, 5)
	require.NoError(t, err)
	assert.Len(t, coarse, 2)
}

func TestMacroscopicGridTrailingPartialBins(t *testing.T) {
	t.Parallel()

	d := mustNew(t, uniformFleet(1, 25, 100*time.Millisecond))
	cells, err := d.MacroscopicGrid(7, 0.7)
	require.NoError(t, err)
	for _, c := range cells {
		if c.Observed() {
			assert.Positive(t, *c.Count)
		}
	}
}

func TestMacroscopicGridRejectsBadBins(t *testing.T) {
	t.Parallel()

	d := mustNew(t, tenSamples(1, 1, 0, 0))
	_, err := d.MacroscopicGrid(0, 1)
	assert.Error(t, err)
	_, err = d.MacroscopicGrid(10, -1)
	assert.Error(t, err)

	var empty *EmptySelectionError
	_, err = (&Dataset{timeStep: time.Second}).MacroscopicGrid(10, 1)
	assert.True(t, errors.As(err, &empty))
}

func TestSpeedDensityCurve(t *testing.T) {
	t.Parallel()

	cell := func(lane int, density, speed float64) Cell {
		return Cell{LaneID: lane, Count: intPtr(1), Density: floatPtr(density), MeanSpeed: floatPtr(speed)}
	}
	cells := []Cell{
		cell(1, 1, 60), cell(1, 2, 50), cell(1, 4, 40),
		cell(1, 6, 30),
		cell(2, 12, 20), cell(2, 13, 10),
		{LaneID: 2},
	}

	curve, err := SpeedDensityCurve(cells, 5, 1)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.Equal(t, CurvePoint{Density: 0, MeanSpeed: 50, Cells: 3}, curve[0])
	assert.Equal(t, CurvePoint{Density: 10, MeanSpeed: 15, Cells: 2}, curve[1])

	byLane, err := SpeedDensityCurveByLane(cells, 5, 0)
	require.NoError(t, err)
	assert.Len(t, byLane[1], 2)
	assert.Len(t, byLane[2], 1)

	_, err = SpeedDensityCurve(cells, 0, 0)
	assert.Error(t, err)
}
