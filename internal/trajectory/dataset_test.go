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

func TestNewCopiesInput(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(2, 1, 0, 0, 30, 0),
		rec(1, 1, time.Second, 10, 30, 0),
		rec(1, 1, 0, 0, 30, 0),
		rec(2, 1, time.Second, 10, 30, 0),
	}
	before := append([]Record(nil), records...)

	d := mustNew(t, records)
	assert.Equal(t, time.Second, d.TimeStep())
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, []int{1, 2}, d.VehicleIDs())
	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("New mutated its input (-before +after):\n%s", diff)
	}

	got := d.Records()
	assert.Equal(t, 1, got[0].VehicleID)
	assert.True(t, got[0].Time.Before(got[1].Time))
}

func TestAssembleResolvesNeighbors(t *testing.T) {
	t.Parallel()

	d, err := Assemble([]Record{
		rec(1, 1, 0, 10, 30, 0),
		rec(2, 1, 0, 20, 30, 0),
		rec(1, 1, time.Second, 54, 30, 0),
		rec(2, 1, time.Second, 64, 30, 0),
	})
	require.NoError(t, err)
	for _, r := range d.Records() {
		if r.VehicleID == 1 {
			require.NotNil(t, r.PrecedingID)
			assert.Equal(t, 2, *r.PrecedingID)
		} else {
			assert.Nil(t, r.PrecedingID)
		}
	}
}

func TestUnion(t *testing.T) {
	t.Parallel()

	fast := mustNew(t, uniformFleet(3, 5, 100*time.Millisecond))
	alsoFast := mustNew(t, []Record{
		rec(10, 1, 0, 0, 30, 0),
		rec(10, 1, 100*time.Millisecond, 4, 30, 0),
	})
	slow := mustNew(t, []Record{
		rec(20, 1, 0, 0, 30, 0),
		rec(20, 1, 200*time.Millisecond, 9, 30, 0),
	})

	u, err := fast.Union(alsoFast)
	require.NoError(t, err)
	assert.Equal(t, fast.Len()+alsoFast.Len(), u.Len())
	assert.Equal(t, 100*time.Millisecond, u.TimeStep())

	_, err = fast.Union(slow)
	var tsErr *InconsistentTimeStepError
	assert.True(t, errors.As(err, &tsErr), "each input valid, union inconsistent")
}

func TestCorridorTravelTimes(t *testing.T) {
	t.Parallel()

	d := mustNew(t, []Record{
		rec(1, 1, 0, 0, 1, 0),
		rec(1, 1, time.Hour, 5280, 1, 0),
		rec(2, 1, 0, 1000, 1, 0),
		rec(2, 1, time.Hour, 0, 1, 0),
		rec(3, 1, 0, 500, 1, 0),
	})

	rows := d.CorridorTravelTimes()
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].VehicleID)
	assert.Equal(t, 3600.0, rows[0].DurationSeconds)
	assert.Equal(t, 5280.0, rows[0].DistanceFeet)
	assert.InDelta(t, 1.0, rows[0].SpeedMPH, 1e-12)

	assert.Equal(t, -1000.0, rows[1].DistanceFeet, "distance is not clamped")
	assert.Less(t, rows[1].SpeedMPH, 0.0)

	assert.Equal(t, 0.0, rows[2].DurationSeconds)
	assert.True(t, math.IsNaN(rows[2].SpeedMPH), "single-record vehicle is left for the caller")

	assert.Len(t, TravelSpeeds(rows), 2)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	d := mustNew(t, uniformFleet(6, 10, time.Second))

	w := Window{Lane: 2, Start: t0, End: t0.Add(5 * time.Second), StartPosition: 0, EndPosition: 200}
	got, err := d.Select(w)
	require.NoError(t, err)
	for _, r := range got {
		assert.Equal(t, 2, r.LaneID)
		assert.False(t, r.Time.After(w.End))
		assert.LessOrEqual(t, r.Position, 200.0)
	}

	_, err = d.Select(Window{Lane: 9, Start: t0, End: t0.Add(time.Hour), EndPosition: 1e6})
	var empty *EmptySelectionError
	assert.True(t, errors.As(err, &empty))
}

func TestVehicleTrajectories(t *testing.T) {
	t.Parallel()

	d := mustNew(t, uniformFleet(4, 3, time.Second))
	trs, err := d.VehicleTrajectories([]int{3, 99, 1})
	require.NoError(t, err)
	require.Len(t, trs, 2)
	assert.Equal(t, 3, trs[0].VehicleID)
	assert.Len(t, trs[0].Records, 3)
	assert.Equal(t, 1, trs[1].VehicleID)

	_, err = d.VehicleTrajectories([]int{99})
	var empty *EmptySelectionError
	assert.True(t, errors.As(err, &empty))
}

func TestLanes(t *testing.T) {
	t.Parallel()
	d := mustNew(t, uniformFleet(6, 2, time.Second))
	assert.Equal(t, []int{1, 2, 3}, d.Lanes())
}
