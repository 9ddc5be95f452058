package trajectory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obs(raw, frames int, length float64) Observation {
	return Observation{Record: Record{LengthFeet: length}, RawVehicleID: raw, TotalFrames: frames}
}

func TestResolveIdentities(t *testing.T) {
	t.Parallel()

	input := []Observation{
		obs(7, 400, 14.5), // a
		obs(7, 400, 14.5), // a again
		obs(7, 350, 14.5), // recycled id, different frame count
		obs(7, 400, 16.0), // recycled id, different length
		obs(3, 400, 14.5), // different raw id
		obs(7, 400, 14.5), // a again
	}
	got := ResolveIdentities(input)
	require.Len(t, got, len(input))

	assert.Equal(t, got[0].VehicleID, got[1].VehicleID)
	assert.Equal(t, got[0].VehicleID, got[5].VehicleID)

	ids := map[int]bool{}
	for _, i := range []int{0, 2, 3, 4} {
		ids[got[i].VehicleID] = true
	}
	assert.Len(t, ids, 4, "differing keys never collide")
	for id := range ids {
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, 4)
	}
}

func TestResolveIdentitiesIndependentOfOrder(t *testing.T) {
	t.Parallel()

	a := []Observation{obs(1, 10, 12), obs(2, 20, 13), obs(1, 11, 12)}
	b := []Observation{a[2], a[1], a[0]}

	ra := ResolveIdentities(a)
	rb := ResolveIdentities(b)
	assert.Equal(t, ra[0].VehicleID, rb[2].VehicleID)
	assert.Equal(t, ra[1].VehicleID, rb[1].VehicleID)
	assert.Equal(t, ra[2].VehicleID, rb[0].VehicleID)
}
