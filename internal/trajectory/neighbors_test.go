package trajectory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idOf(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func TestResolveNeighbors(t *testing.T) {
	t.Parallel()

	records := []Record{
		rec(3, 1, 0, 30, 30, 0),
		rec(1, 1, 0, 10, 30, 0),
		rec(2, 1, 0, 20, 30, 0),
		rec(4, 2, 0, 25, 30, 0),                    // other lane
		rec(5, 1, 100*time.Millisecond, 15, 30, 0), // other timestamp
	}
	ResolveNeighbors(records)

	byID := map[int]Record{}
	for _, r := range records {
		byID[r.VehicleID] = r
	}

	assert.Equal(t, 3, idOf(byID[2].PrecedingID))
	assert.Equal(t, 1, idOf(byID[2].FollowingID))
	assert.Nil(t, byID[3].PrecedingID)
	assert.Equal(t, 2, idOf(byID[3].FollowingID))
	assert.Equal(t, 2, idOf(byID[1].PrecedingID))
	assert.Nil(t, byID[1].FollowingID)

	assert.Nil(t, byID[4].PrecedingID, "alone in its lane")
	assert.Nil(t, byID[4].FollowingID)
	assert.Nil(t, byID[5].PrecedingID, "alone at its timestamp")
	assert.Nil(t, byID[5].FollowingID)
}

func TestResolveNeighborsKeepsInputOrder(t *testing.T) {
	t.Parallel()

	records := []Record{rec(9, 1, 0, 50, 30, 0), rec(8, 1, 0, 40, 30, 0)}
	ResolveNeighbors(records)
	require.Equal(t, 9, records[0].VehicleID)
	assert.Equal(t, 8, idOf(records[0].FollowingID))
	assert.Equal(t, 9, idOf(records[1].PrecedingID))
}
