package trajectory

import (
	"sort"
)

// ResolveNeighbors sets PrecedingID and FollowingID on every record.
//
// Records are ordered by (LaneID, Time, Position) ascending. A record's
// successor in that order is its preceding vehicle and its predecessor is the
// following vehicle, but only when both share the same lane and timestamp;
// otherwise the reference is nil. The input slice order is left unchanged.
func ResolveNeighbors(records []Record) {
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := &records[idx[i]], &records[idx[j]]
		if a.LaneID != b.LaneID {
			return a.LaneID < b.LaneID
		}
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.VehicleID < b.VehicleID
	})

	sameSnapshot := func(a, b *Record) bool {
		return a.LaneID == b.LaneID && a.Time.Equal(b.Time)
	}

	for k, i := range idx {
		r := &records[i]
		r.PrecedingID = nil
		r.FollowingID = nil
		if k+1 < len(idx) {
			if next := &records[idx[k+1]]; sameSnapshot(r, next) {
				r.PrecedingID = intPtr(next.VehicleID)
			}
		}
		if k > 0 {
			if prev := &records[idx[k-1]]; sameSnapshot(r, prev) {
				r.FollowingID = intPtr(prev.VehicleID)
			}
		}
	}
}
