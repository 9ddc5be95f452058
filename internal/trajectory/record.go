package trajectory

import (
	"sort"
	"time"
)

// Record is one observation of one vehicle at one instant.
type Record struct {
	VehicleID    int
	Time         time.Time
	LaneID       int
	Position     float64 // feet along the corridor
	LengthFeet   float64
	Speed        float64 // mph
	Acceleration float64 // ft/s²

	// Neighbors in the same lane at the same timestamp. Preceding is the
	// next-higher position, following the next-lower one.
	PrecedingID *int
	FollowingID *int

	// DT is the interval to the vehicle's next record; nil on its last one.
	DT *time.Duration
}

// sortByVehicleTime orders records by (VehicleID, Time).
func sortByVehicleTime(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := &records[i], &records[j]
		if a.VehicleID != b.VehicleID {
			return a.VehicleID < b.VehicleID
		}
		return a.Time.Before(b.Time)
	})
}

// vehicleSpans returns [start, end) index pairs of each vehicle's run in
// records sorted by (VehicleID, Time).
func vehicleSpans(records []Record) [][2]int {
	var spans [][2]int
	start := 0
	for i := 1; i <= len(records); i++ {
		if i == len(records) || records[i].VehicleID != records[start].VehicleID {
			if i > start {
				spans = append(spans, [2]int{start, i})
			}
			start = i
		}
	}
	return spans
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// floorDiv is integer division rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
