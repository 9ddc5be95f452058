package trajectory

import (
	"testing"
	"time"
)

var t0 = time.Date(2005, 4, 13, 17, 0, 0, 0, time.UTC)

func rec(vid, lane int, offset time.Duration, pos, speed, acc float64) Record {
	return Record{
		VehicleID:    vid,
		Time:         t0.Add(offset),
		LaneID:       lane,
		Position:     pos,
		LengthFeet:   15,
		Speed:        speed,
		Acceleration: acc,
	}
}

// uniformFleet builds vehicles×samples records at a fixed step, one lane per
// vehicle modulo 3, each vehicle moving at 44 ft/s.
func uniformFleet(vehicles, samples int, step time.Duration) []Record {
	out := make([]Record, 0, vehicles*samples)
	for v := 1; v <= vehicles; v++ {
		start := time.Duration(v) * step
		for i := 0; i < samples; i++ {
			offset := start + time.Duration(i)*step
			out = append(out, rec(v, v%3+1, offset, 44*offset.Seconds(), 30, 0))
		}
	}
	return out
}

func mustNew(t *testing.T, records []Record) *Dataset {
	t.Helper()
	d, err := New(records)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}
