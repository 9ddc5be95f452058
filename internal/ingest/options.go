package ingest

import (
	"time"

	"github.com/banshee-data/trajectory.report/internal/trajectory"
)

// Options controls normalisation and the inclusive time window applied
// after reading.
type Options struct {
	Location *time.Location // timestamps are presented in this zone; nil means UTC
	Start    time.Time      // zero means unbounded
	End      time.Time      // zero means unbounded
	LaneBase int            // model lane = LaneBase - laneIndex
	Table    string         // model table inside a SQLite store
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// FilterWindow keeps the records whose time lies in [start, end]. Zero
// bounds are open.
func FilterWindow(records []trajectory.Record, start, end time.Time) []trajectory.Record {
	if start.IsZero() && end.IsZero() {
		return records
	}
	out := records[:0:0]
	for _, r := range records {
		if !start.IsZero() && r.Time.Before(start) {
			continue
		}
		if !end.IsZero() && r.Time.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}
