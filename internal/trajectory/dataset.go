package trajectory

import (
	"fmt"
	"sort"
	"time"

	"github.com/banshee-data/trajectory.report/internal/monitoring"
)

// Dataset is an immutable collection of trajectory records ordered by
// (VehicleID, Time), together with its validated sampling interval.
//
// Analytics never modify the records; bin assignments are computed into the
// structures each call returns.
type Dataset struct {
	records  []Record
	timeStep time.Duration
}

// New takes ownership of a copy of records, derives per-record DT and the
// dataset time step. Neighbor references are kept as supplied.
func New(records []Record) (*Dataset, error) {
	owned := make([]Record, len(records))
	copy(owned, records)

	step, err := AssignTimeSteps(owned)
	if err != nil {
		return nil, fmt.Errorf("validate time step: %w", err)
	}
	return &Dataset{records: owned, timeStep: step}, nil
}

// Assemble resolves lane neighbors on records and builds a Dataset from
// them. Source readers call this once normalisation is complete.
func Assemble(records []Record) (*Dataset, error) {
	start := time.Now()
	n := len(records)
	defer monitoring.Stage("assemble", start, &n)

	owned := make([]Record, len(records))
	copy(owned, records)
	ResolveNeighbors(owned)
	return New(owned)
}

// Union concatenates two datasets and re-validates the time step. It fails
// when the combined records are not uniformly sampled even if both inputs
// were.
func (d *Dataset) Union(other *Dataset) (*Dataset, error) {
	combined := make([]Record, 0, len(d.records)+len(other.records))
	combined = append(combined, d.records...)
	combined = append(combined, other.records...)
	return New(combined)
}

// TimeStep is the single sampling interval shared by every vehicle.
func (d *Dataset) TimeStep() time.Duration { return d.timeStep }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of the records in (VehicleID, Time) order.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// VehicleIDs returns the distinct vehicle ids in ascending order.
func (d *Dataset) VehicleIDs() []int {
	spans := vehicleSpans(d.records)
	ids := make([]int, len(spans))
	for i, s := range spans {
		ids[i] = d.records[s[0]].VehicleID
	}
	return ids
}

// Lanes returns the distinct lane ids in ascending order.
func (d *Dataset) Lanes() []int {
	seen := make(map[int]struct{})
	for _, r := range d.records {
		seen[r.LaneID] = struct{}{}
	}
	lanes := make([]int, 0, len(seen))
	for l := range seen {
		lanes = append(lanes, l)
	}
	sort.Ints(lanes)
	return lanes
}

// Speeds returns the speed column in record order.
func (d *Dataset) Speeds() []float64 {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i] = r.Speed
	}
	return out
}

// Accelerations returns the acceleration column in record order.
func (d *Dataset) Accelerations() []float64 {
	out := make([]float64, len(d.records))
	for i, r := range d.records {
		out[i] = r.Acceleration
	}
	return out
}

// Window bounds a time-space view of one lane. All bounds are inclusive.
type Window struct {
	Lane          int
	Start, End    time.Time
	StartPosition float64
	EndPosition   float64
}

func (w Window) String() string {
	return fmt.Sprintf("lane %d, %s..%s, %.1f..%.1f ft",
		w.Lane, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339), w.StartPosition, w.EndPosition)
}

// Select returns the records inside w in (VehicleID, Time) order.
func (d *Dataset) Select(w Window) ([]Record, error) {
	var out []Record
	for _, r := range d.records {
		if r.LaneID != w.Lane {
			continue
		}
		if r.Time.Before(w.Start) || r.Time.After(w.End) {
			continue
		}
		if r.Position < w.StartPosition || r.Position > w.EndPosition {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, &EmptySelectionError{View: w.String()}
	}
	return out, nil
}

// Trajectory is the ordered record series of one vehicle.
type Trajectory struct {
	VehicleID int
	Records   []Record
}

// VehicleTrajectories returns the series of the requested vehicles, in the
// order requested. Unknown ids are skipped; if none match the call fails
// with *EmptySelectionError.
func (d *Dataset) VehicleTrajectories(ids []int) ([]Trajectory, error) {
	byID := make(map[int][2]int)
	for _, s := range vehicleSpans(d.records) {
		byID[d.records[s[0]].VehicleID] = s
	}

	var out []Trajectory
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			continue
		}
		recs := make([]Record, s[1]-s[0])
		copy(recs, d.records[s[0]:s[1]])
		out = append(out, Trajectory{VehicleID: id, Records: recs})
	}
	if len(out) == 0 {
		return nil, &EmptySelectionError{View: fmt.Sprintf("vehicles %v", ids)}
	}
	return out, nil
}
