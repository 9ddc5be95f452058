package trajectory

import (
	"time"

	"github.com/banshee-data/trajectory.report/internal/units"
)

// TravelTime summarises one vehicle's traversal of the corridor between its
// first and last record.
type TravelTime struct {
	VehicleID       int
	Start           time.Time
	StartPosition   float64
	End             time.Time
	EndPosition     float64
	DurationSeconds float64
	DistanceFeet    float64 // not clamped; negative if positions decrease downstream
	SpeedMPH        float64 // ±Inf or NaN for single-record vehicles
}

// CorridorTravelTimes returns one row per vehicle in ascending VehicleID
// order. Rows with a zero duration are returned as-is; callers filter them.
func (d *Dataset) CorridorTravelTimes() []TravelTime {
	spans := vehicleSpans(d.records)
	out := make([]TravelTime, 0, len(spans))
	for _, s := range spans {
		first, last := d.records[s[0]], d.records[s[1]-1]
		dur := last.Time.Sub(first.Time).Seconds()
		dist := last.Position - first.Position
		out = append(out, TravelTime{
			VehicleID:       first.VehicleID,
			Start:           first.Time,
			StartPosition:   first.Position,
			End:             last.Time,
			EndPosition:     last.Position,
			DurationSeconds: dur,
			DistanceFeet:    dist,
			SpeedMPH:        units.AverageSpeedMPH(dist, dur),
		})
	}
	return out
}

// TravelSpeeds returns the finite SpeedMPH values of rows.
func TravelSpeeds(rows []TravelTime) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if isFinite(r.SpeedMPH) {
			out = append(out, r.SpeedMPH)
		}
	}
	return out
}
