package ingest

import (
	"fmt"
	"time"

	"github.com/banshee-data/trajectory.report/internal/db"
	"github.com/banshee-data/trajectory.report/internal/monitoring"
	"github.com/banshee-data/trajectory.report/internal/trajectory"
	"github.com/banshee-data/trajectory.report/internal/units"
)

// ModelColumns are the columns a model table must provide.
var ModelColumns = []string{"oid", "time", "dist_along", "laneIndex", "speed", "acceleration"}

// ModelRow is one simulation sample. The tags describe the Parquet layout
// written by the simulation export.
type ModelRow struct {
	OID          int64   `parquet:"name=oid, type=INT64"`
	Time         int64   `parquet:"name=time, type=INT64"` // unix epoch milliseconds
	DistAlong    float64 `parquet:"name=dist_along, type=DOUBLE"`
	LaneIndex    int64   `parquet:"name=laneIndex, type=INT64"`
	Speed        float64 `parquet:"name=speed, type=DOUBLE"`        // mph
	Acceleration float64 `parquet:"name=acceleration, type=DOUBLE"` // ft/s²
}

// Source formats accepted by LoadModel.
const (
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
)

// NormalizeModel maps model rows onto trajectory records. Model ids are
// already stable, so no identity resolution is applied. Lengths are not
// part of the model export and are left NaN.
func NormalizeModel(rows []ModelRow, opts Options) []trajectory.Record {
	loc := opts.location()
	out := make([]trajectory.Record, len(rows))
	for i, r := range rows {
		out[i] = trajectory.Record{
			VehicleID:    int(r.OID),
			Time:         units.FromUnixMillis(r.Time, loc),
			LaneID:       opts.LaneBase - int(r.LaneIndex),
			Position:     r.DistAlong,
			LengthFeet:   nan(),
			Speed:        r.Speed,
			Acceleration: r.Acceleration,
		}
	}
	return out
}

// ToStoreRows converts model rows for the trajectory store.
func ToStoreRows(rows []ModelRow) []db.TrajectoryRow {
	out := make([]db.TrajectoryRow, len(rows))
	for i, r := range rows {
		out[i] = db.TrajectoryRow{
			OID:          r.OID,
			TimeMillis:   r.Time,
			DistAlong:    r.DistAlong,
			LaneIndex:    r.LaneIndex,
			Speed:        r.Speed,
			Acceleration: r.Acceleration,
			Length:       nan(),
		}
	}
	return out
}

func fromStoreRows(rows []db.TrajectoryRow) []ModelRow {
	out := make([]ModelRow, len(rows))
	for i, r := range rows {
		out[i] = ModelRow{
			OID:          r.OID,
			Time:         r.TimeMillis,
			DistAlong:    r.DistAlong,
			LaneIndex:    r.LaneIndex,
			Speed:        r.Speed,
			Acceleration: r.Acceleration,
		}
	}
	return out
}

// missingColumns returns the required columns absent from have, in
// ModelColumns order.
func missingColumns(have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, c := range have {
		set[c] = struct{}{}
	}
	var missing []string
	for _, c := range ModelColumns {
		if _, ok := set[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// LoadModel reads model data from path in the given format ("parquet" or
// "sqlite"), normalises it, applies the time window and assembles a
// dataset.
func LoadModel(path, format string, opts Options) (*trajectory.Dataset, error) {
	start := time.Now()

	var (
		rows []ModelRow
		err  error
	)
	switch format {
	case FormatParquet:
		rows, err = ReadModelParquet(path)
	case FormatSQLite:
		rows, err = readModelStorePath(path, opts)
	default:
		return nil, &trajectory.UnsupportedModeError{Mode: "model format " + format}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n := len(rows)
	monitoring.Stage("read model", start, &n)

	records := FilterWindow(NormalizeModel(rows, opts), opts.Start, opts.End)
	if len(records) == 0 {
		return nil, &trajectory.EmptySelectionError{View: fmt.Sprintf("%s window %s..%s", path, opts.Start, opts.End)}
	}
	return trajectory.Assemble(records)
}
