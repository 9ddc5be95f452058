package trajectory

import (
	"sort"

	"github.com/samber/lo"
)

// Observation is a normalised field-data record that still carries the raw
// vehicle id. Field datasets recycle ids, so the raw id alone does not
// identify a physical vehicle.
type Observation struct {
	Record
	RawVehicleID int
	TotalFrames  int
}

// identityKey is empirically unique per physical vehicle in field data.
type identityKey struct {
	rawID       int
	totalFrames int
	length      float64
}

// ResolveIdentities assigns each distinct (raw id, total frames, length)
// group a sequential 1-indexed VehicleID and returns the records in input
// order. Ids are assigned in ascending key order so the same file always
// resolves to the same ids regardless of row order.
func ResolveIdentities(obs []Observation) []Record {
	keys := make(map[identityKey]int)
	for _, o := range obs {
		keys[identityKey{o.RawVehicleID, o.TotalFrames, o.LengthFeet}] = 0
	}

	ordered := lo.Keys(keys)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.rawID != b.rawID {
			return a.rawID < b.rawID
		}
		if a.totalFrames != b.totalFrames {
			return a.totalFrames < b.totalFrames
		}
		return a.length < b.length
	})
	for i, k := range ordered {
		keys[k] = i + 1
	}

	out := make([]Record, len(obs))
	for i, o := range obs {
		out[i] = o.Record
		out[i].VehicleID = keys[identityKey{o.RawVehicleID, o.TotalFrames, o.LengthFeet}]
	}
	return out
}
