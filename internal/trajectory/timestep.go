package trajectory

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// AssignTimeSteps sorts records by (VehicleID, Time), sets each record's DT
// to the interval to the same vehicle's next record (nil on the last one) and
// returns the dataset's single sampling interval.
//
// It fails with *InconsistentTimeStepError when more than one distinct
// interval exists, when the only interval is not positive, or when no
// interval can be derived.
func AssignTimeSteps(records []Record) (time.Duration, error) {
	sortByVehicleTime(records)

	distinct := make(map[time.Duration]struct{})
	for i := range records {
		records[i].DT = nil
		if i+1 < len(records) && records[i+1].VehicleID == records[i].VehicleID {
			dt := records[i+1].Time.Sub(records[i].Time)
			records[i].DT = &dt
			distinct[dt] = struct{}{}
		}
	}

	steps := lo.Keys(distinct)
	sort.Slice(steps, func(i, j int) bool { return steps[i] < steps[j] })

	if len(steps) != 1 || steps[0] <= 0 {
		return 0, &InconsistentTimeStepError{Steps: steps}
	}
	return steps[0], nil
}
