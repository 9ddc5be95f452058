package trajectory

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/banshee-data/trajectory.report/internal/units"
)

// KinematicSample is one vehicle's state averaged over one second.
type KinematicSample struct {
	VehicleID        int
	Time             time.Time // start of the second
	MeanAcceleration float64   // ft/s²
	MeanSpeed        float64   // mph
	MeanPosition     float64   // feet
	Jerk             float64   // next second's mean acceleration minus this one's
}

// nanMean accumulates a mean that skips NaN values. It is NaN when every
// value added was NaN.
type nanMean struct {
	n   int
	sum float64
}

func (m *nanMean) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.n++
	m.sum += v
}

func (m nanMean) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

type secondAcc struct {
	n             int
	acc, spd, pos nanMean
}

// Kinematics1Hz resamples every vehicle to a 1-second cadence by averaging
// the records that fall in each epoch second, then derives jerk against the
// immediately following second. NaN values are left out of each field's
// mean. Seconds without records, and seconds whose
// following second has none (including each vehicle's last), are dropped.
func (d *Dataset) Kinematics1Hz() []KinematicSample {
	const sec = int64(time.Second)
	var out []KinematicSample

	for _, s := range vehicleSpans(d.records) {
		recs := d.records[s[0]:s[1]]
		loc := recs[0].Time.Location()
		first := floorDiv(recs[0].Time.UnixNano(), sec)
		last := floorDiv(recs[len(recs)-1].Time.UnixNano(), sec)

		buckets := make([]secondAcc, last-first+1)
		for _, r := range recs {
			b := &buckets[floorDiv(r.Time.UnixNano(), sec)-first]
			b.n++
			b.acc.add(r.Acceleration)
			b.spd.add(r.Speed)
			b.pos.add(r.Position)
		}

		for i := 0; i+1 < len(buckets); i++ {
			cur, next := buckets[i], buckets[i+1]
			if cur.n == 0 || next.n == 0 {
				continue
			}
			sample := KinematicSample{
				VehicleID:        recs[0].VehicleID,
				Time:             time.Unix(first+int64(i), 0).In(loc),
				MeanAcceleration: cur.acc.value(),
				MeanSpeed:        cur.spd.value(),
				MeanPosition:     cur.pos.value(),
			}
			sample.Jerk = next.acc.value() - sample.MeanAcceleration
			if !isFinite(sample.MeanAcceleration) || !isFinite(sample.MeanSpeed) ||
				!isFinite(sample.MeanPosition) || !isFinite(sample.Jerk) {
				continue
			}
			out = append(out, sample)
		}
	}
	return out
}

// Jerks returns the jerk column of samples.
func Jerks(samples []KinematicSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Jerk
	}
	return out
}

// SampleAccelerations returns the mean acceleration column of samples.
func SampleAccelerations(samples []KinematicSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.MeanAcceleration
	}
	return out
}

// ARMSBin is the acceleration root-mean-square of one speed bucket.
type ARMSBin struct {
	SpeedBin float64 // bucket start, mph
	ARMS     float64
	Count    int
}

// AccelerationRMS buckets every record by speed and returns the scaled
// acceleration RMS per bucket in ascending speed order.
func (d *Dataset) AccelerationRMS(speedBinWidth float64) ([]ARMSBin, error) {
	return AccelerationRMS(d.Speeds(), d.Accelerations(), speedBinWidth)
}

// AccelerationRMS buckets paired speed/acceleration samples by
// floor(speed/speedBinWidth)*speedBinWidth. Within a bucket of n samples the
// result is sqrt(sum(acc²)/n) * units.ARMSFactor; NaN accelerations add
// nothing to the sum but still count towards n.
func AccelerationRMS(speeds, accels []float64, speedBinWidth float64) ([]ARMSBin, error) {
	if len(speeds) != len(accels) {
		return nil, fmt.Errorf("speed and acceleration lengths differ: %d != %d", len(speeds), len(accels))
	}
	if !(speedBinWidth > 0) {
		return nil, fmt.Errorf("speed bin must be positive, got %v", speedBinWidth)
	}

	type bucket struct {
		n     int
		sumSq float64
	}
	buckets := make(map[float64]*bucket)
	for i, spd := range speeds {
		if math.IsNaN(spd) {
			continue
		}
		key := math.Floor(spd/speedBinWidth) * speedBinWidth
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.n++
		if a := accels[i]; !math.IsNaN(a) {
			b.sumSq += a * a
		}
	}

	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	out := make([]ARMSBin, len(keys))
	for i, k := range keys {
		b := buckets[k]
		out[i] = ARMSBin{
			SpeedBin: k,
			ARMS:     math.Sqrt(b.sumSq/float64(b.n)) * units.ARMSFactor,
			Count:    b.n,
		}
	}
	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
