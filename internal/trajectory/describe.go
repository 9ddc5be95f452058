package trajectory

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the descriptive statistics row used in report tables.
type Summary struct {
	Count int
	NA    int
	Mean  float64
	Std   float64 // population standard deviation
	Min   float64
	P5    float64
	P25   float64
	P50   float64
	P75   float64
	P95   float64
	Max   float64
}

// Describe summarises a numeric column; NaN entries count as missing.
// Statistics are rounded to decimals places. Only numerical summaries are
// implemented: numerical=false returns *UnsupportedModeError.
func Describe(values []float64, numerical bool, decimals int) (Summary, error) {
	if !numerical {
		return Summary{}, &UnsupportedModeError{Mode: "categorical describe"}
	}

	s := Summary{Count: len(values)}
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			s.NA++
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P5, s.P25, s.P50, s.P75, s.P95, s.Max = nan, nan, nan, nan, nan, nan, nan, nan, nan
		return s, nil
	}
	sort.Float64s(clean)

	round := func(v float64) float64 {
		p := math.Pow(10, float64(decimals))
		return math.Round(v*p) / p
	}

	mean, std := stat.PopMeanStdDev(clean, nil)
	s.Mean = round(mean)
	s.Std = round(std)
	s.Min = round(floats.Min(clean))
	s.Max = round(floats.Max(clean))
	s.P5 = round(percentile(clean, 5))
	s.P25 = round(percentile(clean, 25))
	s.P50 = round(percentile(clean, 50))
	s.P75 = round(percentile(clean, 75))
	s.P95 = round(percentile(clean, 95))
	return s, nil
}

// percentile interpolates linearly between closest ranks of sorted data,
// rank = p/100 * (n-1).
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
