// Package units provides shared constants and conversions for the imperial
// units used by trajectory datasets (feet, miles, seconds, mph).
package units

const (
	// FeetPerMile is used for every position/density conversion.
	FeetPerMile = 5280.0
	// SecondsPerHour converts durations to hours for mph.
	SecondsPerHour = 3600.0
	// ARMSFactor scales an acceleration root-mean-square in ft/s² to the
	// published ARMS figure (approximately m/s²).
	ARMSFactor = 0.303
)

// FeetPerSecondToMPH converts a speed in ft/s to miles per hour.
func FeetPerSecondToMPH(fps float64) float64 {
	return fps * SecondsPerHour / FeetPerMile
}

// AverageSpeedMPH returns the average speed of a traversal of distanceFeet in
// durationSeconds. A zero duration yields ±Inf or NaN; callers filter those.
func AverageSpeedMPH(distanceFeet, durationSeconds float64) float64 {
	return (distanceFeet / FeetPerMile) / (durationSeconds / SecondsPerHour)
}

// PerMile scales a per-bin count over a bin of widthFeet to a per-mile figure.
func PerMile(count, widthFeet float64) float64 {
	return count * (FeetPerMile / widthFeet)
}
