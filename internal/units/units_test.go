package units

import (
	"math"
	"testing"
)

func TestFeetPerSecondToMPH(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		want float64
	}{
		{"zero", 0, 0},
		{"88 fps is 60 mph", 88, 60},
		{"one mile per hour", FeetPerMile / SecondsPerHour, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeetPerSecondToMPH(tt.fps)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FeetPerSecondToMPH(%v) = %v, want %v", tt.fps, got, tt.want)
			}
		})
	}
}

func TestAverageSpeedMPH(t *testing.T) {
	if got := AverageSpeedMPH(5280, 3600); got != 1 {
		t.Errorf("AverageSpeedMPH(5280, 3600) = %v, want 1", got)
	}
	if got := AverageSpeedMPH(-5280, 3600); got != -1 {
		t.Errorf("AverageSpeedMPH(-5280, 3600) = %v, want -1", got)
	}
	if got := AverageSpeedMPH(10, 0); !math.IsInf(got, 1) {
		t.Errorf("AverageSpeedMPH(10, 0) = %v, want +Inf", got)
	}
}

func TestPerMile(t *testing.T) {
	if got := PerMile(10, 10); got != 5280 {
		t.Errorf("PerMile(10, 10) = %v, want 5280", got)
	}
}
