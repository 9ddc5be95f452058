// Package monitoring holds the diagnostic logger shared by the analysis
// pipeline.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Stage logs the completion of a pipeline stage with its row count and
// elapsed time. Typical use:
//
//	defer monitoring.Stage("neighbors", time.Now(), &n)
func Stage(name string, start time.Time, rows *int) {
	n := 0
	if rows != nil {
		n = *rows
	}
	Logf("[%s] %d rows in %s", name, n, time.Since(start).Round(time.Millisecond))
}
