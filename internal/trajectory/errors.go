package trajectory

import (
	"fmt"
	"strings"
	"time"
)

// SchemaError reports required input fields that are absent from a source.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Source, strings.Join(e.Missing, ", "))
}

// InconsistentTimeStepError reports a dataset that is not uniformly sampled.
// Steps holds the distinct per-vehicle sampling intervals found, in
// ascending order. An empty Steps means no interval could be derived at all.
type InconsistentTimeStepError struct {
	Steps []time.Duration
}

func (e *InconsistentTimeStepError) Error() string {
	if len(e.Steps) == 0 {
		return "no sampling interval found: every vehicle has a single sample"
	}
	parts := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		parts[i] = s.String()
	}
	if len(e.Steps) == 1 {
		return fmt.Sprintf("invalid sampling interval %s: timestamps must strictly increase per vehicle", parts[0])
	}
	return fmt.Sprintf("dataset has %d distinct sampling intervals: %s", len(e.Steps), strings.Join(parts, ", "))
}

// EmptySelectionError reports a filtered view that matched no records.
type EmptySelectionError struct {
	View string
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("no records selected by %s", e.View)
}

// UnsupportedModeError reports an analysis path that is not implemented.
type UnsupportedModeError struct {
	Mode string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported analysis mode %q", e.Mode)
}
