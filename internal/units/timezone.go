package units

import "time"

// DefaultSiteTimezone is the timezone of the US-101 / I-80 field collection
// sites. Raw field timestamps are epoch milliseconds and are shown in site
// local time.
const DefaultSiteTimezone = "America/Los_Angeles"

// IsTimezoneValid checks if the given timezone is valid by attempting to load it from the tz database
// This validates against the actual system tz database rather than a hardcoded list
func IsTimezoneValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// FromUnixMillis builds a timestamp from epoch milliseconds in the given location.
// A nil location means UTC.
func FromUnixMillis(ms int64, loc *time.Location) time.Time {
	t := time.UnixMilli(ms).UTC()
	if loc == nil {
		return t
	}
	return t.In(loc)
}
