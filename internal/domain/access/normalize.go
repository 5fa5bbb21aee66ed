package access

import (
	"strings"
	"time"
)

// deviceTimestampLayout is the wire format edge devices report: a local
// date-time with minute precision and no zone.
const deviceTimestampLayout = "2006-01-02T15:04"

// ParseDeviceTime extracts the time-of-day from a device timestamp. Only the
// clock component is kept; the date is discarded because the store records
// intra-day time alone. An absent value yields (nil, true), a malformed one
// (nil, false); neither is an error: a scan with a bad clock is still a scan.
func ParseDeviceTime(value string) (*time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse(deviceTimestampLayout, value)
	if err != nil {
		return nil, false
	}
	t := time.Date(0, time.January, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	return &t, true
}

// FormatDeviceTime renders a stored time-of-day as HH:MM:SS, or nil when the
// event carried no usable timestamp.
func FormatDeviceTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("15:04:05")
	return &formatted
}
