package utils

import "time"

// ISO8601Millis is the millisecond-precision UTC layout clients expect for timestamps
const ISO8601Millis = "2006-01-02T15:04:05.000Z"

// FormatISO8601 renders t in UTC with millisecond precision
func FormatISO8601(t time.Time) string {
	return t.UTC().Format(ISO8601Millis)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
