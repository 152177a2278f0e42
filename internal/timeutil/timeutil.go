package timeutil

import "time"

// TimestampLayout is the fixed-width UTC layout used for persisted timestamps.
// Every value has the same width, so lexical order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a value written by FormatTimestamp. RFC 3339 values are
// accepted too so rows written by other tools still load.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, value)
	if err == nil {
		return t, nil
	}
	if alt, altErr := time.Parse(time.RFC3339Nano, value); altErr == nil {
		return alt.UTC(), nil
	}
	return time.Time{}, err
}
