package usage

import (
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts the timestamp shapes observed in usage
// payloads: RFC3339 (with or without fractional seconds), the bare
// "2006-01-02 15:04:05" form, and unix epochs in seconds, millis or
// micros. The second return is false when nothing parses; callers drop
// such events rather than failing.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return unixAuto(n), true
	}
	return time.Time{}, false
}

func unixAuto(ts int64) time.Time {
	switch {
	case ts > 1_000_000_000_000_000:
		return time.UnixMicro(ts).UTC()
	case ts > 1_000_000_000_000:
		return time.UnixMilli(ts).UTC()
	default:
		return time.Unix(ts, 0).UTC()
	}
}
