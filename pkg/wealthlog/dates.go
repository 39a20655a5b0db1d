package wealthlog

import "time"

const dateLayout = "2006-01-02"

const shanghaiTimeZoneName = "Asia/Shanghai"

var shanghaiLocation = loadShanghaiLocation()

func loadShanghaiLocation() *time.Location {
	location, err := time.LoadLocation(shanghaiTimeZoneName)
	if err != nil {
		return time.FixedZone(shanghaiTimeZoneName, 8*60*60)
	}
	return location
}

// NowInShanghai returns current time in Asia/Shanghai.
func NowInShanghai() time.Time {
	return time.Now().In(shanghaiLocation)
}

// TodayISOInShanghai returns current date using YYYY-MM-DD in Asia/Shanghai.
func TodayISOInShanghai() string {
	return NowInShanghai().Format(dateLayout)
}

// parseDate parses a YYYY-MM-DD string into a midnight-UTC time. The zero
// time and false are returned for empty or malformed input; the engine
// degrades rather than failing on bad historical dates.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseDatePtr is parseDate over an optional field.
func parseDatePtr(value *string) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	return parseDate(*value)
}

// dateOnly truncates a wall-clock instant to its calendar day so that
// comparisons against parsed YYYY-MM-DD values are day-granular.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole days from a to b; negative when b is before a.
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
