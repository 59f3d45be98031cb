package observation

import (
	"time"

	"github.com/araddon/dateparse"
)

// Layout order matters: the more specific layouts must be tried before the
// looser ones so a partial input cannot match ambiguously.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
}

// ParseTime converts a date/time string as found in API records into a
// timestamp. The second return value is false when the input is empty or
// matches none of the known layouts; there is no error to propagate.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Last resort: lenient parse covers ISO-8601 variants with zone suffixes.
	if t, err := dateparse.ParseLocal(s); err == nil {
		return t, true
	}

	return time.Time{}, false
}
