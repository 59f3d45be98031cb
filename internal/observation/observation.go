package observation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one JSON object returned by the synop API.
type Record map[string]any

// Observation is the result of selecting the latest record from a payload.
// Nil Temperature or Timestamp means the field could not be recovered; a nil
// Record means the payload held no records at all.
type Observation struct {
	Temperature *float64
	Timestamp   *time.Time
	Record      Record
}

// Field-name fallback lists are ordered constants so precedence stays
// deterministic across runs. The IMGW API most often uses the Polish names.
var (
	temperatureKeys  = []string{"temperatura", "temp", "temperature", "t"}
	hourKeys         = []string{"godzina_pomiaru", "godzina", "time"}
	fallbackTimeKeys = []string{"timestamp", "date", "data"}
	stationKeys      = []string{"stacja", "station"}
)

const measurementDateKey = "data_pomiaru"

// Normalize turns a decoded JSON payload into a slice of records. A lone
// object becomes a one-element slice; non-object array elements are skipped;
// any other payload shape yields nil.
func Normalize(payload any) []Record {
	switch v := payload.(type) {
	case map[string]any:
		return []Record{v}
	case []any:
		records := make([]Record, 0, len(v))

		for _, item := range v {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			}
		}

		return records
	default:
		return nil
	}
}

// SelectLatest resolves the most recent record and extracts its temperature
// and timestamp. Records are sorted by derived timestamp descending with
// timestampless records last; among the sorted records the first one with an
// extractable temperature wins. The input is never mutated.
func SelectLatest(records []Record) Observation {
	if len(records) == 0 {
		return Observation{}
	}

	type timedRecord struct {
		ts  *time.Time
		rec Record
	}

	timed := make([]timedRecord, 0, len(records))

	for _, rec := range records {
		tr := timedRecord{rec: rec}
		if t, ok := recordTime(rec); ok {
			tr.ts = &t
		}

		timed = append(timed, tr)
	}

	// The stable sort keeps input order among equal timestamps, so the
	// selected record is deterministic even for duplicate timestamps.
	sort.SliceStable(timed, func(i, j int) bool {
		a, b := timed[i].ts, timed[j].ts

		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	for _, tr := range timed {
		if temp, ok := extractTemperature(tr.rec); ok {
			return Observation{Temperature: &temp, Timestamp: tr.ts, Record: tr.rec}
		}
	}

	return Observation{Timestamp: timed[0].ts, Record: timed[0].rec}
}

// StationName returns a display name for the record's station, falling back
// to the queried id when the record carries none.
func (r Record) StationName(stationID int) string {
	for _, key := range stationKeys {
		if s, ok := r[key].(string); ok && s != "" {
			return s
		}
	}

	return "id=" + strconv.Itoa(stationID)
}

// recordTime derives a timestamp for one record: the measurement date+hour
// combination first, the date alone next, then the generic timestamp keys.
func recordTime(rec Record) (time.Time, bool) {
	if date, ok := rec[measurementDateKey]; ok {
		datePart := stringify(date)
		timePart := ""

		for _, key := range hourKeys {
			v, ok := rec[key]
			if !ok || v == nil {
				continue
			}

			if timePart = hourString(v); timePart != "" {
				break
			}
		}

		if datePart != "" && timePart != "" {
			if t, ok := ParseTime(datePart + " " + timePart); ok {
				return t, true
			}
		}

		if t, ok := ParseTime(datePart); ok {
			return t, true
		}
	}

	for _, key := range fallbackTimeKeys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}

		if t, ok := ParseTime(stringify(v)); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// hourString expands a bare numeric hour like 12 into "12:00:00"; string
// values pass through as-is.
func hourString(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%02d:00:00", int(f))
	}

	return stringify(v)
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// extractTemperature tries the candidate field names in order and coerces the
// first usable value. Strings may carry a comma as the decimal separator;
// values that fail to coerce fall through to the next candidate.
func extractTemperature(rec Record) (float64, bool) {
	for _, key := range temperatureKeys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}

		switch val := v.(type) {
		case float64:
			return val, true
		case string:
			if val == "" {
				continue
			}

			f, err := strconv.ParseFloat(strings.ReplaceAll(val, ",", "."), 64)
			if err != nil {
				continue
			}

			return f, true
		}
	}

	return 0, false
}
