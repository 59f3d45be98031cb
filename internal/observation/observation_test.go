package observation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synop-relay/internal/observation"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		expected int
	}{
		{"single object", map[string]any{"temperatura": "1.0"}, 1},
		{"array of objects", []any{map[string]any{}, map[string]any{}}, 2},
		{"array with non-objects skipped", []any{map[string]any{}, "junk", 42.0}, 1},
		{"scalar", "nope", 0},
		{"nil", nil, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Len(t, observation.Normalize(test.payload), test.expected)
		})
	}
}

func TestSelectLatestEmpty(t *testing.T) {
	obs := observation.SelectLatest(nil)

	assert.Nil(t, obs.Temperature)
	assert.Nil(t, obs.Timestamp)
	assert.Nil(t, obs.Record)
}

func TestSelectLatestDateAndHourCombination(t *testing.T) {
	obs := observation.SelectLatest([]observation.Record{{
		"data_pomiaru":    "2024-05-01",
		"godzina_pomiaru": 12.0,
		"temperatura":     "18.2",
	}})

	require.NotNil(t, obs.Timestamp)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), *obs.Timestamp)

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, 18.2, *obs.Temperature, 1e-9)
}

func TestSelectLatestDateOnlyFallback(t *testing.T) {
	// An unparseable hour must not lose the date part.
	obs := observation.SelectLatest([]observation.Record{{
		"data_pomiaru":    "2024-05-01",
		"godzina_pomiaru": "garbage",
		"temperatura":     "3.0",
	}})

	require.NotNil(t, obs.Timestamp)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *obs.Timestamp)
}

func TestSelectLatestGenericTimeKeys(t *testing.T) {
	obs := observation.SelectLatest([]observation.Record{{
		"timestamp":   "2024-05-01 06:00:00",
		"temperatura": "7.5",
	}})

	require.NotNil(t, obs.Timestamp)
	assert.Equal(t, 6, obs.Timestamp.Hour())
}

func TestSelectLatestCommaDecimal(t *testing.T) {
	obs := observation.SelectLatest([]observation.Record{{
		"data_pomiaru": "2024-05-01",
		"temperatura":  "12,3",
	}})

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, 12.3, *obs.Temperature, 1e-9)
}

func TestSelectLatestBadCandidateFallsThrough(t *testing.T) {
	// "temperatura" fails to coerce, so the next candidate key must win.
	obs := observation.SelectLatest([]observation.Record{{
		"temperatura": "abc",
		"temp":        "-2,5",
	}})

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, -2.5, *obs.Temperature, 1e-9)
}

func TestSelectLatestNoTemperature(t *testing.T) {
	obs := observation.SelectLatest([]observation.Record{{
		"data_pomiaru":    "2024-05-01",
		"godzina_pomiaru": 9.0,
		"stacja":          "Białystok",
	}})

	assert.Nil(t, obs.Temperature)

	require.NotNil(t, obs.Timestamp)
	assert.Equal(t, 9, obs.Timestamp.Hour())

	require.NotNil(t, obs.Record)
	assert.Equal(t, "Białystok", obs.Record.StationName(12295))
}

func TestSelectLatestPicksLatestWithTemperature(t *testing.T) {
	records := []observation.Record{
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 10.0, "temperatura": "10.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 14.0, "temperatura": "14.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 12.0, "temperatura": "12.0"},
	}

	obs := observation.SelectLatest(records)

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, 14.0, *obs.Temperature, 1e-9)

	require.NotNil(t, obs.Timestamp)
	assert.Equal(t, 14, obs.Timestamp.Hour())
}

func TestSelectLatestTimestamplessSortLast(t *testing.T) {
	// Records without any timestamp field sort after every timestamped one,
	// regardless of input position.
	records := []observation.Record{
		{"temperatura": "99.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 6.0, "temperatura": "6.0"},
		{"temperatura": "98.0"},
	}

	obs := observation.SelectLatest(records)

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, 6.0, *obs.Temperature, 1e-9)
}

func TestSelectLatestSkipsRecordsWithoutTemperature(t *testing.T) {
	// The newest record has no temperature; selection keeps scanning down
	// the sorted order.
	records := []observation.Record{
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 12.0, "temperatura": "12.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 18.0},
	}

	obs := observation.SelectLatest(records)

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, 12.0, *obs.Temperature, 1e-9)
	assert.Equal(t, 12, obs.Timestamp.Hour())
}

func TestSelectLatestStableOnDuplicateTimestamps(t *testing.T) {
	// Equal timestamps keep input order, so the first of the duplicates wins.
	records := []observation.Record{
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 12.0, "temperatura": "1.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 12.0, "temperatura": "2.0"},
	}

	obs := observation.SelectLatest(records)

	require.NotNil(t, obs.Temperature)
	assert.InEpsilon(t, 1.0, *obs.Temperature, 1e-9)
}

func TestSelectLatestDoesNotMutateInput(t *testing.T) {
	records := []observation.Record{
		{"temperatura": "99.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 14.0, "temperatura": "14.0"},
		{"data_pomiaru": "2024-05-01", "godzina_pomiaru": 10.0, "temperatura": "10.0"},
	}

	first := observation.SelectLatest(records)
	second := observation.SelectLatest(records)

	assert.Equal(t, first, second)

	// Input order untouched after selection.
	assert.Equal(t, "99.0", records[0]["temperatura"])
	assert.Equal(t, 14.0, records[1]["godzina_pomiaru"])
	assert.Equal(t, 10.0, records[2]["godzina_pomiaru"])
}

func TestStationNameFallback(t *testing.T) {
	tests := []struct {
		name     string
		record   observation.Record
		expected string
	}{
		{"polish key", observation.Record{"stacja": "Białystok"}, "Białystok"},
		{"english key", observation.Record{"station": "Warsaw"}, "Warsaw"},
		{"empty value skipped", observation.Record{"stacja": "", "station": "Warsaw"}, "Warsaw"},
		{"no key", observation.Record{}, "id=12295"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.record.StationName(12295))
		})
	}
}
