package frame

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Length is the fixed size of every transmitted frame: ttttt//dd::
const Length = 11

const tempFieldWidth = 5

// Encode builds the fixed-width serial frame. The temperature field is 5
// characters with one decimal place: space-padded for non-negative values
// (" 12.3"), zero-padded between sign and digits for negative ones ("-05.4"),
// all spaces when absent. The hour field is the zero-padded timestamp hour,
// "00" when absent.
func Encode(temperature *float64, ts *time.Time) string {
	tempField := strings.Repeat(" ", tempFieldWidth)

	if temperature != nil {
		if *temperature < 0 {
			tempField = fmt.Sprintf("%05.1f", *temperature)
		} else {
			tempField = fmt.Sprintf("%5.1f", *temperature)
		}
	}

	hourField := "00"
	if ts != nil {
		hourField = fmt.Sprintf("%02d", ts.Hour())
	}

	out := tempField + "//" + hourField + "::"

	// Out-of-range temperatures can overflow the field; clamp to the fixed
	// frame size rather than desynchronizing the receiver.
	if len(out) != Length {
		if len(out) > Length {
			out = out[:Length]
		}

		out += strings.Repeat(" ", Length-len(out))
	}

	return out
}

// Sanitize returns the frame as transmittable bytes, replacing any non-ASCII
// rune with '?' instead of failing.
func Sanitize(s string) []byte {
	out := make([]byte, 0, len(s))

	for _, r := range s {
		if r > unicode.MaxASCII {
			out = append(out, '?')

			continue
		}

		out = append(out, byte(r))
	}

	return out
}
