package course

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// maxClockSeconds is the longest readout that still fits a time.Duration.
const maxClockSeconds = math.MaxInt64 / int64(time.Second)

// ParseClock converts a colon-delimited clock readout into whole seconds.
//
//	"1:02:03" → 3723   (h:m:s)
//	"10:00"   → 600    (m:s)
//	"45"      → 45     (s)
//
// Any other field count, an empty field, a non-numeric field, or a total too
// large for a time.Duration yields an *UnexpectedStateError, because it
// means the player UI changed format.
func ParseClock(readout string) (int, error) {
	text := strings.TrimSpace(readout)
	fields := strings.Split(text, ":")
	if len(fields) > 3 {
		return 0, &UnexpectedStateError{
			What:   "clock readout",
			Value:  readout,
			Reason: "expected 1 to 3 colon-separated fields, got " + strconv.Itoa(len(fields)),
		}
	}

	total := 0
	for _, field := range fields {
		field = strings.TrimSpace(field)
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return 0, &UnexpectedStateError{
				What:   "clock readout",
				Value:  readout,
				Reason: "field " + strconv.Quote(field) + " is not a non-negative integer",
			}
		}
		if int64(total) > (maxClockSeconds-int64(n))/60 {
			return 0, &UnexpectedStateError{
				What:   "clock readout",
				Value:  readout,
				Reason: "value out of range",
			}
		}
		total = total*60 + n
	}
	return total, nil
}

// RemainingWait returns how long playback still needs at speed, rounded to
// the nearest whole second. elapsed beyond total clamps to zero.
func RemainingWait(totalSeconds, elapsedSeconds int, speed float64) time.Duration {
	left := totalSeconds - elapsedSeconds
	if left <= 0 || speed <= 0 {
		return 0
	}
	seconds := math.Round(float64(left) / speed)
	return time.Duration(seconds) * time.Second
}
