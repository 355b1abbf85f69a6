package transfer

import "time"

// datesWithinTolerance reports whether a and b fall within toleranceHours
// of each other, regardless of which is earlier.
func datesWithinTolerance(a, b time.Time, toleranceHours int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(toleranceHours)*time.Hour
}
