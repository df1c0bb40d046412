// Package age measures how long ago things happened and how far away due
// dates are.
package age

import "time"

// Since returns how long before now then was. It reports false for a zero
// then. Times in the future count as zero.
func Since(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	if then.After(now) {
		return 0, true
	}
	return now.Sub(then), true
}

// CalendarDays returns the number of calendar days from from to to, counting
// each in its own location. It is negative when to is earlier.
func CalendarDays(from time.Time, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
