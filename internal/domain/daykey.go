package domain

import "time"

// DayKey maps a point in time to its calendar date as "YYYY-MM-DD",
// evaluated in the time's own location. Two timestamps share a key
// iff they fall on the same calendar day there.
//
// Conflict queries are scoped by this key, so an appointment that
// crosses midnight is invisible to a check run against the following
// day. Known boundary condition, kept deliberately.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back intervals, where one ends
// exactly when the other starts, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
