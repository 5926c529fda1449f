package domain

import "time"

// ReferenceTZ is the fixed timezone all daily boundaries are anchored to (UTC+6).
// Counters roll over at a fixed local hour in this zone, never in the caller's zone.
var ReferenceTZ = time.FixedZone("UTC+6", 6*60*60)

// DayString formats t as an ISO date in the reference timezone. Two timestamps
// belong to the same quota day exactly when their DayStrings are equal.
func DayString(t time.Time) string {
	return t.In(ReferenceTZ).Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same calendar day in the
// reference timezone.
func SameDay(a, b time.Time) bool {
	return DayString(a) == DayString(b)
}
