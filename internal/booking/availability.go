package booking

import "time"

// Overlaps reports whether two half-open date ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one night. Because the ranges are
// half-open, a reservation that ends exactly when another begins does
// not overlap: back-to-back bookings are legal.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights returns the number of nights between two dates at UTC midnight.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// Day truncates a timestamp to its date at UTC midnight. Check-in and
// check-out values are normalized through it before any comparison so
// that interval arithmetic never sees a time-of-day component.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
