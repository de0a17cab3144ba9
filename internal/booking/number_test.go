package booking

import (
	"regexp"
	"testing"
	"time"
)

func TestNewReservationNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^RNT-2026-\d{4}$`)
	for i := 0; i < 100; i++ {
		n := NewReservationNumber(now)
		if !pattern.MatchString(n) {
			t.Fatalf("reservation number %q does not match RNT-<year>-<4 digits>", n)
		}
	}
}
