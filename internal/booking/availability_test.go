package booking

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	a1, a2 := date(2026, 6, 10), date(2026, 6, 15)

	if !Overlaps(a1, a2, date(2026, 6, 12), date(2026, 6, 20)) {
		t.Fatal("expected partial overlap to be detected")
	}
	if !Overlaps(a1, a2, date(2026, 6, 1), date(2026, 6, 11)) {
		t.Fatal("expected overlap on the first night to be detected")
	}
	if !Overlaps(a1, a2, date(2026, 6, 11), date(2026, 6, 12)) {
		t.Fatal("expected contained range to overlap")
	}
	// Back-to-back stays share a calendar day but no night.
	if Overlaps(a1, a2, date(2026, 6, 15), date(2026, 6, 20)) {
		t.Fatal("check-in on another stay's check-out day must not overlap")
	}
	if Overlaps(a1, a2, date(2026, 6, 5), date(2026, 6, 10)) {
		t.Fatal("check-out on another stay's check-in day must not overlap")
	}
}

func TestNights(t *testing.T) {
	if got := Nights(date(2026, 6, 10), date(2026, 6, 15)); got != 5 {
		t.Fatalf("nights = %d, want 5", got)
	}
	if got := Nights(date(2026, 12, 31), date(2027, 1, 1)); got != 1 {
		t.Fatalf("nights across year boundary = %d, want 1", got)
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2026, 6, 10, 17, 45, 12, 999, time.FixedZone("X", 3*3600))
	got := Day(in)
	want := date(2026, 6, 10)
	if !got.Equal(want) {
		t.Fatalf("Day(%v) = %v, want %v", in, got, want)
	}
}
