package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewNormalizesToUTCMidnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2026, time.June, 1, 18, 30, 0, 0, loc)
	end := time.Date(2026, time.June, 3, 2, 0, 0, 0, loc)

	r, err := New(start, end)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !r.Start.Equal(day(2026, time.June, 1)) {
		t.Errorf("start = %v, want June 1 midnight UTC", r.Start)
	}
	if !r.End.Equal(day(2026, time.June, 2)) {
		t.Errorf("end = %v, want June 2 midnight UTC", r.End)
	}
}

func TestNewRejectsEndBeforeStart(t *testing.T) {
	t.Parallel()

	_, err := New(day(2026, time.June, 5), day(2026, time.June, 4))
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("err = %v, want ErrEndBeforeStart", err)
	}
}

func TestNewAllowsSingleDayRange(t *testing.T) {
	t.Parallel()

	r, err := New(day(2026, time.June, 5), day(2026, time.June, 5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := r.Days(); got != 1 {
		t.Errorf("Days() = %d, want 1", got)
	}
	if got := r.Nights(); got != 1 {
		t.Errorf("Nights() = %d, want 1 for same-day range", got)
	}
}

func TestDaysAndNights(t *testing.T) {
	t.Parallel()

	r, err := New(day(2026, time.June, 1), day(2026, time.June, 5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := r.Days(); got != 5 {
		t.Errorf("Days() = %d, want 5", got)
	}
	if got := r.Nights(); got != 4 {
		t.Errorf("Nights() = %d, want 4", got)
	}
}

func TestOverlapsSharedBoundaryDay(t *testing.T) {
	t.Parallel()

	a, _ := New(day(2026, time.June, 1), day(2026, time.June, 5))
	b, _ := New(day(2026, time.June, 5), day(2026, time.June, 7))
	c, _ := New(day(2026, time.June, 6), day(2026, time.June, 7))

	if !a.Overlaps(b) {
		t.Error("ranges sharing June 5 should overlap")
	}
	if !b.Overlaps(a) {
		t.Error("overlap must be symmetric")
	}
	if a.Overlaps(c) {
		t.Error("adjacent but disjoint ranges should not overlap")
	}
}

func TestContainsDay(t *testing.T) {
	t.Parallel()

	r, _ := New(day(2026, time.June, 1), day(2026, time.June, 3))
	if !r.ContainsDay(day(2026, time.June, 1)) || !r.ContainsDay(day(2026, time.June, 3)) {
		t.Error("both bounds are inside an inclusive range")
	}
	if r.ContainsDay(day(2026, time.June, 4)) {
		t.Error("June 4 is outside the range")
	}
}

func TestEachDayYieldsInclusiveSequence(t *testing.T) {
	t.Parallel()

	r, _ := New(day(2026, time.June, 1), day(2026, time.June, 3))
	var got []time.Time
	for d := range r.EachDay() {
		got = append(got, d)
	}
	want := []time.Time{day(2026, time.June, 1), day(2026, time.June, 2), day(2026, time.June, 3)}
	if len(got) != len(want) {
		t.Fatalf("yielded %d days, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("day[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEachDayStopsEarly(t *testing.T) {
	t.Parallel()

	r, _ := New(day(2026, time.June, 1), day(2026, time.June, 30))
	count := 0
	for range r.EachDay() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("consumed %d days, want 2", count)
	}
}
