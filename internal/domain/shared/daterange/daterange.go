package daterange

import (
	"errors"
	"iter"
	"time"
)

var ErrEndBeforeStart = errors.New("daterange: end date is before start date")

// Range is an end-INCLUSIVE span of calendar days [Start, End].
// Start == End is a valid one-day range. Both bounds are normalized to
// midnight UTC, so two ranges sharing a boundary day overlap.
type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: DayOf(start), End: DayOf(end)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrEndBeforeStart
	}
	if r.End.Before(r.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

// Days is the inclusive day count: [Jun 1, Jun 3] spans 3 days.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Nights is the number of billable nights, never less than one. A
// same-day range still bills a single night.
func (r Range) Nights() int {
	nights := r.Days() - 1
	if nights < 1 {
		return 1
	}
	return nights
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.End.Before(other.Start) && !other.End.Before(r.Start)
}

func (r Range) ContainsDay(t time.Time) bool {
	day := DayOf(t)
	return !day.Before(r.Start) && !day.After(r.End)
}

// EachDay yields every day of the range in order, Start through End
// inclusive. The sequence is lazy and meant for a single consumption pass.
func (r Range) EachDay() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
			if !yield(day) {
				return
			}
		}
	}
}

// DayOf truncates a timestamp to its calendar day at midnight UTC.
func DayOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
