package availability

import (
	"errors"
	"iter"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

var ErrRangeTaken = errors.New("availability: range overlaps an existing reservation")

// Schedule is a read-only view over the confirmed reservations of one
// listing. It decides admission but never writes: the caller performs the
// insert inside the same unit of work so the overlap check and the write
// stay composable into one transaction.
type Schedule struct {
	ListingID listings.ListingID
	taken     []daterange.Range
}

func BuildSchedule(listingID listings.ListingID, reservations []*reservation.Reservation) *Schedule {
	s := &Schedule{ListingID: listingID}
	for _, r := range reservations {
		if r == nil {
			continue
		}
		s.taken = append(s.taken, r.Stay)
	}
	return s
}

// BlockedDates yields every calendar day covered by a confirmed
// reservation, in reservation order. Overlap-free by invariant, so the
// union needs no dedup. The sequence is lazy and single-pass; callers
// wanting a reusable set must collect it.
func (s *Schedule) BlockedDates() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for _, taken := range s.taken {
			for day := range taken.EachDay() {
				if !yield(day) {
					return
				}
			}
		}
	}
}

func (s *Schedule) CanReserve(stay daterange.Range) bool {
	for _, taken := range s.taken {
		if taken.Overlaps(stay) {
			return false
		}
	}
	return true
}

// Admit validates a requested stay against the schedule. It is
// idempotent: repeated calls without an intervening insert return the
// same decision.
func (s *Schedule) Admit(stay daterange.Range) error {
	if err := stay.Validate(); err != nil {
		return err
	}
	if !s.CanReserve(stay) {
		return ErrRangeTaken
	}
	return nil
}
