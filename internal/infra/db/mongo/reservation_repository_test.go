package mongo

import (
	"testing"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
)

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

func stayOn(t *testing.T, listingID string, start, end int) *reservation.Reservation {
	t.Helper()
	r, err := daterange.New(day(start), day(end))
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return &reservation.Reservation{
		ID:        reservation.ReservationID("res-" + listingID),
		ListingID: listings.ListingID(listingID),
		GuestID:   "guest-1",
		Stay:      r,
	}
}

func claimKeys(t *testing.T, row *reservation.Reservation) map[string]bool {
	t.Helper()
	keys := map[string]bool{}
	for _, raw := range dayClaimDocuments(row) {
		doc, ok := raw.(dayClaimDocument)
		if !ok {
			t.Fatalf("claim document has type %T", raw)
		}
		if keys[doc.ID] {
			t.Fatalf("duplicate claim key %q within one stay", doc.ID)
		}
		keys[doc.ID] = true
	}
	return keys
}

func TestDayClaimsCoverEveryInclusiveDay(t *testing.T) {
	t.Parallel()

	row := stayOn(t, "lst-1", 1, 5)
	docs := dayClaimDocuments(row)
	if len(docs) != row.Stay.Days() {
		t.Fatalf("claims = %d, want %d", len(docs), row.Stay.Days())
	}
	for i, raw := range docs {
		doc := raw.(dayClaimDocument)
		want := day(1 + i).UnixMilli()
		if doc.Day != want {
			t.Errorf("claim[%d].Day = %d, want %d", i, doc.Day, want)
		}
		if doc.ListingID != "lst-1" || doc.ReservationID != string(row.ID) {
			t.Errorf("claim[%d] = %+v, want listing and reservation ids carried", i, doc)
		}
	}
}

// Overlapping stays must contend on the unique (listing_id, day) index,
// so two stays sharing even a single boundary day have to produce at
// least one identical claim key.
func TestDayClaimsCollideOnSharedBoundaryDay(t *testing.T) {
	t.Parallel()

	first := stayOn(t, "lst-1", 1, 5)
	second := stayOn(t, "lst-1", 5, 7)

	firstKeys := claimKeys(t, first)
	shared := 0
	for key := range claimKeys(t, second) {
		if firstKeys[key] {
			shared++
		}
	}
	if shared != 1 {
		t.Errorf("shared claim keys = %d, want exactly the boundary day", shared)
	}
}

func TestDayClaimsDifferAcrossListings(t *testing.T) {
	t.Parallel()

	sameDates := stayOn(t, "lst-2", 1, 5)
	for key := range claimKeys(t, sameDates) {
		if claimKeys(t, stayOn(t, "lst-1", 1, 5))[key] {
			t.Errorf("claim key %q collides across listings", key)
		}
	}
}
