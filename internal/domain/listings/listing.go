package listings

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleRequired = errors.New("listings: title is required")
	ErrHostRequired  = errors.New("listings: host is required")
	ErrGuestCount    = errors.New("listings: guest count must be at least 1")
	ErrNightlyPrice  = errors.New("listings: nightly price must be non-negative")
	ErrNotFound      = errors.New("listings: not found")
)

type ListingID string
type HostID string

// Listing is the bookable property snapshot the reservation and rating
// flows depend on. Listing management itself lives outside this service;
// rows arrive through fixtures or an upstream catalog sync.
type Listing struct {
	ID                ListingID
	Host              HostID
	Title             string
	Description       string
	NightlyPriceCents int64
	GuestCount        int
	RoomCount         int
	BathroomCount     int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
}

type CreateParams struct {
	ID                ListingID
	Host              HostID
	Title             string
	Description       string
	NightlyPriceCents int64
	GuestCount        int
	RoomCount         int
	BathroomCount     int
	Now               time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.GuestCount < 1 {
		return nil, ErrGuestCount
	}
	if params.NightlyPriceCents < 0 {
		return nil, ErrNightlyPrice
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Listing{
		ID:                params.ID,
		Host:              params.Host,
		Title:             strings.TrimSpace(params.Title),
		Description:       strings.TrimSpace(params.Description),
		NightlyPriceCents: params.NightlyPriceCents,
		GuestCount:        params.GuestCount,
		RoomCount:         params.RoomCount,
		BathroomCount:     params.BathroomCount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}
