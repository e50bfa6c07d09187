package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

type Booking struct {
	ID       int64     `db:"id" json:"id"`
	Start    time.Time `db:"start_date" json:"start"`
	End      time.Time `db:"end_date" json:"end"`
	ItemID   int64     `db:"item_id" json:"itemId"`
	BookerID int64     `db:"booker_id" json:"bookerId"`
	Status   Status    `db:"status" json:"status"`
}

// BookingDraft is the payload of booking creation. The booker comes from
// the X-Sharer-User-Id header, never from the body.
type BookingDraft struct {
	ItemID   int64      `json:"itemId" validate:"required,gt=0"`
	BookerID int64      `json:"-"`
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
}

// UnmarshalJSON accepts start and end with or without a zone.
func (d *BookingDraft) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemID int64      `json:"itemId"`
		Start  *Timestamp `json:"start"`
		End    *Timestamp `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.ItemID = raw.ItemID
	d.Start = raw.Start.ptr()
	d.End = raw.End.ptr()
	return nil
}

type BookingView struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Item   ItemShort `json:"item"`
	Booker UserShort `json:"booker"`
}

// Facet selects which bookings of an anchor user are listed.
type Facet string

const (
	FacetAll      Facet = "ALL"
	FacetCurrent  Facet = "CURRENT"
	FacetPast     Facet = "PAST"
	FacetFuture   Facet = "FUTURE"
	FacetWaiting  Facet = "WAITING"
	FacetRejected Facet = "REJECTED"
)

var facets = map[string]Facet{
	string(FacetAll):      FacetAll,
	string(FacetCurrent):  FacetCurrent,
	string(FacetPast):     FacetPast,
	string(FacetFuture):   FacetFuture,
	string(FacetWaiting):  FacetWaiting,
	string(FacetRejected): FacetRejected,
}

// ParseFacet accepts the facet names exactly as the API documents them.
func ParseFacet(s string) (Facet, bool) {
	f, ok := facets[strings.TrimSpace(s)]
	return f, ok
}

// Anchor says which foreign key a booking listing is anchored on.
type Anchor int

const (
	AnchorBooker Anchor = iota
	AnchorOwner
)

func (a Anchor) String() string {
	if a == AnchorOwner {
		return "owner"
	}
	return "booker"
}

type BookingFilter struct {
	Anchor   Anchor
	AnchorID int64
	Facet    Facet
	Now      time.Time
	Page     Page
}
