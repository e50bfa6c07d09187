package models

type Item struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Available   bool   `db:"available" json:"available"`
	OwnerID     int64  `db:"owner_id" json:"ownerId"`
	RequestID   *int64 `db:"request_id" json:"requestId,omitempty"`
}

// ItemDraft is the payload of item creation.
type ItemDraft struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=255"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

// ItemPatch carries a partial update; nil fields are left unchanged.
type ItemPatch struct {
	ID          int64   `json:"-"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,min=1,max=255"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId" validate:"omitempty,gt=0"`
}

func (p ItemPatch) Apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

// BookingRef points at a booking of an item without its dates.
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type ItemView struct {
	Item
	LastBooking *BookingRef   `json:"lastBooking"`
	NextBooking *BookingRef   `json:"nextBooking"`
	Comments    []CommentView `json:"comments"`
}

// ItemShort is the item projection embedded into booking views.
type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
