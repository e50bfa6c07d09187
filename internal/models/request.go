package models

import "time"

type ItemRequest struct {
	ID          int64     `db:"id"`
	AuthorID    int64     `db:"author_id"`
	Description string    `db:"description"`
	Created     time.Time `db:"created"`
}

type ItemRequestDraft struct {
	AuthorID    int64  `json:"-"`
	Description string `json:"description" validate:"required,max=1024"`
}

type ItemRequestView struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
