package models

import "time"

type Comment struct {
	ID       int64     `db:"id"`
	ItemID   int64     `db:"item_id"`
	AuthorID int64     `db:"author_id"`
	Text     string    `db:"text"`
	Created  time.Time `db:"created"`
}

type CommentDraft struct {
	ItemID   int64  `json:"-"`
	AuthorID int64  `json:"-"`
	Text     string `json:"text" validate:"required,max=512"`
}

type CommentView struct {
	ID         int64     `db:"id" json:"id"`
	Text       string    `db:"text" json:"text"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Created    time.Time `db:"created" json:"created"`
}
