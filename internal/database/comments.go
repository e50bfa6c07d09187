package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := db.Rebind(`INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?) RETURNING id`)
	err := db.QueryRowxContext(ctx, query,
		comment.Text,
		comment.ItemID,
		comment.AuthorID,
		comment.Created.UTC(),
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", translate(err))
	}
	return nil
}

// ListCommentViews returns the comments of an item with author names, oldest first.
func (db *DB) ListCommentViews(ctx context.Context, itemID int64) ([]models.CommentView, error) {
	query := db.Rebind(`SELECT c.id, c.text, u.name AS author_name, c.created
              FROM comments c
              JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ?
              ORDER BY c.id`)

	comments := []models.CommentView{}
	if err := db.SelectContext(ctx, &comments, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list comments of item %d: %w", itemID, err)
	}
	for i := range comments {
		comments[i].Created = comments[i].Created.UTC()
	}
	return comments, nil
}
