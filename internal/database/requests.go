package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

const requestColumns = `id, author_id, description, created`

func (db *DB) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	query := db.Rebind(`INSERT INTO requests (author_id, description, created) VALUES (?, ?, ?) RETURNING id`)
	err := db.QueryRowxContext(ctx, query, req.AuthorID, req.Description, req.Created.UTC()).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", translate(err))
	}
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var req models.ItemRequest
	query := db.Rebind(`SELECT ` + requestColumns + ` FROM requests WHERE id = ?`)
	if err := db.GetContext(ctx, &req, query, id); err != nil {
		return nil, fmt.Errorf("failed to get request %d: %w", id, translate(err))
	}
	return &req, nil
}

func (db *DB) ListRequestsByAuthor(ctx context.Context, authorID int64) ([]*models.ItemRequest, error) {
	var reqs []*models.ItemRequest
	query := db.Rebind(`SELECT ` + requestColumns + ` FROM requests WHERE author_id = ? ORDER BY id DESC`)
	if err := db.SelectContext(ctx, &reqs, query, authorID); err != nil {
		return nil, fmt.Errorf("failed to list requests of user %d: %w", authorID, err)
	}
	return reqs, nil
}

// ListRequestsExcept pages through the requests of everyone but userID, newest first.
func (db *DB) ListRequestsExcept(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error) {
	var reqs []*models.ItemRequest
	query := db.Rebind(`SELECT ` + requestColumns + ` FROM requests
              WHERE author_id <> ? ORDER BY id DESC LIMIT ? OFFSET ?`)
	if err := db.SelectContext(ctx, &reqs, query, userID, page.Limit, page.Offset); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}
