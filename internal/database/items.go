package database

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/config"
	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	var items []*models.Item
	query := db.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id`)
	if err := db.SelectContext(ctx, &items, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list items of owner %d: %w", ownerID, err)
	}
	return items, nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	query := db.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE id = ?`)
	if err := db.GetContext(ctx, &item, query, id); err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, translate(err))
	}
	return &item, nil
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := db.Rebind(`INSERT INTO items (name, description, available, owner_id, request_id)
              VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := db.QueryRowxContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		item.RequestID,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", translate(err))
	}
	return nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := db.Rebind(`UPDATE items SET name = ?, description = ?, available = ?, request_id = ? WHERE id = ?`)
	res, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.RequestID, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}

// SearchItems returns available items whose name or description contains text,
// ignoring case. Blank text matches nothing.
func (db *DB) SearchItems(ctx context.Context, text string) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	lower := "ulower"
	if db.DriverName() == config.DriverPostgres {
		lower = "LOWER"
	}
	query := db.Rebind(`SELECT ` + itemColumns + ` FROM items
              WHERE available = ?
                AND (` + lower + `(name) LIKE ? ESCAPE '\' OR ` + lower + `(description) LIKE ? ESCAPE '\')
              ORDER BY id`)

	var items []*models.Item
	if err := db.SelectContext(ctx, &items, query, true, pattern, pattern); err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

func (db *DB) ListItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error) {
	var items []*models.Item
	query := db.Rebind(`SELECT ` + itemColumns + ` FROM items WHERE request_id = ? ORDER BY id DESC`)
	if err := db.SelectContext(ctx, &items, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to list items of request %d: %w", requestID, err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
