package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := db.SelectContext(ctx, &users, `SELECT id, name, email FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := db.Rebind(`SELECT id, name, email FROM users WHERE id = ?`)
	if err := db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, translate(err))
	}
	return &user, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := db.Rebind(`INSERT INTO users (name, email) VALUES (?, ?) RETURNING id`)
	if err := db.QueryRowxContext(ctx, query, user.Name, user.Email).Scan(&user.ID); err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := db.Rebind(`UPDATE users SET name = ?, email = ? WHERE id = ?`)
	res, err := db.ExecContext(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, translate(err))
	}
	if err := expectAffected(res); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
