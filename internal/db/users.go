package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kmadmin/internal/model"
)

// ListUsers retrieves all console users ordered by username.
func ListUsers(ctx context.Context, q Querier) ([]model.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT username, role FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var results []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		results = append(results, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return results, nil
}

// GetUser retrieves a single user by username.
func GetUser(ctx context.Context, q Querier, username string) (model.User, error) {
	var u model.User
	err := q.QueryRowContext(ctx, `SELECT username, role FROM users WHERE username = ?`, username).
		Scan(&u.Username, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpsertUser creates a user or updates its role.
func UpsertUser(ctx context.Context, q Querier, u model.User) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	query := `
		INSERT INTO users (username, role) VALUES (?, ?)
		ON CONFLICT(username) DO UPDATE SET role = excluded.role
	`
	if _, err := q.ExecContext(ctx, query, u.Username, u.Role); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// DeleteUser deletes a user by username.
func DeleteUser(ctx context.Context, q Querier, username string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("user %q", username))
}
