package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kmadmin/internal/model"
)

// ListConfigs retrieves all platform config entries ordered by key.
func ListConfigs(ctx context.Context, q Querier) ([]model.ConfigEntry, error) {
	query := `
		SELECT config_key, config_value, gmt_modify, config_description
		FROM configs
		ORDER BY config_key
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list configs: %w", err)
	}
	defer rows.Close()

	var results []model.ConfigEntry
	for rows.Next() {
		var c model.ConfigEntry
		if err := rows.Scan(&c.ConfigKey, &c.ConfigValue, &c.GmtModify, &c.ConfigDescription); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config rows: %w", err)
	}

	return results, nil
}

// GetConfig retrieves a single config entry by key.
func GetConfig(ctx context.Context, q Querier, key string) (model.ConfigEntry, error) {
	query := `
		SELECT config_key, config_value, gmt_modify, config_description
		FROM configs
		WHERE config_key = ?
	`
	var c model.ConfigEntry
	err := q.QueryRowContext(ctx, query, key).Scan(&c.ConfigKey, &c.ConfigValue, &c.GmtModify, &c.ConfigDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ConfigEntry{}, fmt.Errorf("config %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return model.ConfigEntry{}, fmt.Errorf("failed to get config: %w", err)
	}
	return c, nil
}

// UpsertConfig creates a config entry or replaces its value and description.
func UpsertConfig(ctx context.Context, q Querier, c model.ConfigEntry) error {
	if c.ConfigKey == "" {
		return fmt.Errorf("config key is required")
	}
	query := `
		INSERT INTO configs (config_key, config_value, gmt_modify, config_description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(config_key) DO UPDATE SET
			config_value = excluded.config_value,
			gmt_modify = excluded.gmt_modify,
			config_description = excluded.config_description
	`
	if _, err := q.ExecContext(ctx, query, c.ConfigKey, c.ConfigValue, c.GmtModify, c.ConfigDescription); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// DeleteConfig deletes a config entry by key.
func DeleteConfig(ctx context.Context, q Querier, key string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM configs WHERE config_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("config %q", key))
}
