package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"kmadmin/internal/logger"
	"kmadmin/internal/model"
)

// Fixture is the YAML layout accepted by Seed.
type Fixture struct {
	Users      []model.User             `yaml:"users"`
	Files      []model.UploadedFile     `yaml:"files"`
	Configs    []model.ConfigEntry      `yaml:"configs"`
	Clusters   []model.ClusterSummary   `yaml:"clusters"`
	Partitions []model.PartitionSummary `yaml:"partitions"`
}

// SeedStats counts the records loaded by Seed.
type SeedStats struct {
	Users      int
	Files      int
	Configs    int
	Clusters   int
	Partitions int
}

func (s SeedStats) String() string {
	return fmt.Sprintf("%d users, %d files, %d configs, %d clusters, %d partitions",
		s.Users, s.Files, s.Configs, s.Clusters, s.Partitions)
}

// Seed loads a YAML fixture in one transaction. Existing users, configs,
// clusters and partitions are replaced; files are replaced by id.
func Seed(ctx context.Context, db *sql.DB, r io.Reader) (SeedStats, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return SeedStats{}, fmt.Errorf("failed to parse fixture: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return SeedStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var stats SeedStats
	for _, u := range fx.Users {
		if err := UpsertUser(ctx, tx, u); err != nil {
			return SeedStats{}, err
		}
		stats.Users++
	}
	for _, f := range fx.Files {
		if _, err := tx.ExecContext(ctx, `DELETE FROM uploaded_files WHERE id = ?`, f.ID); err != nil {
			return SeedStats{}, fmt.Errorf("failed to replace file %d: %w", f.ID, err)
		}
		if err := InsertFileWithID(ctx, tx, f); err != nil {
			return SeedStats{}, err
		}
		stats.Files++
	}
	for _, c := range fx.Configs {
		if err := UpsertConfig(ctx, tx, c); err != nil {
			return SeedStats{}, err
		}
		stats.Configs++
	}
	for _, c := range fx.Clusters {
		if err := UpsertCluster(ctx, tx, c); err != nil {
			return SeedStats{}, err
		}
		stats.Clusters++
	}
	for _, p := range fx.Partitions {
		if err := UpsertPartition(ctx, tx, p); err != nil {
			return SeedStats{}, err
		}
		stats.Partitions++
	}

	if err := tx.Commit(); err != nil {
		return SeedStats{}, fmt.Errorf("failed to commit fixture: %w", err)
	}

	logger.FromContext(ctx).Info("fixture loaded",
		"users", stats.Users, "files", stats.Files, "configs", stats.Configs,
		"clusters", stats.Clusters, "partitions", stats.Partitions)
	return stats, nil
}
