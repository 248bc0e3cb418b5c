package ui

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"kmadmin/internal/action"
	"kmadmin/internal/db"
	"kmadmin/internal/logger"
	"kmadmin/internal/model"
)

func loadUsersCmd(ctx context.Context, database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		users, err := db.ListUsers(ctx, database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.UsersLoadedMsg{Users: users}
	}
}

func loadFilesCmd(ctx context.Context, database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		files, err := db.ListFiles(ctx, database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.FilesLoadedMsg{Files: files}
	}
}

func loadConfigsCmd(ctx context.Context, database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		configs, err := db.ListConfigs(ctx, database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ConfigsLoadedMsg{Configs: configs}
	}
}

func loadClustersCmd(ctx context.Context, database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		clusters, err := db.ListClusters(ctx, database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ClustersLoadedMsg{Clusters: clusters}
	}
}

func loadKindCmd(ctx context.Context, database *sql.DB, kind model.Kind) tea.Cmd {
	switch kind {
	case model.KindUser:
		return loadUsersCmd(ctx, database)
	case model.KindFile:
		return loadFilesCmd(ctx, database)
	case model.KindConfig:
		return loadConfigsCmd(ctx, database)
	default:
		return loadClustersCmd(ctx, database)
	}
}

func loadClusterDetailCmd(ctx context.Context, database *sql.DB, clusterID int64, tab int) tea.Cmd {
	return func() tea.Msg {
		cluster, err := db.GetCluster(ctx, database, clusterID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load cluster: %w", err)}
		}
		partitions, err := db.ListPartitions(ctx, database, clusterID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load partitions: %w", err)}
		}
		return model.ClusterDetailLoadedMsg{Cluster: cluster, Partitions: partitions, Tab: tab}
	}
}

func loadFileDetailCmd(ctx context.Context, database *sql.DB, fileID int64) tea.Cmd {
	return func() tea.Msg {
		file, err := db.GetFile(ctx, database, fileID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load file: %w", err)}
		}
		return model.FileDetailLoadedMsg{File: file}
	}
}

// editCmd looks the record up by the action's id before opening the form.
func editCmd(ctx context.Context, database *sql.DB, act action.Action) tea.Cmd {
	return func() tea.Msg {
		rec, err := db.GetRecord(ctx, database, act.Kind, act.ID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load %s for edit: %w", act.Kind, err)}
		}
		return model.EditRequestedMsg{Record: rec}
	}
}

// deleteCmd snapshots the record for undo, then runs the confirmation gate.
// The store delete only happens after the user answered yes.
func deleteCmd(ctx context.Context, database *sql.DB, c action.Confirmer, act action.Action) tea.Cmd {
	return func() tea.Msg {
		log := logger.FromContext(ctx).WithValues("kind", act.Kind.String())

		snapshot, err := db.GetRecord(ctx, database, act.Kind, act.ID)
		if err != nil {
			log.Error(err, "failed to load record before delete", "id", act.ID)
			return model.ErrorMsg{Err: fmt.Errorf("failed to load %s before delete: %w", act.Kind, err)}
		}

		del := func(ctx context.Context, id string) error {
			return db.DeleteRecord(ctx, database, act.Kind, id)
		}
		outcome, err := action.ConfirmDelete(logger.WithLogger(ctx, &log), c, deletePrompt(act), act.ID, del)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		if outcome == action.OutcomeDeclined {
			return model.DeleteCancelledMsg{}
		}
		return model.DeletedMsg{Kind: act.Kind, ID: act.ID, Deleted: snapshot}
	}
}

func deletePrompt(act action.Action) string {
	return fmt.Sprintf("%s Delete %s %s.", action.DefaultPrompt, singular(act.Kind), strconv.Quote(act.ID))
}

func singular(kind model.Kind) string {
	switch kind {
	case model.KindUser:
		return "user"
	case model.KindFile:
		return "file"
	case model.KindConfig:
		return "config"
	case model.KindCluster:
		return "cluster"
	default:
		return "partition"
	}
}
