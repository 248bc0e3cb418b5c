package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"kmadmin/internal/model"
)

// ErrUnsupportedKind is returned for kinds without row actions.
var ErrUnsupportedKind = errors.New("kind does not support this operation")

// GetRecord looks up one record of kind by its row identifier.
func GetRecord(ctx context.Context, q Querier, kind model.Kind, id string) (model.Record, error) {
	switch kind {
	case model.KindUser:
		return GetUser(ctx, q, id)
	case model.KindFile:
		n, err := parseID(id)
		if err != nil {
			return nil, err
		}
		return GetFile(ctx, q, n)
	case model.KindConfig:
		return GetConfig(ctx, q, id)
	case model.KindCluster:
		n, err := parseID(id)
		if err != nil {
			return nil, err
		}
		return GetCluster(ctx, q, n)
	default:
		return nil, fmt.Errorf("get %s: %w", kind, ErrUnsupportedKind)
	}
}

// DeleteRecord deletes one record of kind by its row identifier.
func DeleteRecord(ctx context.Context, q Querier, kind model.Kind, id string) error {
	switch kind {
	case model.KindUser:
		return DeleteUser(ctx, q, id)
	case model.KindFile:
		n, err := parseID(id)
		if err != nil {
			return err
		}
		return DeleteFile(ctx, q, n)
	case model.KindConfig:
		return DeleteConfig(ctx, q, id)
	default:
		return fmt.Errorf("delete %s: %w", kind, ErrUnsupportedKind)
	}
}

// PutRecord writes rec back, inserting it when it does not exist.
func PutRecord(ctx context.Context, q Querier, rec model.Record) error {
	switch r := rec.(type) {
	case model.User:
		return UpsertUser(ctx, q, r)
	case model.UploadedFile:
		err := UpdateFile(ctx, q, r)
		if errors.Is(err, ErrNotFound) {
			return InsertFileWithID(ctx, q, r)
		}
		return err
	case model.ConfigEntry:
		return UpsertConfig(ctx, q, r)
	case model.ClusterSummary:
		return UpsertCluster(ctx, q, r)
	case model.PartitionSummary:
		return UpsertPartition(ctx, q, r)
	default:
		return fmt.Errorf("put %T: %w", rec, ErrUnsupportedKind)
	}
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", id, err)
	}
	return n, nil
}
