package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kmadmin/internal/model"
)

const fileColumns = `id, file_name, file_md5, gmt_modify, operator, description`

func scanFile(s interface{ Scan(...any) error }) (model.UploadedFile, error) {
	var f model.UploadedFile
	err := s.Scan(&f.ID, &f.FileName, &f.FileMD5, &f.GmtModify, &f.Operator, &f.Description)
	return f, err
}

// ListFiles retrieves all uploaded file versions, newest first.
func ListFiles(ctx context.Context, q Querier) ([]model.UploadedFile, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+fileColumns+` FROM uploaded_files ORDER BY gmt_modify DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var results []model.UploadedFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		results = append(results, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return results, nil
}

// GetFile retrieves a single file version by ID.
func GetFile(ctx context.Context, q Querier, id int64) (model.UploadedFile, error) {
	f, err := scanFile(q.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM uploaded_files WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.UploadedFile{}, fmt.Errorf("file %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.UploadedFile{}, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// InsertFileWithID inserts a file version keeping its ID. Used by seeding
// and by undoing a delete.
func InsertFileWithID(ctx context.Context, q Querier, f model.UploadedFile) error {
	query := `INSERT INTO uploaded_files (` + fileColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := q.ExecContext(ctx, query, f.ID, f.FileName, f.FileMD5, f.GmtModify, f.Operator, f.Description); err != nil {
		return fmt.Errorf("failed to insert file with id: %w", err)
	}
	return nil
}

// UpdateFile updates the editable fields of a file version.
func UpdateFile(ctx context.Context, q Querier, f model.UploadedFile) error {
	query := `
		UPDATE uploaded_files
		SET file_name = ?, file_md5 = ?, gmt_modify = ?, operator = ?, description = ?
		WHERE id = ?
	`
	res, err := q.ExecContext(ctx, query, f.FileName, f.FileMD5, f.GmtModify, f.Operator, f.Description, f.ID)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("file %d", f.ID))
}

// DeleteFile deletes a file version by ID.
func DeleteFile(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM uploaded_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return checkAffected(res, fmt.Sprintf("file %d", id))
}
