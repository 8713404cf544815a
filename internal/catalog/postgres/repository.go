package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tengeql/tengeql/internal/catalog"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping catalog db: %w", err)
	}
	return nil
}

func (r *Repository) RegisterDatasetFile(ctx context.Context, in catalog.RegisterDatasetFileInput) (catalog.DatasetFile, error) {
	if in.ObjectPath == "" {
		return catalog.DatasetFile{}, fmt.Errorf("object path is required")
	}

	query := `
INSERT INTO dataset_file (object_path, row_count, file_size_bytes, loaded_by)
VALUES ($1, $2, $3, $4)
RETURNING file_id, loaded_at`

	file := catalog.DatasetFile{
		ObjectPath:    in.ObjectPath,
		RowCount:      in.RowCount,
		FileSizeBytes: in.FileSizeBytes,
		LoadedBy:      in.LoadedBy,
	}
	if err := r.db.QueryRowContext(ctx, query, in.ObjectPath, in.RowCount, in.FileSizeBytes, in.LoadedBy).
		Scan(&file.FileID, &file.LoadedAt); err != nil {
		return catalog.DatasetFile{}, fmt.Errorf("register dataset file: %w", err)
	}
	return file, nil
}

func (r *Repository) ListDatasetFiles(ctx context.Context) ([]catalog.DatasetFile, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT file_id, object_path, row_count, file_size_bytes, loaded_by, loaded_at
FROM dataset_file
ORDER BY file_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list dataset files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make([]catalog.DatasetFile, 0)
	for rows.Next() {
		var file catalog.DatasetFile
		if err := rows.Scan(
			&file.FileID,
			&file.ObjectPath,
			&file.RowCount,
			&file.FileSizeBytes,
			&file.LoadedBy,
			&file.LoadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dataset file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dataset file rows: %w", err)
	}
	return files, nil
}

// DeleteDatasetFiles unregisters every dataset file and returns the removed
// entries so the caller can delete the backing objects as well.
func (r *Repository) DeleteDatasetFiles(ctx context.Context) ([]catalog.DatasetFile, error) {
	rows, err := r.db.QueryContext(ctx, `
DELETE FROM dataset_file
RETURNING file_id, object_path, row_count, file_size_bytes, loaded_by, loaded_at`)
	if err != nil {
		return nil, fmt.Errorf("delete dataset files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	files := make([]catalog.DatasetFile, 0)
	for rows.Next() {
		var file catalog.DatasetFile
		if err := rows.Scan(
			&file.FileID,
			&file.ObjectPath,
			&file.RowCount,
			&file.FileSizeBytes,
			&file.LoadedBy,
			&file.LoadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan deleted dataset file row: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted dataset file rows: %w", err)
	}
	return files, nil
}
