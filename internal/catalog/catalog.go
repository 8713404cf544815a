// Package catalog defines the metadata registry for the transactions
// dataset: which parquet files exist, where they live in the object store,
// and who loaded them.
package catalog

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("catalog: not found")

type Repository interface {
	HealthCheck(ctx context.Context) error
	RegisterDatasetFile(ctx context.Context, in RegisterDatasetFileInput) (DatasetFile, error)
	ListDatasetFiles(ctx context.Context) ([]DatasetFile, error)
	DeleteDatasetFiles(ctx context.Context) ([]DatasetFile, error)
}

type DatasetFile struct {
	FileID        int64
	ObjectPath    string
	RowCount      int64
	FileSizeBytes int64
	LoadedBy      string
	LoadedAt      time.Time
}

type RegisterDatasetFileInput struct {
	ObjectPath    string
	RowCount      int64
	FileSizeBytes int64
	LoadedBy      string
}
