// Package query defines the execution contract for analytics SQL against a
// snapshot of the transactions dataset.
package query

import (
	"context"
	"time"
)

// SnapshotFile is one parquet object backing the transactions view for the
// duration of a single query.
type SnapshotFile struct {
	ObjectPath    string
	FileSizeBytes int64
}

type Request struct {
	SQL   string
	Files []SnapshotFile
}

type Result struct {
	Columns      []string
	Rows         [][]any
	ScannedFiles int
	ScannedBytes int64
	Duration     time.Duration
}

type Engine interface {
	Execute(ctx context.Context, request Request) (Result, error)
}
