package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/parquet-go/parquet-go"

	"github.com/tengeql/tengeql/internal/catalog"
	"github.com/tengeql/tengeql/internal/storage"
)

type Options struct {
	// Rows is the total dataset size; FileRows caps each parquet file.
	Rows     int64
	FileRows int64
	Seed     int64
	Prefix   string
	LoadedBy string
	// Replace drops previously registered files before loading.
	Replace bool
}

type Result struct {
	Files     []catalog.DatasetFile
	TotalRows int64
}

type Loader struct {
	logger  *slog.Logger
	store   storage.ObjectStore
	catalog catalog.Repository
}

func New(logger *slog.Logger, store storage.ObjectStore, repo catalog.Repository) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, store: store, catalog: repo}
}

func (l *Loader) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Rows <= 0 {
		return Result{}, fmt.Errorf("rows must be positive")
	}
	fileRows := opts.FileRows
	if fileRows <= 0 || fileRows > opts.Rows {
		fileRows = opts.Rows
	}

	if opts.Replace {
		if err := l.replaceExisting(ctx); err != nil {
			return Result{}, err
		}
	}

	generator := NewGenerator(opts.Seed)
	result := Result{Files: make([]catalog.DatasetFile, 0)}
	part := 0

	for remaining := opts.Rows; remaining > 0; remaining -= fileRows {
		count := fileRows
		if count > remaining {
			count = remaining
		}
		part++

		rows := make([]Transaction, 0, count)
		for i := int64(0); i < count; i++ {
			rows = append(rows, generator.Next())
		}

		data, err := encodeParquet(rows)
		if err != nil {
			return result, err
		}

		objectPath := path.Join(opts.Prefix, fmt.Sprintf("part-%04d.parquet", part))
		if _, err := l.store.Put(ctx, objectPath, bytes.NewReader(data), int64(len(data)), "application/vnd.apache.parquet"); err != nil {
			return result, fmt.Errorf("upload %q: %w", objectPath, err)
		}

		file, err := l.catalog.RegisterDatasetFile(ctx, catalog.RegisterDatasetFileInput{
			ObjectPath:    objectPath,
			RowCount:      count,
			FileSizeBytes: int64(len(data)),
			LoadedBy:      opts.LoadedBy,
		})
		if err != nil {
			return result, err
		}

		l.logger.Info("dataset file loaded",
			slog.String("object_path", file.ObjectPath),
			slog.Int64("rows", file.RowCount),
			slog.Int64("bytes", file.FileSizeBytes),
		)
		result.Files = append(result.Files, file)
		result.TotalRows += count
	}

	return result, nil
}

func (l *Loader) replaceExisting(ctx context.Context) error {
	removed, err := l.catalog.DeleteDatasetFiles(ctx)
	if err != nil {
		return err
	}
	for _, file := range removed {
		if err := l.store.Delete(ctx, file.ObjectPath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("delete object %q: %w", file.ObjectPath, err)
		}
	}
	if len(removed) > 0 {
		l.logger.Info("replaced existing dataset", slog.Int("files_removed", len(removed)))
	}
	return nil
}

func encodeParquet(rows []Transaction) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[Transaction](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
