package duckdb

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tengeql/tengeql/internal/query"
	"github.com/tengeql/tengeql/internal/storage"
)

type txRow struct {
	TransactionID        string    `parquet:"transaction_id"`
	TransactionTimestamp time.Time `parquet:"transaction_timestamp,timestamp"`
	MerchantCity         string    `parquet:"merchant_city"`
	TransactionAmountKZT float64   `parquet:"transaction_amount_kzt"`
	AuthStatus           string    `parquet:"auth_status"`
}

func sampleRows() []txRow {
	base := time.Date(2023, time.December, 15, 10, 0, 0, 0, time.UTC)
	return []txRow{
		{TransactionID: "t1", TransactionTimestamp: base, MerchantCity: "Almaty", TransactionAmountKZT: 1200, AuthStatus: "Approved"},
		{TransactionID: "t2", TransactionTimestamp: base.Add(time.Hour), MerchantCity: "Astana", TransactionAmountKZT: 800, AuthStatus: "Declined"},
		{TransactionID: "t3", TransactionTimestamp: base.Add(48 * time.Hour), MerchantCity: "Almaty", TransactionAmountKZT: 500, AuthStatus: "Approved"},
	}
}

func TestExecuteCountsOverTransactionsView(t *testing.T) {
	parquetBytes, err := buildParquet(sampleRows())
	if err != nil {
		t.Fatalf("buildParquet() error = %v", err)
	}

	store := &memoryStore{objects: map[string][]byte{"datasets/transactions/part-0001.parquet": parquetBytes}}
	engine := NewEngine(store)

	result, err := engine.Execute(context.Background(), query.Request{
		SQL: "SELECT COUNT(*) AS total_transactions FROM transactions",
		Files: []query.SnapshotFile{{
			ObjectPath:    "datasets/transactions/part-0001.parquet",
			FileSizeBytes: int64(len(parquetBytes)),
		}},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d", len(result.Rows))
	}
	if result.Rows[0][0] != int64(3) {
		t.Fatalf("count = %#v", result.Rows[0][0])
	}
	if result.ScannedFiles != 1 || result.ScannedBytes != int64(len(parquetBytes)) {
		t.Fatalf("scanned = (%d, %d)", result.ScannedFiles, result.ScannedBytes)
	}
}

func TestExecuteFiltersByDate(t *testing.T) {
	parquetBytes, err := buildParquet(sampleRows())
	if err != nil {
		t.Fatalf("buildParquet() error = %v", err)
	}

	store := &memoryStore{objects: map[string][]byte{"datasets/transactions/part-0001.parquet": parquetBytes}}
	engine := NewEngine(store)

	result, err := engine.Execute(context.Background(), query.Request{
		SQL: "SELECT transaction_id FROM transactions WHERE MONTH(transaction_timestamp) = 12 AND DAY(transaction_timestamp) = 15 ORDER BY transaction_timestamp;",
		Files: []query.SnapshotFile{{
			ObjectPath:    "datasets/transactions/part-0001.parquet",
			FileSizeBytes: int64(len(parquetBytes)),
		}},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(result.Rows))
	}
	if result.Rows[0][0] != "t1" || result.Rows[1][0] != "t2" {
		t.Fatalf("rows = %#v", result.Rows)
	}
}

func TestExecuteRequiresFiles(t *testing.T) {
	engine := NewEngine(&memoryStore{})
	if _, err := engine.Execute(context.Background(), query.Request{SQL: "SELECT 1"}); err == nil {
		t.Fatal("expected error for empty snapshot")
	}
}

func buildParquet(rows []txRow) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[txRow](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Put(context.Context, string, io.Reader, int64, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.objects[key])), nil
}

func (m *memoryStore) Delete(context.Context, string) error {
	return nil
}
