package s3

import "testing"

func TestNormalizeKey(t *testing.T) {
	got, err := normalizeKey("/datasets/transactions/part-0001.parquet")
	if err != nil {
		t.Fatalf("normalizeKey() error = %v", err)
	}
	if got != "datasets/transactions/part-0001.parquet" {
		t.Fatalf("normalizeKey() = %q", got)
	}

	if _, err := normalizeKey("  "); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := normalizeKey("../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal key")
	}
}

func TestParseEndpoint(t *testing.T) {
	host, secure, err := parseEndpoint("https://minio.internal:9000", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if host != "minio.internal:9000" || !secure {
		t.Fatalf("parseEndpoint() = (%q, %v)", host, secure)
	}

	host, secure, err = parseEndpoint("localhost:9000", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if host != "localhost:9000" || secure {
		t.Fatalf("parseEndpoint() = (%q, %v)", host, secure)
	}

	if _, _, err := parseEndpoint("", false); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
}
