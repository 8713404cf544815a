package nlquery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHFClassifierReturnsTopLabel(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"labels": []string{"top_cities", "average_amount"},
			"scores": []float64{0.92, 0.05},
		})
	}))
	defer server.Close()

	classifier := NewHFClassifier(HFConfig{
		BaseURL: server.URL,
		APIKey:  "hf-test",
		Model:   "facebook/bart-large-mnli",
	})
	label, err := classifier.Classify(context.Background(), "best cities", []string{"top_cities", "average_amount"})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if label != "top_cities" {
		t.Fatalf("label = %q, want top_cities", label)
	}
	if gotPath != "/models/facebook/bart-large-mnli" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["inputs"] != "best cities" {
		t.Fatalf("inputs = %v", gotBody["inputs"])
	}
}

func TestHFClassifierMissingKeyIsPermanentlyUnavailable(t *testing.T) {
	classifier := NewHFClassifier(HFConfig{BaseURL: "https://example.invalid", Model: "m"})
	if _, err := classifier.Classify(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	// Second call must fail the same way without re-initializing.
	if _, err := classifier.Classify(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("expected cached initialization error")
	}
}

func TestHFClassifierErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	classifier := NewHFClassifier(HFConfig{BaseURL: server.URL, APIKey: "hf-test", Model: "m"})
	if _, err := classifier.Classify(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
