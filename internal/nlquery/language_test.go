package nlquery

import "testing"

func TestLinguaDetector(t *testing.T) {
	detector := NewLinguaDetector()

	if got := detector.Detect("how many transactions happened in december"); got != "en" {
		t.Fatalf("Detect(en) = %q", got)
	}
	if got := detector.Detect("сколько транзакций было в декабре"); got != "ru" {
		t.Fatalf("Detect(ru) = %q", got)
	}
	if got := detector.Detect(""); got != "en" {
		t.Fatalf("Detect(empty) = %q, want en fallback", got)
	}
}
