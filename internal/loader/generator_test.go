package loader

import (
	"testing"
	"time"
)

func TestGeneratorIsDeterministicPerSeed(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("generators diverged at row %d", i)
		}
	}
}

func TestGeneratorProducesValidTransactions(t *testing.T) {
	g := NewGenerator(1)
	seenDeclined := false
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	for i := 0; i < 2000; i++ {
		tx := g.Next()
		if tx.TransactionID == "" {
			t.Fatal("empty transaction id")
		}
		if tx.TransactionTimestamp.Before(start) || !tx.TransactionTimestamp.Before(end) {
			t.Fatalf("timestamp %v outside dataset year", tx.TransactionTimestamp)
		}
		if tx.TransactionAmountKZT <= 0 {
			t.Fatalf("amount = %v", tx.TransactionAmountKZT)
		}
		if tx.TransactionCurrency != "KZT" || tx.AcquirerCountryISO != "KAZ" {
			t.Fatalf("unexpected currency/country: %q %q", tx.TransactionCurrency, tx.AcquirerCountryISO)
		}
		if tx.MCCCategory == "" {
			t.Fatalf("missing category for mcc %d", tx.MerchantMCC)
		}
		switch tx.AuthStatus {
		case "Approved":
		case "Declined":
			seenDeclined = true
		default:
			t.Fatalf("auth status = %q", tx.AuthStatus)
		}
	}
	if !seenDeclined {
		t.Fatal("expected some declined transactions")
	}
}
