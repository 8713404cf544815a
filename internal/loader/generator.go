// Package loader produces the synthetic KZT transactions dataset, encodes it
// as parquet, uploads it to the object store and registers each file in the
// catalog.
package loader

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Transaction mirrors the columns of the transactions view exposed to SQL.
type Transaction struct {
	TransactionID        string    `parquet:"transaction_id"`
	TransactionTimestamp time.Time `parquet:"transaction_timestamp,timestamp"`
	CardID               int64     `parquet:"card_id"`
	ExpiryDate           string    `parquet:"expiry_date"`
	IssuerBankName       string    `parquet:"issuer_bank_name"`
	MerchantID           int64     `parquet:"merchant_id"`
	MerchantMCC          int32     `parquet:"merchant_mcc"`
	MCCCategory          string    `parquet:"mcc_category"`
	MerchantCity         string    `parquet:"merchant_city"`
	TransactionType      string    `parquet:"transaction_type"`
	TransactionAmountKZT float64   `parquet:"transaction_amount_kzt"`
	TransactionCurrency  string    `parquet:"transaction_currency"`
	OriginalAmount       string    `parquet:"original_amount"`
	AcquirerCountryISO   string    `parquet:"acquirer_country_iso"`
	POSEntryMode         string    `parquet:"pos_entry_mode"`
	WalletType           string    `parquet:"wallet_type"`
	AuthStatus           string    `parquet:"auth_status"`
}

var (
	cities = []string{"Almaty", "Astana", "Shymkent", "Karaganda", "Aktobe", "Taraz", "Pavlodar", "Oskemen", "Atyrau", "Kostanay"}

	issuerBanks = []string{"Halyk Bank", "Kaspi Bank", "ForteBank", "Jusan Bank", "Bank CenterCredit", "Eurasian Bank"}

	mccCategories = map[int32]string{
		5411: "Grocery Stores",
		5812: "Restaurants",
		5541: "Fuel",
		5912: "Pharmacies",
		5999: "Retail",
		4111: "Transport",
		4899: "Telecom",
		7832: "Entertainment",
	}

	transactionTypes = []string{"Purchase", "Refund", "Cash Withdrawal", "P2P Transfer"}
	posEntryModes    = []string{"Chip", "Contactless", "Magnetic Stripe", "E-Commerce"}
	walletTypes      = []string{"", "", "", "ApplePay", "GooglePay", "SamsungPay"}
)

// Generator emits deterministic pseudo-random transactions for a given seed.
type Generator struct {
	rnd      *rand.Rand
	mccCodes []int32
	sequence int64
	start    time.Time
	span     time.Duration
}

func NewGenerator(seed int64) *Generator {
	codes := make([]int32, 0, len(mccCategories))
	for code := range mccCategories {
		codes = append(codes, code)
	}
	// Map order is random; sort so equal seeds give equal datasets.
	for i := 1; i < len(codes); i++ {
		for j := i; j > 0 && codes[j-1] > codes[j]; j-- {
			codes[j-1], codes[j] = codes[j], codes[j-1]
		}
	}
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &Generator{
		rnd:      rand.New(rand.NewSource(seed)),
		mccCodes: codes,
		start:    start,
		span:     365 * 24 * time.Hour,
	}
}

func (g *Generator) Next() Transaction {
	g.sequence++

	timestamp := g.start.Add(time.Duration(g.rnd.Int63n(int64(g.span))))
	mcc := g.mccCodes[g.rnd.Intn(len(g.mccCodes))]
	amount := round2(200 + g.rnd.Float64()*148000)

	authStatus := "Approved"
	if g.rnd.Intn(100) < 8 {
		authStatus = "Declined"
	}

	expiry := timestamp.AddDate(2+g.rnd.Intn(3), g.rnd.Intn(12), 0)

	return Transaction{
		TransactionID:        fmt.Sprintf("txn-%012d", g.sequence),
		TransactionTimestamp: timestamp,
		CardID:               int64(1000 + g.rnd.Intn(9000)),
		ExpiryDate:           expiry.Format("01/06"),
		IssuerBankName:       pickOne(g.rnd, issuerBanks),
		MerchantID:           int64(100000 + g.rnd.Intn(900)),
		MerchantMCC:          mcc,
		MCCCategory:          mccCategories[mcc],
		MerchantCity:         pickOne(g.rnd, cities),
		TransactionType:      pickOne(g.rnd, transactionTypes),
		TransactionAmountKZT: amount,
		TransactionCurrency:  "KZT",
		OriginalAmount:       fmt.Sprintf("%.2f KZT", amount),
		AcquirerCountryISO:   "KAZ",
		POSEntryMode:         pickOne(g.rnd, posEntryModes),
		WalletType:           pickOne(g.rnd, walletTypes),
		AuthStatus:           authStatus,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
