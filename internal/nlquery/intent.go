package nlquery

import (
	"context"
	"log/slog"
	"strings"
)

// Intent is the closed-set analytic category a question resolves to before
// SQL generation.
type Intent string

const (
	IntentCountTransactions     Intent = "count_transactions"
	IntentTopCities             Intent = "top_cities"
	IntentAverageAmount         Intent = "average_amount"
	IntentAverageAmountInMonth  Intent = "average_amount_in_month"
	IntentTransactionsInMonth   Intent = "transactions_in_month"
	IntentTransactionsOnDate    Intent = "transactions_on_date"
	IntentTopMerchantsByRevenue Intent = "top_merchants_by_revenue"
	IntentDeclineRateByCard     Intent = "decline_rate_by_card"
	IntentUnknown               Intent = "unknown"
)

// zeroShotLabels is the label set handed to the probabilistic fallback. The
// two compound intents are deliberately absent from it.
var zeroShotLabels = []string{
	string(IntentCountTransactions),
	string(IntentTopCities),
	string(IntentAverageAmount),
	string(IntentAverageAmountInMonth),
	string(IntentTransactionsInMonth),
	string(IntentTransactionsOnDate),
	string(IntentUnknown),
}

// Keyword families are multilingual literal stems tested by case-insensitive
// substring containment. A stem embedded inside a longer unrelated word still
// matches; that is a known limitation of the matching scheme, kept as is.
var (
	declineWords     = []string{"decline", "declined", "decline rate", "отказ", "отклон", "деклайн", "reject", "rejected"}
	cardIDWords      = []string{"cid", "card id", "card_id"}
	topWords         = []string{"top", "топ", "ең", "best", "most"}
	merchantWords    = []string{"merchant", "merchants", "мерчант", "мерчанты"}
	revenueWords     = []string{"revenue", "доход", "табыс", "выручка", "total revenue", "sum", "amount", "сумма"}
	averageWords     = []string{"average", "avg", "средн", "орташа"}
	containmentWords = []string{"в", "за", "in", "during", "ай", "айында"}
	transactionWords = []string{"transaction", "transactions", "транзакц", "операц", "all", "все"}
	countWords       = []string{"total", "count", "сколько", "саны", "число", "всего"}
	cityWords        = []string{"top", "топ", "cities", "город", "қала", "лучших"}
	amountWords      = []string{"average", "avg", "средн", "орташа", "amount", "сумм"}
)

// ZeroShotClassifier assigns one label from a candidate set to a text. It is
// a best-effort collaborator: errors are absorbed by the caller.
type ZeroShotClassifier interface {
	Classify(ctx context.Context, text string, labels []string) (string, error)
}

type intentRule struct {
	name   string
	intent Intent
	match  func(q string, p Params) bool
}

// rules is the ordered cascade. Evaluation stops at the first match, so
// precedence is positional, not score-based.
var rules = []intentRule{
	{
		name:   "specific_date",
		intent: IntentTransactionsOnDate,
		match:  func(_ string, p Params) bool { return p.Day != nil && p.Month != nil },
	},
	{
		name:   "decline_rate",
		intent: IntentDeclineRateByCard,
		match: func(q string, _ Params) bool {
			return containsAny(q, declineWords) && containsAny(q, cardIDWords)
		},
	},
	{
		name:   "top_merchants",
		intent: IntentTopMerchantsByRevenue,
		match: func(q string, _ Params) bool {
			if !containsAny(q, topWords) || !containsAny(q, merchantWords) {
				return false
			}
			// The revenue check is vestigial: both branches resolve to the
			// same intent. Kept to preserve the cascade's observed behavior.
			if containsAny(q, revenueWords) {
				return true
			}
			return true
		},
	},
	{
		name:   "average_in_month",
		intent: IntentAverageAmountInMonth,
		match: func(q string, p Params) bool {
			return p.Month != nil && containsAny(q, averageWords)
		},
	},
	{
		name:   "transactions_in_month",
		intent: IntentTransactionsInMonth,
		match: func(q string, p Params) bool {
			return p.Month != nil && containsAny(q, containmentWords) && containsAny(q, transactionWords)
		},
	},
	{
		name:   "count",
		intent: IntentCountTransactions,
		match:  func(q string, _ Params) bool { return containsAny(q, countWords) },
	},
	{
		name:   "top_cities",
		intent: IntentTopCities,
		match:  func(q string, _ Params) bool { return containsAny(q, cityWords) },
	},
	{
		name:   "average_amount",
		intent: IntentAverageAmount,
		match:  func(q string, _ Params) bool { return containsAny(q, amountWords) },
	},
}

// Classifier resolves a question to exactly one intent: the rule cascade
// first, then the zero-shot fallback, then "unknown". Resolution is total and
// never returns an error.
type Classifier struct {
	logger   *slog.Logger
	fallback ZeroShotClassifier
}

func NewClassifier(logger *slog.Logger, fallback ZeroShotClassifier) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, fallback: fallback}
}

func (c *Classifier) Resolve(ctx context.Context, query string, params Params) Intent {
	q := strings.ToLower(query)

	for _, rule := range rules {
		if rule.match(q, params) {
			return rule.intent
		}
	}

	if c.fallback == nil {
		return IntentUnknown
	}
	label, err := c.fallback.Classify(ctx, query, zeroShotLabels)
	if err != nil {
		c.logger.WarnContext(ctx, "zero-shot intent fallback failed", slog.Any("error", err))
		return IntentUnknown
	}
	return intentFromLabel(label)
}

func intentFromLabel(label string) Intent {
	candidate := Intent(strings.TrimSpace(label))
	for _, known := range zeroShotLabels {
		if candidate == Intent(known) {
			return candidate
		}
	}
	return IntentUnknown
}

func containsAny(haystack string, stems []string) bool {
	for _, stem := range stems {
		if strings.Contains(haystack, stem) {
			return true
		}
	}
	return false
}
