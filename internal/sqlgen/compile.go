// Package sqlgen compiles resolved query intents into read-only SQL over the
// transactions dataset. Every statement is assembled from fixed templates and
// numeric parameters only; free text from the user never reaches the SQL.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/tengeql/tengeql/internal/nlquery"
)

const detailProjection = "transaction_id, transaction_timestamp, merchant_city, transaction_type, transaction_amount_kzt, wallet_type, pos_entry_mode, mcc_category"

// Compile renders the SQL statement for a resolved intent. It returns false
// when the intent is unknown or the parameters it depends on are missing, in
// which case the caller should fall back to another SQL source.
func Compile(intent nlquery.Intent, params nlquery.Params) (string, bool) {
	switch intent {
	case nlquery.IntentCountTransactions:
		return "SELECT COUNT(*) AS total_transactions FROM transactions", true

	case nlquery.IntentAverageAmount:
		return "SELECT ROUND(AVG(transaction_amount_kzt), 2) AS average_amount FROM transactions WHERE transaction_amount_kzt IS NOT NULL", true

	case nlquery.IntentAverageAmountInMonth:
		if params.Month == nil {
			return "", false
		}
		where := []string{
			fmt.Sprintf("MONTH(transaction_timestamp) = %d", *params.Month),
			"transaction_amount_kzt IS NOT NULL",
		}
		if params.Year != nil {
			where = append(where, fmt.Sprintf("YEAR(transaction_timestamp) = %d", *params.Year))
		}
		return fmt.Sprintf(
			"SELECT ROUND(AVG(transaction_amount_kzt), 2) AS average_amount FROM transactions WHERE %s",
			strings.Join(where, " AND "),
		), true

	case nlquery.IntentTopCities:
		return fmt.Sprintf(
			"SELECT merchant_city, COUNT(*) AS transaction_count FROM transactions WHERE merchant_city IS NOT NULL AND merchant_city <> '' GROUP BY merchant_city ORDER BY transaction_count DESC LIMIT %d",
			params.TopN,
		), true

	case nlquery.IntentTransactionsInMonth:
		if params.Month == nil {
			return "", false
		}
		where := []string{fmt.Sprintf("MONTH(transaction_timestamp) = %d", *params.Month)}
		if params.Year != nil {
			where = append(where, fmt.Sprintf("YEAR(transaction_timestamp) = %d", *params.Year))
		}
		return fmt.Sprintf(
			"SELECT %s FROM transactions WHERE %s ORDER BY transaction_timestamp",
			detailProjection, strings.Join(where, " AND "),
		), true

	case nlquery.IntentTransactionsOnDate:
		if params.Month == nil || params.Day == nil {
			return "", false
		}
		where := []string{
			fmt.Sprintf("MONTH(transaction_timestamp) = %d", *params.Month),
			fmt.Sprintf("DAY(transaction_timestamp) = %d", *params.Day),
		}
		if params.Year != nil {
			where = append(where, fmt.Sprintf("YEAR(transaction_timestamp) = %d", *params.Year))
		}
		return fmt.Sprintf(
			"SELECT %s FROM transactions WHERE %s ORDER BY transaction_timestamp",
			detailProjection, strings.Join(where, " AND "),
		), true

	case nlquery.IntentTopMerchantsByRevenue:
		return fmt.Sprintf(
			"SELECT merchant_id, SUM(transaction_amount_kzt) AS total_revenue, COUNT(*) AS tx_count FROM transactions WHERE merchant_id IS NOT NULL GROUP BY merchant_id ORDER BY total_revenue DESC LIMIT %d",
			params.TopN,
		), true

	case nlquery.IntentDeclineRateByCard:
		if params.CardID == nil {
			return "", false
		}
		where := []string{fmt.Sprintf("card_id = %d", *params.CardID)}
		if params.Month != nil {
			where = append(where, fmt.Sprintf("MONTH(transaction_timestamp) = %d", *params.Month))
		}
		if params.Day != nil {
			where = append(where, fmt.Sprintf("DAY(transaction_timestamp) = %d", *params.Day))
		}
		if params.Year != nil {
			where = append(where, fmt.Sprintf("YEAR(transaction_timestamp) = %d", *params.Year))
		}
		return fmt.Sprintf(
			"SELECT SUM(CASE WHEN auth_status = 'Declined' THEN 1 ELSE 0 END) AS declined_count, COUNT(*) AS attempt_count, ROUND(100.0 * SUM(CASE WHEN auth_status = 'Declined' THEN 1 ELSE 0 END) / NULLIF(COUNT(*), 0), 2) AS decline_rate_pct FROM transactions WHERE %s",
			strings.Join(where, " AND "),
		), true
	}

	return "", false
}

// IsSingleRowAggregate reports whether a statement collapses to a single
// aggregate row: it applies an aggregate function without grouping. Such
// statements never need a protective row limit.
func IsSingleRowAggregate(sql string) bool {
	s := strings.ToLower(sql)
	hasAggregate := false
	for _, fn := range []string{"avg(", "sum(", "count(", "min(", "max("} {
		if strings.Contains(s, fn) {
			hasAggregate = true
			break
		}
	}
	return hasAggregate && !strings.Contains(s, " group by ")
}

// EnsureLimit appends a LIMIT clause to statements that could otherwise
// return unbounded result sets. Statements that already carry a limit, and
// single-row aggregates, pass through unchanged apart from trailing
// semicolon trimming when a limit is appended.
func EnsureLimit(sql string, limit int) string {
	if strings.Contains(strings.ToLower(sql), " limit ") || IsSingleRowAggregate(sql) {
		return sql
	}
	trimmed := strings.TrimRight(strings.TrimSpace(sql), ";")
	return fmt.Sprintf("%s LIMIT %d", trimmed, limit)
}
