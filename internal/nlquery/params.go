// Package nlquery resolves free-text analytics questions (English, Russian or
// Kazakh) into structured query parameters and a closed-set intent tag.
package nlquery

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultTopN is used when the question carries no explicit top-N count and
// the caller supplies no default of its own.
const DefaultTopN = 5

// Params holds everything the extractors could recover from a question.
// Absent values stay nil; absence is never an error.
type Params struct {
	Month  *int
	Day    *int
	Year   *int
	City   *string
	CardID *int64
	TopN   int
}

type monthName struct {
	name  string
	month int
}

var enMonths = []monthName{
	{"january", 1}, {"february", 2}, {"march", 3}, {"april", 4},
	{"may", 5}, {"june", 6}, {"july", 7}, {"august", 8},
	{"september", 9}, {"october", 10}, {"november", 11}, {"december", 12},
}

// Month stems are matched by substring containment so grammatical case
// endings ("декабря", "желтоқсанда") do not matter.
var ruMonthStems = []monthName{
	{"январ", 1}, {"феврал", 2}, {"март", 3}, {"апрел", 4},
	{"май", 5}, {"мая", 5}, {"мае", 5}, {"июн", 6}, {"июл", 7},
	{"август", 8}, {"сентябр", 9}, {"октябр", 10}, {"ноябр", 11}, {"декабр", 12},
}

var kkMonthStems = []monthName{
	{"қаңтар", 1}, {"ақпан", 2}, {"наурыз", 3}, {"сәуір", 4},
	{"мамыр", 5}, {"маусым", 6}, {"шілде", 7}, {"тамыз", 8},
	{"қыркүйек", 9}, {"қазан", 10}, {"қараша", 11}, {"желтоқсан", 12},
}

var (
	yearPattern   = regexp.MustCompile(`(19|20)\d{2}`)
	dayPattern    = regexp.MustCompile(`\b([0-3]?\d)\b`)
	cardIDPattern = regexp.MustCompile(`(?i)\b(?:cid|card[\s_-]?id)\s*[:#]?\s*(\d+)\b`)
	// Cyrillic letters are not word characters for RE2, so the Russian form
	// cannot carry a leading \b.
	topNCyrPattern = regexp.MustCompile(`топ[-\s]?(\d+)\b`)
	topNLatPattern = regexp.MustCompile(`\btop[-\s]?(\d+)\b`)
	// City capture runs against the original casing: the candidate must start
	// with an uppercase letter, which filters phrases like "by total revenue".
	cityPattern = regexp.MustCompile(`(?:в городе|город|in)\s+([A-Z][\w\s-]+)`)

	enMonthDayPatterns = buildEnMonthDayPatterns()
)

type monthDayPattern struct {
	month int
	re    *regexp.Regexp
}

func buildEnMonthDayPatterns() []monthDayPattern {
	patterns := make([]monthDayPattern, 0, len(enMonths))
	for _, m := range enMonths {
		patterns = append(patterns, monthDayPattern{
			month: m.month,
			re:    regexp.MustCompile(`\b` + m.name + `\s+([0-3]?\d)\b`),
		})
	}
	return patterns
}

// Extract runs every extractor over the question. The specific-date extractor
// wins over the month/year one: the latter only fills gaps when no day was
// found.
func Extract(query string, defaultTopN int) Params {
	month, day, year := ExtractSpecificDate(query)
	if day == nil {
		fallbackMonth, fallbackYear := ExtractMonthYear(query)
		if month == nil {
			month = fallbackMonth
		}
		if year == nil {
			year = fallbackYear
		}
	}
	return Params{
		Month:  month,
		Day:    day,
		Year:   year,
		City:   ExtractCity(query),
		CardID: ExtractCardID(query),
		TopN:   ExtractTopN(query, defaultTopN),
	}
}

// ExtractSpecificDate finds "December 15 [2023]" style dates, or a bare day
// token co-occurring with a Russian/Kazakh month stem ("15 декабря 2023").
// A day without a recognizable month yields no date at all.
func ExtractSpecificDate(query string) (month, day, year *int) {
	q := strings.ToLower(query)

	for _, pattern := range enMonthDayPatterns {
		m := pattern.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		d, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return intPtr(pattern.month), intPtr(d), findYear(q)
	}

	dayMatch := dayPattern.FindStringSubmatch(q)
	if dayMatch != nil {
		d, err := strconv.Atoi(dayMatch[1])
		if err == nil {
			for _, stems := range [][]monthName{ruMonthStems, kkMonthStems} {
				for _, stem := range stems {
					if strings.Contains(q, stem.name) {
						return intPtr(stem.month), intPtr(d), findYear(q)
					}
				}
			}
		}
	}

	return nil, nil, nil
}

// ExtractMonthYear is the day-less fallback: an English month name or a
// Russian/Kazakh stem plus an optional year anywhere in the text.
func ExtractMonthYear(query string) (month, year *int) {
	q := strings.ToLower(query)

	for _, m := range enMonths {
		if strings.Contains(q, m.name) {
			return intPtr(m.month), findYear(q)
		}
	}
	for _, stems := range [][]monthName{ruMonthStems, kkMonthStems} {
		for _, stem := range stems {
			if strings.Contains(q, stem.name) {
				return intPtr(stem.month), findYear(q)
			}
		}
	}
	return nil, nil
}

// ExtractCity matches text following "in" / "город" / "в городе". Captures
// whose first word is "Total" or "Revenue" (any case) are rejected: those come
// from aggregation phrasing, not geography.
func ExtractCity(query string) *string {
	m := cityPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	candidate := strings.TrimSpace(m[1])
	if candidate == "" {
		return nil
	}
	first := strings.Fields(candidate)[0]
	if strings.EqualFold(first, "total") || strings.EqualFold(first, "revenue") {
		return nil
	}
	return &candidate
}

// ExtractCardID matches "cid", "card id" or "card_id" (case-insensitive) with
// an optional ":" or "#" and a required trailing integer.
func ExtractCardID(query string) *int64 {
	m := cardIDPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// ExtractTopN matches "top 3" / "топ-5" forms; without a match it returns the
// caller's default (DefaultTopN when the default itself is not positive).
func ExtractTopN(query string, defaultN int) int {
	if defaultN <= 0 {
		defaultN = DefaultTopN
	}
	q := strings.ToLower(query)
	m := topNCyrPattern.FindStringSubmatch(q)
	if m == nil {
		m = topNLatPattern.FindStringSubmatch(q)
	}
	if m == nil {
		return defaultN
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultN
	}
	if n < 1 {
		return 1
	}
	return n
}

func findYear(lowered string) *int {
	m := yearPattern.FindString(lowered)
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return intPtr(y)
}

func intPtr(v int) *int { return &v }
