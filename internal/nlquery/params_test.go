package nlquery

import "testing"

func TestExtractSpecificDateEnglish(t *testing.T) {
	month, day, year := ExtractSpecificDate("show December 15 2023 transactions")
	if month == nil || *month != 12 {
		t.Fatalf("month = %v, want 12", month)
	}
	if day == nil || *day != 15 {
		t.Fatalf("day = %v, want 15", day)
	}
	if year == nil || *year != 2023 {
		t.Fatalf("year = %v, want 2023", year)
	}
}

func TestExtractSpecificDateRussian(t *testing.T) {
	month, day, year := ExtractSpecificDate("транзакции за 15 декабря 2023")
	if month == nil || *month != 12 {
		t.Fatalf("month = %v, want 12", month)
	}
	if day == nil || *day != 15 {
		t.Fatalf("day = %v, want 15", day)
	}
	if year == nil || *year != 2023 {
		t.Fatalf("year = %v, want 2023", year)
	}
}

func TestExtractSpecificDateKazakh(t *testing.T) {
	month, day, _ := ExtractSpecificDate("15 қазан бойынша транзакциялар")
	if month == nil || *month != 10 {
		t.Fatalf("month = %v, want 10", month)
	}
	if day == nil || *day != 15 {
		t.Fatalf("day = %v, want 15", day)
	}
}

func TestExtractSpecificDateWithoutMonthDiscardsDay(t *testing.T) {
	month, day, year := ExtractSpecificDate("show me 15 rows")
	if month != nil || day != nil || year != nil {
		t.Fatalf("got (%v, %v, %v), want all nil", month, day, year)
	}
}

func TestExtractMonthYearWithoutDay(t *testing.T) {
	month, year := ExtractMonthYear("average amount in july 2024")
	if month == nil || *month != 7 {
		t.Fatalf("month = %v, want 7", month)
	}
	if year == nil || *year != 2024 {
		t.Fatalf("year = %v, want 2024", year)
	}
}

func TestExtractMonthYearRussianStem(t *testing.T) {
	month, year := ExtractMonthYear("все операции за январь")
	if month == nil || *month != 1 {
		t.Fatalf("month = %v, want 1", month)
	}
	if year != nil {
		t.Fatalf("year = %v, want nil", year)
	}
}

func TestExtractMonthYearNoMatch(t *testing.T) {
	month, year := ExtractMonthYear("top merchants by revenue")
	if month != nil || year != nil {
		t.Fatalf("got (%v, %v), want nils", month, year)
	}
}

func TestExtractCity(t *testing.T) {
	city := ExtractCity("transactions in Almaty")
	if city == nil || *city != "Almaty" {
		t.Fatalf("city = %v, want Almaty", city)
	}
}

func TestExtractCityRejectsLowercase(t *testing.T) {
	if city := ExtractCity("transactions in almaty"); city != nil {
		t.Fatalf("city = %q, want nil", *city)
	}
}

func TestExtractCityRejectsTotalRevenue(t *testing.T) {
	if city := ExtractCity("merchants ranked by Total Revenue in city"); city != nil {
		t.Fatalf("city = %q, want nil", *city)
	}
	if city := ExtractCity("sorted in Revenue order"); city != nil {
		t.Fatalf("city = %q, want nil", *city)
	}
}

func TestExtractCardID(t *testing.T) {
	id := ExtractCardID("decline rate for CID:4821")
	if id == nil || *id != 4821 {
		t.Fatalf("card id = %v, want 4821", id)
	}
	if got := ExtractCardID("decline rate for cid four"); got != nil {
		t.Fatalf("card id = %v, want nil", *got)
	}
	id = ExtractCardID("card_id #77 declines")
	if id == nil || *id != 77 {
		t.Fatalf("card id = %v, want 77", id)
	}
}

func TestExtractTopN(t *testing.T) {
	if n := ExtractTopN("top 3 merchants by revenue", 100); n != 3 {
		t.Fatalf("topN = %d, want 3", n)
	}
	if n := ExtractTopN("топ-7 городов", 100); n != 7 {
		t.Fatalf("topN = %d, want 7", n)
	}
	if n := ExtractTopN("average amount", 100); n != 100 {
		t.Fatalf("topN = %d, want caller default 100", n)
	}
	if n := ExtractTopN("average amount", 0); n != DefaultTopN {
		t.Fatalf("topN = %d, want %d", n, DefaultTopN)
	}
	if n := ExtractTopN("top 0 merchants", 100); n != 1 {
		t.Fatalf("topN = %d, want clamp to 1", n)
	}
}

func TestExtractPrefersSpecificDateMonth(t *testing.T) {
	params := Extract("compare December 15 2023 with january", 100)
	if params.Month == nil || *params.Month != 12 {
		t.Fatalf("month = %v, want 12 from the day-bearing extractor", params.Month)
	}
	if params.Day == nil || *params.Day != 15 {
		t.Fatalf("day = %v, want 15", params.Day)
	}
}

func TestExtractFillsMonthWhenNoDay(t *testing.T) {
	params := Extract("average amount in july", 100)
	if params.Month == nil || *params.Month != 7 {
		t.Fatalf("month = %v, want 7", params.Month)
	}
	if params.Day != nil {
		t.Fatalf("day = %v, want nil", params.Day)
	}
	if params.TopN != 100 {
		t.Fatalf("topN = %d, want 100", params.TopN)
	}
}
