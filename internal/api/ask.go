package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tengeql/tengeql/internal/config"
	"github.com/tengeql/tengeql/internal/nl2sql"
	"github.com/tengeql/tengeql/internal/nlquery"
	"github.com/tengeql/tengeql/internal/observability"
	"github.com/tengeql/tengeql/internal/query"
	"github.com/tengeql/tengeql/internal/sqlgen"
)

type askParams struct {
	TopN   int     `json:"top_n"`
	Month  *int    `json:"month"`
	Day    *int    `json:"day"`
	Year   *int    `json:"year"`
	City   *string `json:"city"`
	CardID *int64  `json:"card_id"`
	Limit  int     `json:"limit"`
}

type askResponse struct {
	Query    string           `json:"query"`
	Language string           `json:"language"`
	Intent   string           `json:"intent"`
	Params   askParams        `json:"params"`
	SQL      string           `json:"sql"`
	Count    int              `json:"count"`
	Result   []map[string]any `json:"result"`
	Stats    askStats         `json:"stats"`
}

type askStats struct {
	ScannedFiles int   `json:"scanned_files"`
	ScannedBytes int64 `json:"scanned_bytes"`
	DurationMS   int64 `json:"duration_ms"`
}

func handleAsk(cfg config.Config, deps Dependencies, w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	question := r.URL.Query().Get("query")
	if question == "" {
		writeError(ctx, w, http.StatusBadRequest, "MISSING_QUERY", "query parameter is required", false, nil)
		return
	}

	limit := cfg.Dataset.DefaultRowLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", false, nil)
			return
		}
		limit = parsed
	}

	params := nlquery.Extract(question, limit)
	language := "en"
	if deps.Language != nil {
		language = deps.Language.Detect(question)
	}
	intent := deps.Intents.Resolve(ctx, question, params)

	if deps.Logger != nil {
		deps.Logger.InfoContext(ctx, "question received",
			slog.String("language", language),
			slog.String("intent", string(intent)),
		)
	}

	sqlText, compiled := sqlgen.Compile(intent, params)
	if !compiled && deps.Translator != nil {
		result, err := deps.Translator.Translate(ctx, nl2sql.Request{Question: question, Language: language})
		if err != nil {
			observability.IncrementLLMFallback("error")
			if deps.Logger != nil {
				deps.Logger.WarnContext(ctx, "llm sql fallback failed", slog.Any("error", err))
			}
		} else {
			observability.IncrementLLMFallback("success")
			sqlText = result.SQL
			compiled = true
		}
	}
	if !compiled {
		observability.ObserveAsk(string(intent), -1, time.Since(start))
		writeError(ctx, w, http.StatusBadRequest, "SQL_NOT_GENERATED",
			"could not generate SQL for the question", false,
			map[string]any{"intent": string(intent)})
		return
	}

	sqlText = sqlgen.EnsureLimit(sqlText, limit)

	files, err := deps.Catalog.ListDatasetFiles(ctx)
	if err != nil {
		observability.ObserveAsk(string(intent), -1, time.Since(start))
		writeError(ctx, w, http.StatusInternalServerError, "CATALOG_UNAVAILABLE", err.Error(), true, nil)
		return
	}
	if len(files) == 0 {
		observability.ObserveAsk(string(intent), -1, time.Since(start))
		writeError(ctx, w, http.StatusServiceUnavailable, "DATASET_NOT_LOADED",
			"no dataset files are registered; run the loader first", true, nil)
		return
	}

	snapshot := make([]query.SnapshotFile, 0, len(files))
	for _, file := range files {
		snapshot = append(snapshot, query.SnapshotFile{
			ObjectPath:    file.ObjectPath,
			FileSizeBytes: file.FileSizeBytes,
		})
	}

	result, err := deps.QueryEngine.Execute(ctx, query.Request{SQL: sqlText, Files: snapshot})
	if err != nil {
		observability.ObserveAsk(string(intent), -1, time.Since(start))
		writeError(ctx, w, http.StatusInternalServerError, "QUERY_EXECUTION_FAILED", err.Error(), false,
			map[string]any{"intent": string(intent)})
		return
	}

	records := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		record := make(map[string]any, len(result.Columns))
		for i, column := range result.Columns {
			record[column] = row[i]
		}
		records = append(records, record)
	}

	observability.ObserveAsk(string(intent), len(records), time.Since(start))
	writeJSON(w, http.StatusOK, askResponse{
		Query:    question,
		Language: language,
		Intent:   string(intent),
		Params: askParams{
			TopN:   params.TopN,
			Month:  params.Month,
			Day:    params.Day,
			Year:   params.Year,
			City:   params.City,
			CardID: params.CardID,
			Limit:  limit,
		},
		SQL:    sqlText,
		Count:  len(records),
		Result: records,
		Stats: askStats{
			ScannedFiles: result.ScannedFiles,
			ScannedBytes: result.ScannedBytes,
			DurationMS:   result.Duration.Milliseconds(),
		},
	})
}
