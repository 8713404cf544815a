package nl2sql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// transactionsSchema is the only table the model is allowed to reference.
// It matches the parquet layout produced by the loader.
const transactionsSchema = `TABLE transactions (
    transaction_id TEXT,
    transaction_timestamp TIMESTAMP,
    card_id INT,
    expiry_date TEXT,
    issuer_bank_name TEXT,
    merchant_id INT,
    merchant_mcc INT,
    mcc_category TEXT,
    merchant_city TEXT,
    transaction_type TEXT,
    transaction_amount_kzt DECIMAL,
    transaction_currency TEXT,
    original_amount TEXT,
    acquirer_country_iso TEXT,
    pos_entry_mode TEXT,
    wallet_type TEXT,
    auth_status TEXT
);`

var (
	fencedSQLPattern    = regexp.MustCompile("(?is)```sql\\s*(.*?)\\s*```")
	selectPrefixPattern = regexp.MustCompile(`(?is)^\s*select\b`)
	bannedSQLPattern    = regexp.MustCompile(`(?is)\b(update|delete|insert|create|alter|drop|truncate|grant|revoke)\b`)
)

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type OpenAITranslator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAITranslator(cfg OpenAIConfig) (*OpenAITranslator, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &OpenAITranslator{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(buildChatPayload(t.model, req))
	if err != nil {
		return Result{}, fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("request chat completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read chat response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Result{}, fmt.Errorf("chat completion failed status=%d body=%s", resp.StatusCode, string(rawRespBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, fmt.Errorf("empty chat completion choices")
	}

	sql, err := SanitizeSQL(parsed.Choices[0].Message.Content)
	if err != nil {
		return Result{}, err
	}
	return Result{
		SQL:      sql,
		Provider: "openai-compatible",
		Model:    t.model,
	}, nil
}

func buildChatPayload(model string, req Request) map[string]any {
	systemPrompt := "You convert a short natural-language analytics question into a SINGLE DuckDB SELECT query for the given schema. " +
		"Rules: " +
		"1) Output ONLY the SQL inside a ```sql code block. " +
		"2) Use table and column names exactly as in the schema. " +
		"3) NEVER use UPDATE/DELETE/INSERT/CREATE/ALTER/DROP. SELECT only. " +
		"4) If a month is mentioned, filter with MONTH(transaction_timestamp) and optional YEAR(). " +
		"5) If the user asks for top N, use ORDER BY and LIMIT N."
	userPrompt := fmt.Sprintf(
		"Schema:\n%s\n\nQuestion language: %s\n\nConvert this request into one safe DuckDB SELECT query.\n\nRequest: %s",
		transactionsSchema,
		req.Language,
		strings.TrimSpace(req.Question),
	)

	return map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.0,
	}
}

// SanitizeSQL extracts the statement from a model reply and enforces the
// read-only contract: a fenced sql block wins over the raw body, only the
// first statement survives, and anything that is not a plain SELECT is
// rejected.
func SanitizeSQL(content string) (string, error) {
	candidate := strings.TrimSpace(content)
	if match := fencedSQLPattern.FindStringSubmatch(candidate); match != nil {
		candidate = strings.TrimSpace(match[1])
	}
	if idx := strings.Index(candidate, ";"); idx >= 0 {
		candidate = strings.TrimSpace(candidate[:idx])
	}
	if candidate == "" {
		return "", fmt.Errorf("model returned empty SQL")
	}
	if !selectPrefixPattern.MatchString(candidate) {
		return "", fmt.Errorf("model returned a non-SELECT statement")
	}
	if match := bannedSQLPattern.FindString(candidate); match != "" {
		return "", fmt.Errorf("model SQL contains banned keyword %q", strings.ToLower(match))
	}
	return candidate, nil
}
