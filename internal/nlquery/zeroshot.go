package nlquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

type HFConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HFClassifier calls a hosted zero-shot classification model over the
// HuggingFace inference protocol. The client is built at most once; a failed
// initialization is cached so later requests short-circuit instead of
// retrying the load.
type HFClassifier struct {
	cfg HFConfig

	once    sync.Once
	client  *http.Client
	url     string
	initErr error
}

func NewHFClassifier(cfg HFConfig) *HFClassifier {
	return &HFClassifier{cfg: cfg}
}

func (c *HFClassifier) init() {
	baseURL := strings.TrimRight(strings.TrimSpace(c.cfg.BaseURL), "/")
	if baseURL == "" {
		c.initErr = fmt.Errorf("classifier base URL is required")
		return
	}
	model := strings.TrimSpace(c.cfg.Model)
	if model == "" {
		c.initErr = fmt.Errorf("classifier model is required")
		return
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		c.initErr = fmt.Errorf("classifier api key is required")
		return
	}
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c.url = baseURL + "/models/" + model
	c.client = &http.Client{Timeout: timeout}
}

func (c *HFClassifier) Classify(ctx context.Context, text string, labels []string) (string, error) {
	c.once.Do(c.init)
	if c.initErr != nil {
		return "", c.initErr
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("candidate labels are required")
	}

	payload := map[string]any{
		"inputs": text,
		"parameters": map[string]any{
			"candidate_labels": labels,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal classification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build classification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request classification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read classification response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("classification failed status=%d body=%s", resp.StatusCode, string(rawBody))
	}

	var parsed struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return "", fmt.Errorf("decode classification response: %w", err)
	}
	if len(parsed.Labels) == 0 {
		return "", fmt.Errorf("empty classification labels")
	}
	return parsed.Labels[0], nil
}
