// Package nl2sql turns natural-language analytics questions into a single
// read-only SELECT statement via a hosted chat-completion model. It is the
// fallback path for questions the deterministic intent compiler cannot serve.
package nl2sql

import "context"

type Request struct {
	Question string `json:"question"`
	Language string `json:"language"`
}

type Result struct {
	SQL      string `json:"sql"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}
