package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthReflectsCatalogState(t *testing.T) {
	handler := newTestHandler(t, &fakeCatalog{}, &fakeEngine{}, nil)
	recorder := doAsk(t, handler, "/v1/health")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}

	handler = newTestHandler(t, &fakeCatalog{healthErr: errors.New("connection refused")}, &fakeEngine{}, nil)
	recorder = doAsk(t, handler, "/v1/health")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", recorder.Code)
	}
	assertErrorCode(t, recorder, "CATALOG_UNAVAILABLE")
}

func TestReadyRunsChecks(t *testing.T) {
	cfg := testConfig(t)
	deps := Dependencies{
		Catalog:     &fakeCatalog{},
		QueryEngine: &fakeEngine{},
		Language:    staticLanguage("en"),
		Readiness: func(context.Context) error {
			return errors.New("catalog dsn is not configured")
		},
	}
	handler := NewHandler(cfg, deps)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", recorder.Code)
	}
	assertErrorCode(t, recorder, "NOT_READY")
}

func TestMetricsEndpointServesPrometheus(t *testing.T) {
	handler := newTestHandler(t, &fakeCatalog{}, &fakeEngine{}, nil)
	recorder := doAsk(t, handler, "/v1/metrics")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	if recorder.Body.Len() == 0 {
		t.Fatal("empty metrics body")
	}
}

func TestCombineReadinessChecksStopsAtFirstFailure(t *testing.T) {
	calls := 0
	failing := func(context.Context) error {
		calls++
		return errors.New("nope")
	}
	never := func(context.Context) error {
		t.Fatal("check after failure must not run")
		return nil
	}
	combined := CombineReadinessChecks(nil, failing, never)
	if err := combined(context.Background()); err == nil {
		t.Fatal("expected combined check to fail")
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
