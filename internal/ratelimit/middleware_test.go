package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caseworks-hq/caseworks/internal/model"
)

type stubLimiter struct {
	allowed bool
	err     error
	lastKey string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.lastKey = key
	return s.allowed, s.err
}

func (s *stubLimiter) Close() error { return nil }

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func constKey(key string) KeyFunc {
	return func(*http.Request) string { return key }
}

func TestMiddlewareNilLimiterFailsOpen(t *testing.T) {
	next, called := okHandler()
	h := Middleware(nil, constKey("k"), nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/v1/cases/x/facts", nil))

	if !*called {
		t.Fatal("expected wrapped handler to run with a nil limiter")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMiddlewareEmptyKeySkipsLimiting(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	next, called := okHandler()
	h := Middleware(limiter, constKey(""), nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

	if !*called {
		t.Fatal("expected wrapped handler to run for an empty key")
	}
	if limiter.lastKey != "" {
		t.Fatalf("limiter should not be consulted, saw key %q", limiter.lastKey)
	}
}

func TestMiddlewareLimiterErrorFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("backend down")}
	next, called := okHandler()
	h := Middleware(limiter, constKey("k"), nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

	if !*called {
		t.Fatal("expected wrapped handler to run when the limiter errors")
	}
}

func TestMiddlewareDenialWritesEnvelope(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	next, called := okHandler()
	reqID := func(*http.Request) string { return "req-42" }
	h := Middleware(limiter, constKey("k"), reqID)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

	if *called {
		t.Fatal("wrapped handler must not run on denial")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After=1, got %q", got)
	}

	var envelope model.APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != model.ErrCodeRateLimited {
		t.Fatalf("expected code %q, got %q", model.ErrCodeRateLimited, envelope.Error.Code)
	}
	if envelope.Meta.RequestID != "req-42" {
		t.Fatalf("expected request id in meta, got %q", envelope.Meta.RequestID)
	}
}

func TestIPKeyFunc(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	if got := IPKeyFunc(r); got != "203.0.113.9" {
		t.Fatalf("expected bare IP, got %q", got)
	}

	r.RemoteAddr = "203.0.113.9"
	if got := IPKeyFunc(r); got != "203.0.113.9" {
		t.Fatalf("expected address passthrough, got %q", got)
	}
}
