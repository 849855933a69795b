package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pandawa-internal/pandawa/internal/auth"
	_ "github.com/pandawa-internal/pandawa/testing"
)

type loginRecorder struct {
	results []string
}

func (l *loginRecorder) RecordLogin(result string) {
	l.results = append(l.results, result)
}

func newAuthRouter(t *testing.T, user *auth.User) (http.Handler, *loginRecorder) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens := auth.NewTokenStore(client, time.Hour)
	service := auth.NewService(&stubRepo{user: user}, tokens, &bumpRecorder{})
	metrics := &loginRecorder{}
	handler := auth.NewHandler(nil, service, metrics)

	r := chi.NewRouter()
	r.Use(auth.Middleware(service, nil))
	handler.MountRoutes(r)
	return r, metrics
}

func TestLoginEndpointSuccess(t *testing.T) {
	router, metrics := newAuthRouter(t, testUser(t, "rahasia123", true))

	body := strings.NewReader(`{"username":"tina","password":"rahasia123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Nama     string `json:"nama"`
			Role     string `json:"role"`
			Status   string `json:"status"`
		} `json:"user"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Token == "" {
		t.Fatalf("expected token in response")
	}
	if payload.User.Username != "tina" || payload.User.Role != "divisi" || payload.User.Status != "active" {
		t.Fatalf("unexpected user payload: %+v", payload.User)
	}
	if len(metrics.results) != 1 || metrics.results[0] != "success" {
		t.Fatalf("expected success metric, got %v", metrics.results)
	}

	// The issued token authenticates /me.
	meReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+payload.Token)
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, meReq)

	if meRes.Code != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", meRes.Code)
	}
	if !strings.Contains(meRes.Body.String(), `"username":"tina"`) {
		t.Fatalf("unexpected /me body: %s", meRes.Body.String())
	}
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	router, metrics := newAuthRouter(t, testUser(t, "rahasia123", true))

	body := strings.NewReader(`{"username":"tina","password":"salah"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem+json, got %s", ct)
	}
	if len(metrics.results) != 1 || metrics.results[0] != "rejected" {
		t.Fatalf("expected rejected metric, got %v", metrics.results)
	}
}

func TestLoginEndpointMissingFields(t *testing.T) {
	router, _ := newAuthRouter(t, testUser(t, "rahasia123", true))

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"tina"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", res.Code)
	}
}

func TestMeWithoutToken(t *testing.T) {
	router, _ := newAuthRouter(t, testUser(t, "rahasia123", true))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := auth.BearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
	req.Header.Set("Authorization", "Bearer abc123")
	if got := auth.BearerToken(req); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
	req.Header.Set("Authorization", "Basic abc123")
	if got := auth.BearerToken(req); got != "" {
		t.Fatalf("expected empty token for non-bearer scheme, got %q", got)
	}
}
