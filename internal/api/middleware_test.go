package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	handler := RateLimitMiddleware(5)(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	handler := RateLimitMiddleware(3)(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
	}

	// 4th request should be rate-limited
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:5001"))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_KeysByClientHost(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:5000"))
	if w.Code != http.StatusOK {
		t.Errorf("second client should not be rate-limited, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:6000"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("first client should be rate-limited, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_ZeroDisables(t *testing.T) {
	handler := RateLimitMiddleware(0)(okHandler())

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")
	if len(rl.limiters) != 2 {
		t.Fatalf("expected 2 limiters, got %d", len(rl.limiters))
	}

	now = now.Add(limiterIdleTTL / 2)
	rl.allow("10.0.0.2")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	rl.allow("10.0.0.3")

	if _, ok := rl.limiters["10.0.0.1"]; ok {
		t.Error("idle client should have been evicted")
	}
	if _, ok := rl.limiters["10.0.0.2"]; !ok {
		t.Error("recently seen client should be kept")
	}
	if len(rl.limiters) != 2 {
		t.Errorf("expected 2 limiters after sweep, got %d", len(rl.limiters))
	}
}

func TestAccessTokenMiddleware(t *testing.T) {
	handler := AccessTokenMiddleware("secret")(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}

func TestAccessTokenMiddleware_WrongBearer(t *testing.T) {
	handler := AccessTokenMiddleware("secret")(okHandler())

	for _, auth := range []string{"Bearer secrex", "Bearer secretsecret", "secret", "Basic secret"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%q: expected 401, got %d", auth, w.Code)
		}
	}
}

func TestAccessTokenMiddleware_QueryTokenSetsCookie(t *testing.T) {
	handler := AccessTokenMiddleware("secret")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/?token=secret", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with query token, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != TokenCookie || cookies[0].Value != "secret" {
		t.Fatalf("expected %s cookie, got %v", TokenCookie, cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("token cookie should be HttpOnly")
	}

	req := httptest.NewRequest("GET", "/api/v1/export.csv", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with cookie, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/?token=wrong", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong query token, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("wrong token must not set a cookie")
	}
}

func TestAccessTokenMiddleware_EmptyTokenIsOpen(t *testing.T) {
	handler := AccessTokenMiddleware("")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	called := false
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Error("inner handler was not called")
	}
	if w.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", w.Code)
	}
	if !strings.Contains(logs.String(), "status=418") {
		t.Errorf("expected status in log line, got %q", logs.String())
	}
}

