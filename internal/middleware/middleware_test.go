package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"north_staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens(t *testing.T) *utils.TokenManager {
	t.Helper()
	tokens, err := utils.NewTokenManager("middleware-test", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tokens
}

func protectedRouter(tokens *utils.TokenManager, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuthMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(ContextUserIDKey),
			"email":   c.GetString(ContextUserEmailKey),
			"role":    c.GetString(ContextUserRoleKey),
		})
	})
	r.GET("/me", handlers...)
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	r := protectedRouter(tokens)
	token, _, err := tokens.GenerateAccessToken(7, "sam@example.com", "staff")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(r, tc.header)
			if w.Code != tc.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
		})
	}

	w := doGet(r, "Bearer "+token)
	if body := w.Body.String(); body != `{"email":"sam@example.com","role":"staff","user_id":7}` {
		t.Errorf("claims not propagated: %s", body)
	}
}

func TestAuthMiddlewareRejectsForeignToken(t *testing.T) {
	other, _ := utils.NewTokenManager("someone-else", time.Hour)
	token, _, _ := other.GenerateAccessToken(1, "a@example.com", "admin")

	w := doGet(protectedRouter(newTokens(t)), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	r := protectedRouter(tokens, "manager", "admin")

	staff, _, _ := tokens.GenerateAccessToken(1, "s@example.com", "staff")
	if w := doGet(r, "Bearer "+staff); w.Code != http.StatusForbidden {
		t.Errorf("staff: status = %d, want 403", w.Code)
	}
	manager, _, _ := tokens.GenerateAccessToken(2, "m@example.com", "Manager")
	if w := doGet(r, "Bearer "+manager); w.Code != http.StatusOK {
		t.Errorf("manager: status = %d, want 200", w.Code)
	}
}

func TestRateLimiterWithinLimit(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	for i := 0; i < 5; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Fatal("sixth request should be rate limited")
	}
}

func TestRateLimiterTokenRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.allow("1.2.3.4")
	if rl.allow("1.2.3.4") {
		t.Fatal("should be rate limited immediately")
	}
	now = now.Add(time.Minute)
	if !rl.allow("1.2.3.4") {
		t.Fatal("token should have refilled")
	}
}

func TestRateLimiterDifferentIPs(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.allow("1.1.1.1")
	if !rl.allow("2.2.2.2") {
		t.Fatal("different IP should have its own bucket")
	}
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Hour)
	rl.now = func() time.Time { return now }
	rl.allow("1.1.1.1")

	now = now.Add(11 * time.Minute)
	rl.sweep(10 * time.Minute)
	if len(rl.clients) != 0 {
		t.Fatalf("idle client should be dropped, have %d", len(rl.clients))
	}
}

func TestRateLimiterMiddleware429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	if code := send(); code != http.StatusNoContent {
		t.Fatalf("first request: %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d, want 429", code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	if len(generated) != 36 || w.Body.String() != generated {
		t.Errorf("expected generated uuid, header %q body %q", generated, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("incoming id not reused: %q", w.Header().Get(RequestIDHeader))
	}
}
