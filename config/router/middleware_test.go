package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akeren/waitlist-foundry/internal/log"
)

func serve(rs *RouterService, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestCORS_PreflightFromAllowedOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://landing.example.com, https://www.example.com")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
	req.Header.Set("Origin", "https://www.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := serve(rs, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://www.example.com" {
		t.Fatalf("unexpected Access-Control-Allow-Origin %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("POST missing from Access-Control-Allow-Methods %q", got)
	}
	if got := w.Header().Get("Vary"); !strings.Contains(got, "Origin") {
		t.Fatalf("expected Vary: Origin, got %q", got)
	}
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://landing.example.com")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.example.net")
	w := serve(rs, req)

	if w.Code != http.StatusOK {
		t.Fatalf("same request without CORS headers should still be served, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Access-Control-Allow-Origin, got %q", got)
	}
}

func TestCORS_UnsetDeniesEveryOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGIN", "")

	rs := newTestRouterService(t)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("Origin", "https://landing.example.com")
	w := serve(rs, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no Access-Control-Allow-Origin, got %q", got)
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	tests := []struct {
		name    string
		appEnv  string
		enabled string
		maxAge  string
		proto   string
		want    string
	}{
		{name: "production behind https proxy", appEnv: "production", proto: "https", want: "max-age=31536000; includeSubDomains"},
		{name: "production over plain http", appEnv: "production", proto: "http", want: ""},
		{name: "development", appEnv: "development", proto: "https", want: ""},
		{name: "explicitly enabled with custom max age", appEnv: "development", enabled: "true", maxAge: "600", proto: "https", want: "max-age=600; includeSubDomains"},
		{name: "explicitly disabled in production", appEnv: "production", enabled: "false", proto: "https", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.appEnv)
			t.Setenv("HSTS_ENABLED", tt.enabled)
			t.Setenv("HSTS_MAX_AGE", tt.maxAge)
			t.Setenv("HSTS_INCLUDE_SUBDOMAINS", "")

			rs := newTestRouterService(t)
			mountTestController(rs)

			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.Header.Set("X-Forwarded-Proto", tt.proto)
			w := serve(rs, req)

			if got := w.Header().Get("Strict-Transport-Security"); got != tt.want {
				t.Fatalf("Strict-Transport-Security = %q, want %q", got, tt.want)
			}
			if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Fatalf("X-Frame-Options = %q, want DENY", got)
			}
		})
	}
}

func TestTimeout_HandlerContextCarriesDeadline(t *testing.T) {
	rs := CreateRouterService(log.NewNopLogger(), nil, &RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    2 * time.Second,
	})

	var remaining time.Duration
	rs.MountController(NewRESTController("Deadline", "/deadline", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "", func(ctx *RequestContext) *ServiceResult {
			deadline, ok := ctx.Request.Context().Deadline()
			if !ok {
				return BodyResult(http.StatusInternalServerError, map[string]string{"error": "no deadline"})
			}
			remaining = time.Until(deadline)
			return BodyResult(http.StatusOK, map[string]bool{"ok": true})
		})
	}))

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/deadline", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if remaining <= 0 || remaining > 2*time.Second {
		t.Fatalf("expected deadline within the request timeout, got %s", remaining)
	}
}
