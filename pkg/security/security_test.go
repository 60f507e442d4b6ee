package security

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"onlinecourse_backend/internal/config"

	"github.com/gin-gonic/gin"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	r := newRouter(CORS(config.CORSConfig{AllowedOrigins: []string{"http://localhost:8080/"}}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8080" {
		t.Fatalf("allow-origin: got=%q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != allowedMethods {
		t.Fatalf("allow-methods: got=%q", got)
	}
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	r := newRouter(CORS(config.CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin: want empty got=%q", got)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, preflight)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("preflight status: want=%d got=%d", http.StatusForbidden, rec.Code)
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	r := newRouter(RateLimiter(config.RateLimitConfig{MaxRequests: 2, WindowMinutes: 60}))

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, last.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes: got=%v", codes)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After header")
	}
	var body struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(last.Body.Bytes(), &body); err != nil || body.Code != http.StatusTooManyRequests {
		t.Fatalf("body: err=%v code=%d", err, body.Code)
	}
}

func TestRateLimiterSkipsHealth(t *testing.T) {
	r := newRouter(RateLimiter(config.RateLimitConfig{MaxRequests: 1, WindowMinutes: 60}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("health call %d: want=200 got=%d", i, rec.Code)
		}
	}
}

func TestSecureHeaders(t *testing.T) {
	r := newRouter(Secure("debug"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("X-Frame-Options: got=%q", rec.Header().Get("X-Frame-Options"))
	}
	if rec.Header().Get("Content-Security-Policy") != pageCSP {
		t.Fatalf("CSP: got=%q", rec.Header().Get("Content-Security-Policy"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Fatalf("swagger should not carry CSP")
	}
}
