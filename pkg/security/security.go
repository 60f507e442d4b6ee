package security

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders = "Authorization, Content-Type, Accept, Origin, X-Requested-With"

	// 页面只用到本站资源和 jsdelivr 上的 bootstrap 样式
	pageCSP = "default-src 'self'; style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
		"img-src 'self' data: https:; form-action 'self'; frame-ancestors 'none'"
)

// CORS 仅对配置的来源放行，放行时允许携带会话 Cookie
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	originSet := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		originSet[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := origin != "" && originSet[origin]
		if allowed {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", allowedHeaders)
			h.Set("Access-Control-Allow-Methods", allowedMethods)
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions && origin != "" {
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 安全响应头；release 模式下经 TLS 访问时加 HSTS。
// swagger 页面依赖内联脚本，不加 CSP。
func Secure(mode string) gin.HandlerFunc {
	hsts := mode == "release"
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "same-origin")
		if !strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", pageCSP)
		}
		if hsts && c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// 不参与限流的路径：监控抓取和健康检查
var rateLimitExempt = map[string]bool{
	"/metrics":    true,
	"/api/health": true,
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端IP限流，窗口内最多 max_requests 次，允许一次性用满
func RateLimiter(cfg config.RateLimitConfig) gin.HandlerFunc {
	maxRequests := cfg.MaxRequests
	if maxRequests <= 0 {
		maxRequests = config.Default().RateLimit.MaxRequests
	}
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Duration(config.Default().RateLimit.WindowMinutes) * time.Minute
	}
	interval := window / time.Duration(maxRequests)

	store := make(map[string]*visitor)
	var mu sync.Mutex

	// 空闲超过两个窗口的IP清理掉
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			for ip, v := range store {
				if time.Since(v.lastSeen) > 2*window {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		if rateLimitExempt[c.Request.URL.Path] {
			c.Next()
			return
		}

		key := c.ClientIP()
		mu.Lock()
		v, ok := store[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Every(interval), maxRequests)}
			store[key] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			util.TooManyRequests(c, interval)
			return
		}
		c.Next()
	}
}
