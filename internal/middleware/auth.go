package middleware

import (
	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// tokenFromRequest 依次从 Authorization 头和会话 Cookie 中读取令牌
func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func parseClaims(c *gin.Context, cfg *config.Config) *util.Claims {
	tokenString := tokenFromRequest(c, cfg.JWT.CookieName)
	if tokenString == "" {
		return nil
	}
	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		logger.Log.Debug("JWT parse failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		return nil
	}
	return claims
}

// AuthMiddleware 要求请求携带有效令牌
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseClaims(c, cfg)
		if claims == nil {
			util.Unauthorized(c)
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// TryAuthMiddleware 有令牌时解析登录用户，没有时按匿名用户继续
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := parseClaims(c, cfg); claims != nil {
			c.Set(util.ContextUserKey, claims)
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			return
		}
		c.Next()
	}
}
