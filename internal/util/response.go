package util

import (
	"net/http"
	"strconv"
	"time"

	"onlinecourse_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 接口统一响应结构，code 与 HTTP 状态码一致
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 后台列表分页结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func write(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Code: code, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "ok", data)
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

// Deleted 删除成功，无返回数据
func Deleted(c *gin.Context) {
	write(c, http.StatusOK, "deleted", nil)
}

// Paged 返回一页后台列表数据
func Paged(c *gin.Context, list interface{}, total int64, page, limit int) {
	Success(c, PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

func Error(c *gin.Context, code int, message string) {
	write(c, code, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound what 为资源名，例如 "course"
func NotFound(c *gin.Context, what string) {
	Error(c, http.StatusNotFound, what+" not found")
}

// Unauthorized 未登录或令牌失效，同时终止后续处理
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Code:    http.StatusUnauthorized,
		Message: "Please log in first.",
	})
}

// Forbidden 已登录但角色不符，同时终止后续处理
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, Response{
		Code:    http.StatusForbidden,
		Message: "Staff permission required.",
	})
}

// TooManyRequests 限流拒绝，带 Retry-After 头
func TooManyRequests(c *gin.Context, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
		Code:    http.StatusTooManyRequests,
		Message: "Too many requests, please slow down.",
	})
}

// LogInternalError 记录未预期的错误并返回 500，已登录时带上用户ID
func LogInternalError(c *gin.Context, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	}
	if user := GetUserFromContext(c); user != nil {
		fields = append(fields, zap.Uint("userID", user.UserID))
	}
	logger.Log.Error("Internal server error", fields...)
	Error(c, http.StatusInternalServerError, "Internal server error")
}
