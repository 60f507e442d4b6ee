package controller

import (
	"errors"
	"net/http"
	"onlinecourse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 领域错误到 HTTP 状态码及对外提示的映射
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{util.ErrUserExists, http.StatusConflict, "User already exists."},
	{util.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password."},
	{util.ErrMissingCredentials, http.StatusBadRequest, ""},
	{util.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes."},
	{util.ErrUserNotFound, http.StatusNotFound, ""},
	{util.ErrCourseNotFound, http.StatusNotFound, ""},
	{util.ErrLessonNotFound, http.StatusNotFound, ""},
	{util.ErrQuestionNotFound, http.StatusNotFound, ""},
	{util.ErrSubmissionNotFound, http.StatusNotFound, ""},
	{util.ErrProfileNotFound, http.StatusNotFound, ""},
	{util.ErrProfileExists, http.StatusConflict, ""},
	{util.ErrNotEnrolled, http.StatusForbidden, ""},
	{util.ErrPermissionDenied, http.StatusForbidden, ""},
	{util.ErrInvalidChoiceID, http.StatusBadRequest, ""},
	{util.ErrTooManyChoices, http.StatusBadRequest, ""},
	{util.ErrInvalidGrade, http.StatusBadRequest, ""},
	{util.ErrChoiceNotFound, http.StatusBadRequest, ""},
	{util.ErrInvalidOccupation, http.StatusBadRequest, ""},
	{util.ErrInvalidImageType, http.StatusBadRequest, ""},
	{util.ErrInvalidPubDateFilter, http.StatusBadRequest, ""},
}

// classifyError 返回已知错误对应的状态码和提示，未知错误返回 false
func classifyError(err error) (int, string, bool) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			msg := e.message
			if msg == "" {
				msg = e.err.Error()
			}
			return e.status, msg, true
		}
	}
	return 0, "", false
}

// respondError JSON 接口统一错误输出
func respondError(ctx *gin.Context, err error) {
	if status, msg, ok := classifyError(err); ok {
		util.Error(ctx, status, msg)
		return
	}
	util.LogInternalError(ctx, err)
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}
