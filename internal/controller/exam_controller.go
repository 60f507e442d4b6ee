package controller

import (
	"onlinecourse_backend/internal/service"
	"onlinecourse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// SubmitRequest 考试提交
// swagger:model SubmitRequest
type SubmitRequest struct {
	ChoiceIDs []uint `json:"choiceIds"`
}

// Submit godoc
// @Summary 提交考试
// @Description 记录所选选项，不存在的选项ID被忽略；未选课返回 403
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body SubmitRequest true "所选选项"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "未选该课程"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /courses/{id}/submissions [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	choiceIDs, err := service.NormalizeChoiceIDs(req.ChoiceIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	submissionID, err := c.ExamService.Submit(ctx.Request.Context(), claims.UserID, courseID, choiceIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"submissionId": submissionID})
}

// Result godoc
// @Summary 考试结果
// @Description 每次请求重新计算得分，仅提交者本人或管理员可查看
// @Tags 考试
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   submissionId path int true "提交ID"
// @Success 200 {object} util.Response{data=service.ResultView}
// @Failure 403 {object} util.Response "无权查看"
// @Failure 404 {object} util.Response "提交不存在"
// @Router /courses/{id}/submissions/{submissionId}/result [get]
func (c *ExamController) Result(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	submissionID, ok := parseIDParam(ctx, "submissionId")
	if !ok {
		return
	}

	view, err := c.ExamService.Result(ctx.Request.Context(), util.GetUserFromContext(ctx), courseID, submissionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
