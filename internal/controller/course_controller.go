package controller

import (
	"onlinecourse_backend/internal/service"
	"onlinecourse_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// TopCourses godoc
// @Summary 热门课程
// @Description 按选课人数降序返回课程，登录用户附带是否已选课
// @Tags 课程
// @Produce  json
// @Param   limit query int false "返回数量，默认取配置 course.top_limit"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /courses/top [get]
func (c *CourseController) TopCourses(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	if limit > 100 {
		limit = 100
	}

	courses, err := c.CourseService.ListTopCourses(ctx.Request.Context(), util.CurrentUserID(ctx), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.GetCourseDetail(ctx.Request.Context(), id, util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	// 题目正确答案不对学员公开
	for i := range course.Questions {
		for j := range course.Questions[i].Choices {
			course.Questions[i].Choices[j].IsCorrect = false
		}
	}
	util.Success(ctx, course)
}

// Enroll godoc
// @Summary 选课
// @Description 重复选课不会重复计数
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	courseID, err := c.CourseService.Enroll(ctx.Request.Context(), util.CurrentUserID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID, "enrolled": true})
}
