package controller

import (
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/service"
	"onlinecourse_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// CourseRequest 课程创建/更新
// swagger:model CourseRequest
type CourseRequest struct {
	Name          string `json:"name" binding:"required,max=30"`
	Description   string `json:"description" binding:"max=1000"`
	ImageURL      string `json:"imageUrl" binding:"max=255"`
	PubDate       string `json:"pubDate"`
	InstructorIDs []uint `json:"instructorIds"`
}

func (r *CourseRequest) input() (service.CourseInput, error) {
	in := service.CourseInput{
		Name:          r.Name,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		InstructorIDs: r.InstructorIDs,
	}
	if r.PubDate != "" {
		t, err := time.ParseInLocation(util.DateFormat, r.PubDate, time.Local)
		if err != nil {
			return in, util.ErrInvalidPubDateFilter
		}
		in.PubDate = &t
	}
	return in, nil
}

// LessonRequest 课时
// swagger:model LessonRequest
type LessonRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Order   int    `json:"order"`
	Content string `json:"content"`
}

// ChoiceRequest 选项，更新题目时带上 id 表示修改已有选项
// swagger:model ChoiceRequest
type ChoiceRequest struct {
	ID         uint   `json:"id"`
	ChoiceText string `json:"choiceText" binding:"required,max=200"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuestionRequest 题目及其全部选项
// swagger:model QuestionRequest
type QuestionRequest struct {
	QuestionText string          `json:"questionText" binding:"required,max=200"`
	Grade        *int            `json:"grade"`
	Choices      []ChoiceRequest `json:"choices" binding:"dive"`
}

func (r *QuestionRequest) input() service.QuestionInput {
	in := service.QuestionInput{QuestionText: r.QuestionText, Grade: r.Grade}
	for _, c := range r.Choices {
		in.Choices = append(in.Choices, service.ChoiceInput{ID: c.ID, ChoiceText: c.ChoiceText, IsCorrect: c.IsCorrect})
	}
	return in
}

// InstructorRequest 讲师档案
// swagger:model InstructorRequest
type InstructorRequest struct {
	UserID   uint `json:"userId" binding:"required"`
	FullTime bool `json:"fullTime"`
}

// LearnerRequest 学员档案
// swagger:model LearnerRequest
type LearnerRequest struct {
	UserID     uint   `json:"userId" binding:"required"`
	Occupation string `json:"occupation"`
	SocialLink string `json:"socialLink" binding:"omitempty,max=200"`
}

// ListCourses godoc
// @Summary 课程列表（管理）
// @Description 按名称/描述搜索，可按发布日期过滤
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "搜索关键词"
// @Param pub_date query string false "发布日期 YYYY-MM-DD"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/courses [get]
func (c *AdminController) ListCourses(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	courses, total, err := c.AdminService.ListCourses(ctx.Request.Context(), ctx.Query("search"), ctx.Query("pub_date"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Paged(ctx, courses, total, page, limit)
}

// GetCourse godoc
// @Summary 课程详情（管理，含正确答案）
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /admin/courses/{id} [get]
func (c *AdminController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.AdminService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(ctx, err)
		return
	}
	course, err := c.AdminService.CreateCourse(ctx.Request.Context(), in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /admin/courses/{id} [put]
func (c *AdminController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(ctx, err)
		return
	}
	course, err := c.AdminService.UpdateCourse(ctx.Request.Context(), id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 管理
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.AdminService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Deleted(ctx)
}

// UploadCourseImage godoc
// @Summary 上传课程封面
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param image formData file true "图片文件"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /admin/courses/{id}/image [post]
func (c *AdminController) UploadCourseImage(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	header, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
		return
	}
	course, err := c.AdminService.UploadCourseImage(ctx.Request.Context(), id, header)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// ListLessons godoc
// @Summary 课程课时列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /admin/courses/{id}/lessons [get]
func (c *AdminController) ListLessons(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	lessons, err := c.AdminService.ListLessons(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /admin/courses/{id}/lessons [post]
func (c *AdminController) CreateLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.AdminService.CreateLesson(ctx.Request.Context(), id, service.LessonInput{Title: req.Title, Order: req.Order, Content: req.Content})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path int true "课时ID"
// @Param body body LessonRequest true "课时信息"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /admin/lessons/{lessonId} [put]
func (c *AdminController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "lessonId")
	if !ok {
		return
	}
	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.AdminService.UpdateLesson(ctx.Request.Context(), id, service.LessonInput{Title: req.Title, Order: req.Order, Content: req.Content})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 管理
// @Security ApiKeyAuth
// @Param lessonId path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /admin/lessons/{lessonId} [delete]
func (c *AdminController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "lessonId")
	if !ok {
		return
	}
	if err := c.AdminService.DeleteLesson(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Deleted(ctx)
}

// ListQuestions godoc
// @Summary 课程题目列表（含正确答案）
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /admin/courses/{id}/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	questions, err := c.AdminService.ListQuestions(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 创建题目
// @Description 分值缺省为 50，必须为非负整数
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /admin/courses/{id}/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.AdminService.CreateQuestion(ctx.Request.Context(), id, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目（整体替换选项）
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "题目ID"
// @Param body body QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /admin/questions/{questionId} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "questionId")
	if !ok {
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.AdminService.UpdateQuestion(ctx.Request.Context(), id, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 管理
// @Security ApiKeyAuth
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /admin/questions/{questionId} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "questionId")
	if !ok {
		return
	}
	if err := c.AdminService.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Deleted(ctx)
}

// ListSubmissions godoc
// @Summary 课程提交记录
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/courses/{id}/submissions [get]
func (c *AdminController) ListSubmissions(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	subs, total, err := c.AdminService.ListSubmissions(ctx.Request.Context(), id, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Paged(ctx, subs, total, page, limit)
}

// @Summary 讲师列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Instructor}
// @Router /admin/instructors [get]
func (c *AdminController) ListInstructors(ctx *gin.Context) {
	list, err := c.AdminService.ListInstructors(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建讲师档案
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body InstructorRequest true "讲师信息"
// @Success 201 {object} util.Response{data=model.Instructor}
// @Router /admin/instructors [post]
func (c *AdminController) CreateInstructor(ctx *gin.Context) {
	var req InstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	i, err := c.AdminService.CreateInstructor(ctx.Request.Context(), req.UserID, req.FullTime)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, i)
}

// @Summary 删除讲师档案
// @Tags 管理
// @Security ApiKeyAuth
// @Param id path int true "讲师ID"
// @Success 200 {object} util.Response
// @Router /admin/instructors/{id} [delete]
func (c *AdminController) DeleteInstructor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.AdminService.DeleteInstructor(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Deleted(ctx)
}

// @Summary 学员列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Learner}
// @Router /admin/learners [get]
func (c *AdminController) ListLearners(ctx *gin.Context) {
	list, err := c.AdminService.ListLearners(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建学员档案
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body LearnerRequest true "学员信息"
// @Success 201 {object} util.Response{data=model.Learner}
// @Router /admin/learners [post]
func (c *AdminController) CreateLearner(ctx *gin.Context) {
	var req LearnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	l, err := c.AdminService.CreateLearner(ctx.Request.Context(), req.UserID, model.Occupation(req.Occupation), req.SocialLink)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, l)
}

// @Summary 删除学员档案
// @Tags 管理
// @Security ApiKeyAuth
// @Param id path int true "学员ID"
// @Success 200 {object} util.Response
// @Router /admin/learners/{id} [delete]
func (c *AdminController) DeleteLearner(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.AdminService.DeleteLearner(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Deleted(ctx)
}
