package controller

import (
	"errors"
	"net/http"
	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/service"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/logger"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 考试表单请求体上限
const maxFormBytes = 1 << 20

// PageController 服务端渲染页面
type PageController struct {
	AuthService   *service.AuthService
	CourseService *service.CourseService
	ExamService   *service.ExamService
	Cfg           *config.Config
}

func NewPageController(authService *service.AuthService, courseService *service.CourseService, examService *service.ExamService, cfg *config.Config) *PageController {
	return &PageController{
		AuthService:   authService,
		CourseService: courseService,
		ExamService:   examService,
		Cfg:           cfg,
	}
}

type registrationForm struct {
	Username  string
	FirstName string
	LastName  string
}

func (c *PageController) page(ctx *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		data["User"] = claims
	}
	ctx.HTML(status, name, data)
}

func (c *PageController) renderError(ctx *gin.Context, err error) {
	status, msg, ok := classifyError(err)
	if !ok {
		logger.Log.Error("Internal server error",
			zap.Error(err),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
		)
		status, msg = http.StatusInternalServerError, "Internal server error"
	}
	c.page(ctx, status, "error", gin.H{"Title": http.StatusText(status), "Status": status, "Message": msg})
}

func (c *PageController) notFound(ctx *gin.Context) {
	c.page(ctx, http.StatusNotFound, "error", gin.H{
		"Title":   "Not Found",
		"Status":  http.StatusNotFound,
		"Message": "Page not found",
	})
}

func (c *PageController) setSession(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cfg.JWT.CookieName, token, int(c.Cfg.JWT.ExpireTime.Seconds()), "/", "", c.Cfg.Server.Mode == gin.ReleaseMode, true)
}

// Index 选课人数最多的课程
func (c *PageController) Index(ctx *gin.Context) {
	courses, err := c.CourseService.ListTopCourses(ctx.Request.Context(), util.CurrentUserID(ctx), c.Cfg.Course.TopLimit)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	c.page(ctx, http.StatusOK, "course_list", gin.H{"Title": "Courses", "Courses": courses})
}

func (c *PageController) RegistrationForm(ctx *gin.Context) {
	c.page(ctx, http.StatusOK, "user_registration", gin.H{"Title": "Sign Up", "Form": registrationForm{}})
}

// Register 注册成功后直接登录并回到首页；用户名已存在时带提示重新渲染表单
func (c *PageController) Register(ctx *gin.Context) {
	form := registrationForm{
		Username:  ctx.PostForm("username"),
		FirstName: ctx.PostForm("firstname"),
		LastName:  ctx.PostForm("lastname"),
	}
	user, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Username:  form.Username,
		Password:  ctx.PostForm("psw"),
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		if _, msg, ok := classifyError(err); ok {
			c.page(ctx, http.StatusOK, "user_registration", gin.H{"Title": "Sign Up", "Message": msg, "Form": form})
			return
		}
		c.renderError(ctx, err)
		return
	}

	token, err := util.GenerateJWT(user, c.Cfg.JWT.Secret, c.Cfg.JWT.ExpireTime)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	c.setSession(ctx, token)
	ctx.Redirect(http.StatusFound, "/")
}

func (c *PageController) LoginForm(ctx *gin.Context) {
	c.page(ctx, http.StatusOK, "user_login", gin.H{"Title": "Login"})
}

func (c *PageController) Login(ctx *gin.Context) {
	username := ctx.PostForm("username")
	token, _, err := c.AuthService.Login(ctx.Request.Context(), username, ctx.PostForm("psw"))
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			_, msg, _ := classifyError(err)
			c.page(ctx, http.StatusOK, "user_login", gin.H{"Title": "Login", "Message": msg, "Username": username})
			return
		}
		c.renderError(ctx, err)
		return
	}
	c.setSession(ctx, token)
	ctx.Redirect(http.StatusFound, "/")
}

func (c *PageController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cfg.JWT.CookieName, "", -1, "/", "", c.Cfg.Server.Mode == gin.ReleaseMode, true)
	ctx.Redirect(http.StatusFound, "/")
}

func (c *PageController) CourseDetail(ctx *gin.Context) {
	courseID, ok := util.ParseID(ctx.Param("courseId"))
	if !ok {
		c.notFound(ctx)
		return
	}
	course, err := c.CourseService.GetCourseDetail(ctx.Request.Context(), courseID, util.CurrentUserID(ctx))
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	c.page(ctx, http.StatusOK, "course_detail", gin.H{"Title": course.Name, "Course": course})
}

// Enroll 选课后跳转到课程详情
func (c *PageController) Enroll(ctx *gin.Context) {
	courseID, ok := util.ParseID(ctx.Param("courseId"))
	if !ok {
		c.notFound(ctx)
		return
	}
	id, err := c.CourseService.Enroll(ctx.Request.Context(), util.CurrentUserID(ctx), courseID)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/"+strconv.FormatUint(uint64(id), 10)+"/")
}

// Submit 记录考试提交后跳转到结果页
func (c *PageController) Submit(ctx *gin.Context) {
	courseID, ok := util.ParseID(ctx.Param("courseId"))
	if !ok {
		c.notFound(ctx)
		return
	}
	userID := util.CurrentUserID(ctx)
	if userID == nil {
		ctx.Redirect(http.StatusFound, "/login/")
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxFormBytes)
	if err := ctx.Request.ParseForm(); err != nil {
		c.page(ctx, http.StatusBadRequest, "error", gin.H{"Status": http.StatusBadRequest, "Message": "Invalid form"})
		return
	}
	choiceIDs, err := service.ExtractAnswers(ctx.Request.PostForm)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	submissionID, err := c.ExamService.Submit(ctx.Request.Context(), *userID, courseID, choiceIDs)
	if err != nil {
		c.renderError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, resultPath(courseID, submissionID))
}

func resultPath(courseID, submissionID uint) string {
	return "/course/" + strconv.FormatUint(uint64(courseID), 10) +
		"/submission/" + strconv.FormatUint(uint64(submissionID), 10) + "/result/"
}

// ExamResult 每次查看都重新判分
func (c *PageController) ExamResult(ctx *gin.Context) {
	courseID, ok := util.ParseID(ctx.Param("courseId"))
	if !ok {
		c.notFound(ctx)
		return
	}
	submissionID, ok := util.ParseID(ctx.Param("submissionId"))
	if !ok {
		c.notFound(ctx)
		return
	}
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		ctx.Redirect(http.StatusFound, "/login/")
		return
	}

	view, err := c.ExamService.Result(ctx.Request.Context(), claims, courseID, submissionID)
	if err != nil {
		c.renderError(ctx, err)
		return
	}

	displayName := claims.Username
	if user := c.AuthService.GetCurrentUser(ctx); user != nil && user.FirstName != "" {
		displayName = user.FirstName
	}
	c.page(ctx, http.StatusOK, "exam_result", gin.H{
		"Title":       "Exam result",
		"Result":      view,
		"DisplayName": displayName,
	})
}

// NoRoute 页面请求返回 HTML 404，接口请求返回 JSON
func (c *PageController) NoRoute(ctx *gin.Context) {
	if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
		util.NotFound(ctx, "page")
		return
	}
	c.notFound(ctx)
}
