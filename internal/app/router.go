package app

import (
	"onlinecourse_backend/docs"
	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/middleware"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	if cfg.Storage.Type == util.StorageLocal {
		router.Static(cfg.Storage.MediaURL, cfg.Storage.LocalPath)
	}

	// 1. 公共接口
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 3. 管理接口
	a.registerAdminRoutes(router, c, cfg)

	// 4. 页面
	a.registerPageRoutes(router, c, cfg)

	router.NoRoute(middleware.TryAuthMiddleware(cfg), c.page.NoRoute)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 游客可访问，登录用户附带选课状态
		public.GET("/courses/top", middleware.TryAuthMiddleware(a.Config), c.course.TopCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.POST("/courses/:id/enroll", c.course.Enroll)
	rg.POST("/courses/:id/submissions", c.exam.Submit)
	rg.GET("/courses/:id/submissions/:submissionId/result", c.exam.Result)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleStaff))
	{
		admin.GET("/courses", c.admin.ListCourses)
		admin.POST("/courses", c.admin.CreateCourse)
		admin.GET("/courses/:id", c.admin.GetCourse)
		admin.PUT("/courses/:id", c.admin.UpdateCourse)
		admin.DELETE("/courses/:id", c.admin.DeleteCourse)
		admin.POST("/courses/:id/image", c.admin.UploadCourseImage)

		admin.GET("/courses/:id/lessons", c.admin.ListLessons)
		admin.POST("/courses/:id/lessons", c.admin.CreateLesson)
		admin.PUT("/lessons/:lessonId", c.admin.UpdateLesson)
		admin.DELETE("/lessons/:lessonId", c.admin.DeleteLesson)

		admin.GET("/courses/:id/questions", c.admin.ListQuestions)
		admin.POST("/courses/:id/questions", c.admin.CreateQuestion)
		admin.PUT("/questions/:questionId", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:questionId", c.admin.DeleteQuestion)

		admin.GET("/courses/:id/submissions", c.admin.ListSubmissions)

		admin.GET("/instructors", c.admin.ListInstructors)
		admin.POST("/instructors", c.admin.CreateInstructor)
		admin.DELETE("/instructors/:id", c.admin.DeleteInstructor)

		admin.GET("/learners", c.admin.ListLearners)
		admin.POST("/learners", c.admin.CreateLearner)
		admin.DELETE("/learners/:id", c.admin.DeleteLearner)
	}
}

func (a *App) registerPageRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	pages := router.Group("/")
	pages.Use(middleware.TryAuthMiddleware(cfg))
	{
		pages.GET("/", c.page.Index)

		pages.GET("/registration/", c.page.RegistrationForm)
		pages.POST("/registration/", c.page.Register)
		pages.GET("/login/", c.page.LoginForm)
		pages.POST("/login/", c.page.Login)
		pages.GET("/logout/", c.page.Logout)
		pages.POST("/logout/", c.page.Logout)

		pages.GET("/:courseId/", c.page.CourseDetail)
		pages.GET("/:courseId/enroll/", c.page.Enroll)
		pages.POST("/:courseId/submit/", c.page.Submit)
		pages.GET("/course/:courseId/submission/:submissionId/result/", c.page.ExamResult)
	}
}
