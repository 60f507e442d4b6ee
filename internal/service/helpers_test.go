package service

import (
	"testing"

	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/repository"
	"onlinecourse_backend/internal/testutil"

	"gorm.io/gorm"
)

type services struct {
	db     *gorm.DB
	cfg    *config.Config
	auth   *AuthService
	course *CourseService
	exam   *ExamService
	admin  *AdminService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.DB(t)
	cfg := testutil.Config()
	cfg.Storage.LocalPath = t.TempDir()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	courseService := NewCourseService(courseRepo, enrollmentRepo, profileRepo, nil, cfg)
	return &services{
		db:     db,
		cfg:    cfg,
		auth:   NewAuthService(userRepo, cfg),
		course: courseService,
		exam:   NewExamService(courseRepo, enrollmentRepo, questionRepo, submissionRepo, cfg),
		admin: NewAdminService(courseRepo, lessonRepo, questionRepo, submissionRepo, profileRepo, userRepo,
			courseService, NewStorageService(cfg)),
	}
}
