package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/repository"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/logger"
	"onlinecourse_backend/pkg/monitoring"
	"onlinecourse_backend/pkg/tracing"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topCoursesKeyPattern = "courses:top:*"

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProfileRepo    *repository.ProfileRepository
	Redis          *redis.Client
	Cfg            *config.Config
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	profileRepo *repository.ProfileRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProfileRepo:    profileRepo,
		Redis:          rdb,
		Cfg:            cfg,
	}
}

func topCoursesKey(limit int) string {
	return fmt.Sprintf("courses:top:%d", limit)
}

// ListTopCourses 返回选课人数最多的课程，登录用户额外标记是否已选课
func (s *CourseService) ListTopCourses(ctx context.Context, userID *uint, limit int) ([]model.Course, error) {
	ctx, span := tracing.StartSpan(ctx, "CourseService.ListTopCourses", attribute.Int("limit", limit))
	defer span.End()

	if limit <= 0 {
		limit = s.Cfg.Course.TopLimit
	}

	courses, err := s.cachedTopCourses(ctx, limit)
	if err != nil {
		return nil, err
	}

	if userID == nil || len(courses) == 0 {
		return courses, nil
	}

	ids := make([]uint, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	enrolled, err := s.EnrollmentRepo.EnrolledCourseIDs(*userID, ids)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].IsEnrolled = enrolled[courses[i].ID]
	}
	return courses, nil
}

// cachedTopCourses 排行榜读穿缓存，Redis 不可用时直接查库
func (s *CourseService) cachedTopCourses(ctx context.Context, limit int) ([]model.Course, error) {
	if s.Redis == nil {
		return s.CourseRepo.FindTopByEnrollment(limit)
	}

	key := topCoursesKey(limit)
	if data, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
		var courses []model.Course
		if err := json.Unmarshal(data, &courses); err == nil {
			return courses, nil
		}
	} else if err != redis.Nil {
		logger.Log.Warn("Failed to read top courses cache", zap.Error(err))
	}

	courses, err := s.CourseRepo.FindTopByEnrollment(limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(courses); err == nil {
		ttl := time.Duration(s.Cfg.Course.CacheTTLSeconds) * time.Second
		if err := s.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
			logger.Log.Warn("Failed to write top courses cache", zap.Error(err))
		}
	}
	return courses, nil
}

// InvalidateTopCourses 清除所有排行榜缓存
func (s *CourseService) InvalidateTopCourses(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, topCoursesKeyPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("Failed to scan top courses cache", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
			logger.Log.Warn("Failed to invalidate top courses cache", zap.Error(err))
		}
	}
}

// GetCourseDetail 课程详情：课时、题目、选项和讲师
func (s *CourseService) GetCourseDetail(ctx context.Context, courseID uint, userID *uint) (*model.Course, error) {
	_, span := tracing.StartSpan(ctx, "CourseService.GetCourseDetail", attribute.Int("course_id", int(courseID)))
	defer span.End()

	course, err := s.CourseRepo.FindDetail(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if userID != nil {
		enrolled, err := s.EnrollmentRepo.Exists(*userID, courseID)
		if err != nil {
			return nil, err
		}
		course.IsEnrolled = enrolled
	}
	return course, nil
}

// Enroll 登录用户首次选课时创建选课记录并累加人数；重复选课或未登录时不做任何修改
func (s *CourseService) Enroll(ctx context.Context, userID *uint, courseID uint) (uint, error) {
	ctx, span := tracing.StartSpan(ctx, "CourseService.Enroll", attribute.Int("course_id", int(courseID)))
	defer span.End()

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrCourseNotFound
		}
		return 0, err
	}

	if userID == nil {
		return courseID, nil
	}

	enrollment := &model.Enrollment{
		UserID:       *userID,
		CourseID:     courseID,
		Mode:         model.ModeHonor,
		DateEnrolled: time.Now(),
		Rating:       5,
	}
	created, err := s.EnrollmentRepo.CreateIfAbsent(enrollment)
	if err != nil {
		return 0, err
	}
	if !created {
		return courseID, nil
	}

	monitoring.EnrollmentsTotal.Inc()
	if err := s.ProfileRepo.IncrementInstructorLearners(courseID); err != nil {
		logger.Log.Warn("Failed to update instructor learners",
			zap.Uint("courseID", courseID),
			zap.Error(err),
		)
	}
	s.InvalidateTopCourses(ctx)

	logger.Log.Info("User enrolled",
		zap.Uint("userID", *userID),
		zap.Uint("courseID", courseID),
	)
	return courseID, nil
}
