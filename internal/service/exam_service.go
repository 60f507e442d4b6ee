package service

import (
	"context"
	"errors"
	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/repository"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/logger"
	"onlinecourse_backend/pkg/monitoring"
	"onlinecourse_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExamService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	QuestionRepo   *repository.QuestionRepository
	SubmissionRepo *repository.SubmissionRepository
	Cfg            *config.Config
}

func NewExamService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	questionRepo *repository.QuestionRepository,
	submissionRepo *repository.SubmissionRepository,
	cfg *config.Config,
) *ExamService {
	return &ExamService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		QuestionRepo:   questionRepo,
		SubmissionRepo: submissionRepo,
		Cfg:            cfg,
	}
}

// ResultView 结果页所需数据
type ResultView struct {
	Course       *model.Course `json:"course"`
	SubmissionID uint          `json:"submissionId"`
	Score        ExamScore     `json:"score"`
}

// Submit 记录一次考试提交，不存在的选项ID被忽略
func (s *ExamService) Submit(ctx context.Context, userID, courseID uint, choiceIDs []uint) (uint, error) {
	_, span := tracing.StartSpan(ctx, "ExamService.Submit",
		attribute.Int("course_id", int(courseID)),
		attribute.Int("choices", len(choiceIDs)),
	)
	defer span.End()

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrCourseNotFound
		}
		return 0, err
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrNotEnrolled
		}
		return 0, err
	}

	choices, err := s.QuestionRepo.FindChoicesByIDs(choiceIDs)
	if err != nil {
		return 0, err
	}

	submission := &model.Submission{EnrollmentID: enrollment.ID}
	if err := s.SubmissionRepo.Create(submission, choices); err != nil {
		return 0, err
	}

	monitoring.SubmissionsTotal.Inc()
	logger.Log.Info("Exam submitted",
		zap.Uint("userID", userID),
		zap.Uint("courseID", courseID),
		zap.Uint("submissionID", submission.ID),
		zap.Int("choices", len(choices)),
	)
	return submission.ID, nil
}

// Result 重新计算提交的得分；仅提交者本人或管理员可查看
func (s *ExamService) Result(ctx context.Context, claims *util.Claims, courseID, submissionID uint) (*ResultView, error) {
	_, span := tracing.StartSpan(ctx, "ExamService.Result",
		attribute.Int("course_id", int(courseID)),
		attribute.Int("submission_id", int(submissionID)),
	)
	defer span.End()

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.Enrollment == nil || submission.Enrollment.CourseID != courseID {
		return nil, util.ErrSubmissionNotFound
	}
	if claims == nil || (claims.UserID != submission.Enrollment.UserID && !claims.IsStaff()) {
		return nil, util.ErrPermissionDenied
	}

	questions, err := s.QuestionRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	score := ScoreSubmission(questions, submission.SelectedChoiceIDs(), s.Cfg.Exam.PassPercentage)
	monitoring.ExamScorePercentage.Observe(score.Percentage)

	return &ResultView{
		Course:       course,
		SubmissionID: submission.ID,
		Score:        score,
	}, nil
}
