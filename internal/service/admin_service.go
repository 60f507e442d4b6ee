package service

import (
	"context"
	"errors"
	"mime/multipart"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/repository"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService 管理后台：课程、课时、题目、讲师和学员的维护
type AdminService struct {
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	QuestionRepo   *repository.QuestionRepository
	SubmissionRepo *repository.SubmissionRepository
	ProfileRepo    *repository.ProfileRepository
	UserRepo       *repository.UserRepository
	CourseService  *CourseService
	Storage        *StorageService
}

func NewAdminService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository,
	submissionRepo *repository.SubmissionRepository,
	profileRepo *repository.ProfileRepository,
	userRepo *repository.UserRepository,
	courseService *CourseService,
	storage *StorageService,
) *AdminService {
	return &AdminService{
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		QuestionRepo:   questionRepo,
		SubmissionRepo: submissionRepo,
		ProfileRepo:    profileRepo,
		UserRepo:       userRepo,
		CourseService:  courseService,
		Storage:        storage,
	}
}

type CourseInput struct {
	Name          string
	Description   string
	ImageURL      string
	PubDate       *time.Time
	InstructorIDs []uint
}

type LessonInput struct {
	Title   string
	Order   int
	Content string
}

// ChoiceInput ID 为 0 表示新增选项
type ChoiceInput struct {
	ID         uint
	ChoiceText string
	IsCorrect  bool
}

type QuestionInput struct {
	QuestionText string
	Grade        *int
	Choices      []ChoiceInput
}

func wrapNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// ParsePubDate 解析 YYYY-MM-DD 格式的发布日期过滤条件，空串表示不过滤
func ParsePubDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(util.DateFormat, s, time.Local)
	if err != nil {
		return nil, util.ErrInvalidPubDateFilter
	}
	return &t, nil
}

// ---- 课程 ----

func (s *AdminService) ListCourses(ctx context.Context, search, pubDate string, page, limit int) ([]model.Course, int64, error) {
	date, err := ParsePubDate(pubDate)
	if err != nil {
		return nil, 0, err
	}
	return s.CourseRepo.List(repository.CourseFilter{Search: strings.TrimSpace(search), PubDate: date}, page, limit)
}

func (s *AdminService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindDetail(id)
	if err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	return course, nil
}

func (s *AdminService) CreateCourse(ctx context.Context, in CourseInput) (*model.Course, error) {
	course := &model.Course{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		PubDate:     in.PubDate,
	}
	if course.PubDate == nil {
		now := time.Now()
		course.PubDate = &now
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	if len(in.InstructorIDs) > 0 {
		if err := s.CourseRepo.ReplaceInstructors(course, in.InstructorIDs); err != nil {
			return nil, err
		}
	}
	s.CourseService.InvalidateTopCourses(ctx)
	logger.Log.Info("Course created", zap.Uint("courseID", course.ID), zap.String("name", course.Name))
	return course, nil
}

func (s *AdminService) UpdateCourse(ctx context.Context, id uint, in CourseInput) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	course.Name = in.Name
	course.Description = in.Description
	if in.ImageURL != "" {
		course.ImageURL = in.ImageURL
	}
	if in.PubDate != nil {
		course.PubDate = in.PubDate
	}
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	if in.InstructorIDs != nil {
		if err := s.CourseRepo.ReplaceInstructors(course, in.InstructorIDs); err != nil {
			return nil, err
		}
	}
	s.CourseService.InvalidateTopCourses(ctx)
	return course, nil
}

func (s *AdminService) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		return wrapNotFound(err, util.ErrCourseNotFound)
	}
	if err := s.CourseRepo.Delete(id); err != nil {
		return err
	}
	s.CourseService.InvalidateTopCourses(ctx)
	logger.Log.Info("Course deleted", zap.Uint("courseID", id))
	return nil
}

// UploadCourseImage 上传课程封面并更新课程图片地址
func (s *AdminService) UploadCourseImage(ctx context.Context, id uint, header *multipart.FileHeader) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	url, err := s.Storage.UploadImage(ctx, "course_images", header)
	if err != nil {
		return nil, err
	}
	course.ImageURL = url
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.CourseService.InvalidateTopCourses(ctx)
	return course, nil
}

// ---- 课时 ----

func (s *AdminService) ListLessons(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *AdminService) CreateLesson(ctx context.Context, courseID uint, in LessonInput) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	lesson := &model.Lesson{CourseID: courseID, Title: in.Title, Order: in.Order, Content: in.Content}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *AdminService) UpdateLesson(ctx context.Context, id uint, in LessonInput) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		return nil, wrapNotFound(err, util.ErrLessonNotFound)
	}
	lesson.Title = in.Title
	lesson.Order = in.Order
	lesson.Content = in.Content
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *AdminService) DeleteLesson(ctx context.Context, id uint) error {
	if _, err := s.LessonRepo.FindByID(id); err != nil {
		return wrapNotFound(err, util.ErrLessonNotFound)
	}
	return s.LessonRepo.Delete(id)
}

// ---- 题目 ----

// buildChoices keepIDs 为 false 时忽略传入的选项ID
func buildChoices(in []ChoiceInput, keepIDs bool) []model.Choice {
	choices := make([]model.Choice, 0, len(in))
	for _, c := range in {
		choice := model.Choice{ChoiceText: c.ChoiceText, IsCorrect: c.IsCorrect}
		if keepIDs {
			choice.ID = c.ID
		}
		choices = append(choices, choice)
	}
	return choices
}

// checkChoiceIDs 提交的选项ID必须属于该题且不重复
func checkChoiceIDs(q *model.Question, in []ChoiceInput) error {
	owned := make(map[uint]bool, len(q.Choices))
	for _, c := range q.Choices {
		owned[c.ID] = true
	}
	seen := make(map[uint]bool, len(in))
	for _, c := range in {
		if c.ID == 0 {
			continue
		}
		if !owned[c.ID] || seen[c.ID] {
			return util.ErrChoiceNotFound
		}
		seen[c.ID] = true
	}
	return nil
}

func questionGrade(g *int) (int, error) {
	if g == nil {
		return model.DefaultQuestionGrade, nil
	}
	if *g < 0 {
		return 0, util.ErrInvalidGrade
	}
	return *g, nil
}

func (s *AdminService) ListQuestions(ctx context.Context, courseID uint) ([]model.Question, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	return s.QuestionRepo.ListByCourse(courseID)
}

func (s *AdminService) CreateQuestion(ctx context.Context, courseID uint, in QuestionInput) (*model.Question, error) {
	grade, err := questionGrade(in.Grade)
	if err != nil {
		return nil, err
	}
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, wrapNotFound(err, util.ErrCourseNotFound)
	}
	q := &model.Question{
		CourseID:     courseID,
		QuestionText: in.QuestionText,
		Grade:        grade,
		Choices:      buildChoices(in.Choices, false),
	}
	if err := s.QuestionRepo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateQuestion 更新题目，已有选项按ID原地修改
func (s *AdminService) UpdateQuestion(ctx context.Context, id uint, in QuestionInput) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		return nil, wrapNotFound(err, util.ErrQuestionNotFound)
	}
	grade := q.Grade
	if in.Grade != nil {
		if grade, err = questionGrade(in.Grade); err != nil {
			return nil, err
		}
	}
	if err := checkChoiceIDs(q, in.Choices); err != nil {
		return nil, err
	}
	q.QuestionText = in.QuestionText
	q.Grade = grade
	if err := s.QuestionRepo.Update(q, buildChoices(in.Choices, true)); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AdminService) DeleteQuestion(ctx context.Context, id uint) error {
	if _, err := s.QuestionRepo.FindByID(id); err != nil {
		return wrapNotFound(err, util.ErrQuestionNotFound)
	}
	return s.QuestionRepo.Delete(id)
}

// ---- 讲师 / 学员 ----

func (s *AdminService) ensureUser(userID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return wrapNotFound(err, util.ErrUserNotFound)
	}
	return nil
}

func (s *AdminService) ListInstructors(ctx context.Context) ([]model.Instructor, error) {
	return s.ProfileRepo.ListInstructors()
}

func (s *AdminService) CreateInstructor(ctx context.Context, userID uint, fullTime bool) (*model.Instructor, error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	exists, err := s.ProfileRepo.InstructorExists(userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrProfileExists
	}
	i := &model.Instructor{UserID: userID, FullTime: fullTime}
	if err := s.ProfileRepo.CreateInstructor(i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *AdminService) DeleteInstructor(ctx context.Context, id uint) error {
	return s.ProfileRepo.DeleteInstructor(id)
}

func (s *AdminService) ListLearners(ctx context.Context) ([]model.Learner, error) {
	return s.ProfileRepo.ListLearners()
}

func (s *AdminService) CreateLearner(ctx context.Context, userID uint, occupation model.Occupation, socialLink string) (*model.Learner, error) {
	if occupation == "" {
		occupation = model.OccupationStudent
	}
	if !occupation.Valid() {
		return nil, util.ErrInvalidOccupation
	}
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	exists, err := s.ProfileRepo.LearnerExists(userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrProfileExists
	}
	l := &model.Learner{UserID: userID, Occupation: occupation, SocialLink: socialLink}
	if err := s.ProfileRepo.CreateLearner(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *AdminService) DeleteLearner(ctx context.Context, id uint) error {
	return s.ProfileRepo.DeleteLearner(id)
}

// ---- 提交记录 ----

func (s *AdminService) ListSubmissions(ctx context.Context, courseID uint, page, limit int) ([]model.Submission, int64, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, 0, wrapNotFound(err, util.ErrCourseNotFound)
	}
	return s.SubmissionRepo.ListByCourse(courseID, page, limit)
}
