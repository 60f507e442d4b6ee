package repository

import (
	"onlinecourse_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Omit("Instructors", "Lessons", "Questions", "total_enrollment").Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindDetail 加载课程及其课时、题目、选项和讲师
func (r *CourseRepository) FindDetail(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Preload("Instructors.User").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindTopByEnrollment 按选课人数降序返回前 limit 门课程
func (r *CourseRepository) FindTopByEnrollment(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("total_enrollment desc, id asc").Limit(limit).Find(&courses).Error
	return courses, err
}

type CourseFilter struct {
	Search  string
	PubDate *time.Time
}

func (r *CourseRepository) List(filter CourseFilter, page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", term, term)
	}
	if filter.PubDate != nil {
		start := time.Date(filter.PubDate.Year(), filter.PubDate.Month(), filter.PubDate.Day(), 0, 0, 0, 0, filter.PubDate.Location())
		query = query.Where("pub_date >= ? AND pub_date < ?", start, start.AddDate(0, 0, 1))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("pub_date desc, id desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ReplaceInstructors(course *model.Course, instructorIDs []uint) error {
	var instructors []model.Instructor
	if len(instructorIDs) > 0 {
		if err := r.DB.Where("id IN ?", instructorIDs).Find(&instructors).Error; err != nil {
			return err
		}
	}
	return r.DB.Model(course).Association("Instructors").Replace(instructors)
}
