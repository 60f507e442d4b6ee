package repository

import (
	"onlinecourse_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) CreateInstructor(i *model.Instructor) error {
	return r.DB.Create(i).Error
}

func (r *ProfileRepository) ListInstructors() ([]model.Instructor, error) {
	var list []model.Instructor
	err := r.DB.Preload("User").Order("id asc").Find(&list).Error
	return list, err
}

func (r *ProfileRepository) DeleteInstructor(id uint) error {
	return r.DB.Delete(&model.Instructor{}, id).Error
}

func (r *ProfileRepository) InstructorExists(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Instructor{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// IncrementInstructorLearners 新学员选课后累加课程讲师的学员数
func (r *ProfileRepository) IncrementInstructorLearners(courseID uint) error {
	sub := r.DB.Table("course_instructors").Select("instructor_id").Where("course_id = ?", courseID)
	return r.DB.Model(&model.Instructor{}).
		Where("id IN (?)", sub).
		UpdateColumn("total_learners", gorm.Expr("total_learners + ?", 1)).
		Error
}

func (r *ProfileRepository) CreateLearner(l *model.Learner) error {
	return r.DB.Create(l).Error
}

func (r *ProfileRepository) ListLearners() ([]model.Learner, error) {
	var list []model.Learner
	err := r.DB.Preload("User").Order("id asc").Find(&list).Error
	return list, err
}

func (r *ProfileRepository) DeleteLearner(id uint) error {
	return r.DB.Delete(&model.Learner{}, id).Error
}

func (r *ProfileRepository) LearnerExists(userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Learner{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}
