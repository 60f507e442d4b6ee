package repository

import (
	"onlinecourse_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// Create 创建提交记录并关联所选选项
func (r *SubmissionRepository) Create(submission *model.Submission, choices []model.Choice) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Choices").Create(submission).Error; err != nil {
			return err
		}
		if len(choices) == 0 {
			return nil
		}
		if err := tx.Model(submission).Association("Choices").Replace(choices); err != nil {
			return err
		}
		submission.Choices = choices
		return nil
	})
}

// FindByID 加载提交记录、所属选课记录及所选选项
func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Preload("Enrollment").Preload("Choices").First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepository) ListByCourse(courseID uint, page, limit int) ([]model.Submission, int64, error) {
	var subs []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{}).
		Joins("JOIN enrollments ON enrollments.id = submissions.enrollment_id").
		Where("enrollments.course_id = ?", courseID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.
		Preload("Enrollment.User").
		Preload("Choices").
		Order("submissions.id desc").
		Offset(offset).Limit(limit).
		Find(&subs).Error
	return subs, total, err
}

func (r *SubmissionRepository) CountByEnrollment(enrollmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).Where("enrollment_id = ?", enrollmentID).Count(&count).Error
	return count, err
}
