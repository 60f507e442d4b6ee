package repository

import (
	"onlinecourse_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// CreateIfAbsent 在同一事务内插入选课记录并累加课程选课人数。
// 依赖 (user_id, course_id) 唯一索引，已存在时不插入也不累加，返回 false。
func (r *EnrollmentRepository) CreateIfAbsent(enrollment *model.Enrollment) (bool, error) {
	created := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(enrollment)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&model.Course{}).
			Where("id = ?", enrollment.CourseID).
			UpdateColumn("total_enrollment", gorm.Expr("total_enrollment + ?", 1)).
			Error
	})
	return created, err
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Exists(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// EnrolledCourseIDs 返回用户在给定课程中已选的课程ID集合
func (r *EnrollmentRepository) EnrolledCourseIDs(userID uint, courseIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(courseIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *EnrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
