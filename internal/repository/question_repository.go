package repository

import (
	"onlinecourse_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Create 同时写入题目和选项
func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

// Update 更新题目及选项：带ID的选项原地更新，不带ID的新建，未出现的选项软删除。
// 选项ID保持不变，已有答卷中的选择仍指向同一选项。
func (r *QuestionRepository) Update(question *model.Question, choices []model.Choice) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Choices").Save(question).Error; err != nil {
			return err
		}

		keep := make([]uint, 0, len(choices))
		for i := range choices {
			choices[i].QuestionID = question.ID
			if choices[i].ID == 0 {
				if err := tx.Create(&choices[i]).Error; err != nil {
					return err
				}
			} else {
				// 用 map 更新，保证 false 也会写入
				err := tx.Model(&model.Choice{}).
					Where("id = ? AND question_id = ?", choices[i].ID, question.ID).
					Updates(map[string]interface{}{
						"choice_text": choices[i].ChoiceText,
						"is_correct":  choices[i].IsCorrect,
					}).Error
				if err != nil {
					return err
				}
			}
			keep = append(keep, choices[i].ID)
		}

		removed := tx.Where("question_id = ?", question.ID)
		if len(keep) > 0 {
			removed = removed.Where("id NOT IN ?", keep)
		}
		if err := removed.Delete(&model.Choice{}).Error; err != nil {
			return err
		}

		return tx.Where("question_id = ?", question.ID).Order("id asc").Find(&question.Choices).Error
	})
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByCourse 按题目自然顺序（ID 升序）返回课程全部题目及选项
func (r *QuestionRepository) ListByCourse(courseID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("course_id = ?", courseID).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Order("id asc").
		Find(&qs).Error
	return qs, err
}

// FindChoicesByIDs 只返回存在的选项，不存在的ID被忽略
func (r *QuestionRepository) FindChoicesByIDs(ids []uint) ([]model.Choice, error) {
	var choices []model.Choice
	if len(ids) == 0 {
		return choices, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&choices).Error
	return choices, err
}
