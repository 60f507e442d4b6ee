package model

// DefaultQuestionGrade 未指定分值时的题目分值
const DefaultQuestionGrade = 50

// swagger:model Question
type Question struct {
	BaseModel
	CourseID     uint     `gorm:"index;not null" json:"courseId"`
	QuestionText string   `gorm:"size:200;not null" json:"questionText"`
	Grade        int      `gorm:"not null" json:"grade"`
	Choices      []Choice `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoiceIDs 返回该题所有正确选项的ID
func (q *Question) CorrectChoiceIDs() []uint {
	ids := make([]uint, 0, len(q.Choices))
	for _, c := range q.Choices {
		if c.IsCorrect {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// swagger:model Choice
type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	ChoiceText string `gorm:"size:200;not null" json:"choiceText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Choice) TableName() string {
	return "choices"
}
