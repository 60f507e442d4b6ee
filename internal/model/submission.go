package model

// swagger:model Submission
type Submission struct {
	BaseModel
	EnrollmentID uint        `gorm:"index;not null" json:"enrollmentId"`
	Enrollment   *Enrollment `gorm:"foreignKey:EnrollmentID" json:"enrollment,omitempty"`
	Choices      []Choice    `gorm:"many2many:submission_choices;" json:"choices,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SelectedChoiceIDs 返回本次提交所选选项ID集合
func (s *Submission) SelectedChoiceIDs() map[uint]struct{} {
	set := make(map[uint]struct{}, len(s.Choices))
	for _, c := range s.Choices {
		set[c.ID] = struct{}{}
	}
	return set
}
