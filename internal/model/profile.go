package model

type Occupation string

const (
	OccupationStudent       Occupation = "student"
	OccupationDeveloper     Occupation = "developer"
	OccupationDataScientist Occupation = "data_scientist"
	OccupationDBA           Occupation = "dba"
)

func (o Occupation) Valid() bool {
	switch o {
	case OccupationStudent, OccupationDeveloper, OccupationDataScientist, OccupationDBA:
		return true
	}
	return false
}

// swagger:model Instructor
type Instructor struct {
	BaseModel
	UserID        uint  `gorm:"uniqueIndex;not null" json:"userId"`
	User          *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FullTime      bool  `json:"fullTime"`
	TotalLearners int   `gorm:"default:0" json:"totalLearners"`
}

func (Instructor) TableName() string {
	return "instructors"
}

// swagger:model Learner
type Learner struct {
	BaseModel
	UserID     uint       `gorm:"uniqueIndex;not null" json:"userId"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Occupation Occupation `gorm:"size:20;default:'student'" json:"occupation"`
	SocialLink string     `gorm:"size:200" json:"socialLink"`
}

func (Learner) TableName() string {
	return "learners"
}
