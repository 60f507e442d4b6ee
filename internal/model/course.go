package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Name            string       `gorm:"size:30;not null;default:'online course'" json:"name"`
	ImageURL        string       `gorm:"size:255" json:"imageUrl"`
	Description     string       `gorm:"size:1000" json:"description"`
	PubDate         *time.Time   `gorm:"index" json:"pubDate,omitempty"`
	TotalEnrollment int          `gorm:"default:0;index" json:"totalEnrollment"`
	Instructors     []Instructor `gorm:"many2many:course_instructors;" json:"instructors,omitempty"`
	Lessons         []Lesson     `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	Questions       []Question   `gorm:"foreignKey:CourseID" json:"questions,omitempty"`

	// 仅用于展示：当前用户是否已选课
	IsEnrolled bool `gorm:"-" json:"isEnrolled"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Title    string `gorm:"size:200;default:'title'" json:"title"`
	Order    int    `gorm:"column:sort_order;default:0" json:"order"`
	Content  string `gorm:"type:text" json:"content"`
}

func (Lesson) TableName() string {
	return "lessons"
}
