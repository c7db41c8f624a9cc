package model

import (
	"time"

	"gorm.io/gorm"
)

// Exam 考试表，对应 exams
// 考试信息由排考系统维护，换班子系统只读。
type Exam struct {
	ExamID          string    `gorm:"type:uuid;primaryKey"       json:"exam_id"`
	CourseCode      string    `gorm:"type:varchar(20);not null"  json:"course_code"`
	Department      string    `gorm:"type:varchar(20);not null"  json:"department"`
	ExamDate        time.Time `gorm:"not null"                   json:"exam_date"`
	DurationMinutes int       `gorm:"not null"                   json:"duration_minutes"`
	InstructorID    string    `gorm:"type:uuid;not null"         json:"instructor_id"`
	Classroom       string    `gorm:"type:varchar(50)"           json:"classroom,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }

// BeforeCreate 生成主键
func (e *Exam) BeforeCreate(_ *gorm.DB) error {
	ensureID(&e.ExamID)
	return nil
}

// EndsAt 考试结束时间
func (e *Exam) EndsAt() time.Time {
	return e.ExamDate.Add(time.Duration(e.DurationMinutes) * time.Minute)
}
