package model

import (
	"time"

	"gorm.io/gorm"
)

// 监考分配状态
const (
	AssignmentPending  = "pending"
	AssignmentAccepted = "accepted"
	AssignmentRejected = "rejected"
)

// ProctorAssignment 监考分配表，对应 proctor_assignments
// 换班时只交换 UserID，记录本身与考试的关联保持不变。
type ProctorAssignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey"                                 json:"assignment_id"`
	ExamID       string     `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_exam_user" json:"exam_id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_exam_user" json:"user_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"          json:"status"` // pending | accepted | rejected
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	VersionedModel

	// 关联
	Exam *Exam `gorm:"foreignKey:ExamID;references:ExamID" json:"exam,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (ProctorAssignment) TableName() string { return "proctor_assignments" }

// BeforeCreate 生成主键
func (a *ProctorAssignment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.AssignmentID)
	return nil
}

// IsAccepted 是否已接受（只有已接受的分配可参与换班）
func (a *ProctorAssignment) IsAccepted() bool { return a.Status == AssignmentAccepted }
