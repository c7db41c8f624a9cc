package model

import (
	"time"

	"gorm.io/gorm"
)

// 变更类型
const ChangeTypeSwap = "swap"

// AssignmentChangeLog 监考分配变更记录，对应 assignment_change_logs（纯审计日志）
type AssignmentChangeLog struct {
	ChangeLogID    string    `gorm:"type:uuid;primaryKey"              json:"change_log_id"`
	AssignmentID   string    `gorm:"type:uuid;not null"                json:"assignment_id"`
	ExamID         string    `gorm:"type:uuid;not null"                json:"exam_id"`
	OriginalUserID string    `gorm:"type:uuid;not null"                json:"original_user_id"`
	NewUserID      string    `gorm:"type:uuid;not null"                json:"new_user_id"`
	ChangeType     string    `gorm:"type:varchar(20);not null"         json:"change_type"`
	SwapRequestID  *string   `gorm:"type:uuid"                         json:"swap_request_id,omitempty"`
	OperatorID     string    `gorm:"type:uuid;not null"                json:"operator_id"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (AssignmentChangeLog) TableName() string { return "assignment_change_logs" }

// BeforeCreate 生成主键
func (l *AssignmentChangeLog) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ChangeLogID)
	return nil
}
