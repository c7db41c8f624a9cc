package model

import (
	"time"

	"gorm.io/gorm"
)

// 换班申请状态
const (
	SwapPending   = "pending"
	SwapApproved  = "approved"
	SwapRejected  = "rejected"
	SwapCancelled = "cancelled"
)

// SwapRequest 换班申请表，对应 swap_requests
// 定向申请 TargetUserID 在创建时确定；论坛帖在换班成功后回填实际响应人。
// 申请只会从 pending 流转一次到终态，终态记录永久保留。
type SwapRequest struct {
	SwapRequestID    string     `gorm:"type:uuid;primaryKey"                        json:"swap_request_id"`
	RequesterID      string     `gorm:"type:uuid;not null;index"                    json:"requester_id"`
	ExamID           string     `gorm:"type:uuid;not null"                          json:"exam_id"`
	TargetUserID     *string    `gorm:"type:uuid"                                   json:"target_user_id,omitempty"`
	AvailableFrom    time.Time  `gorm:"not null"                                    json:"available_from"`
	AvailableUntil   time.Time  `gorm:"not null"                                    json:"available_until"`
	IsForumPost      bool       `gorm:"not null;default:false"                      json:"is_forum_post"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending | approved | rejected | cancelled
	RespondentExamID *string    `gorm:"type:uuid"                                   json:"respondent_exam_id,omitempty"`
	Reason           string     `gorm:"type:varchar(500)"                           json:"reason,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy       *string    `gorm:"type:uuid"                                   json:"resolved_by,omitempty"`
	VersionedModel

	// 关联
	Exam           *Exam `gorm:"foreignKey:ExamID;references:ExamID"           json:"exam,omitempty"`
	Requester      *User `gorm:"foreignKey:RequesterID;references:UserID"      json:"requester,omitempty"`
	TargetUser     *User `gorm:"foreignKey:TargetUserID;references:UserID"     json:"target_user,omitempty"`
	RespondentExam *Exam `gorm:"foreignKey:RespondentExamID;references:ExamID" json:"respondent_exam,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// BeforeCreate 生成主键
func (r *SwapRequest) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.SwapRequestID)
	return nil
}

// IsPending 是否仍可处理
func (r *SwapRequest) IsPending() bool { return r.Status == SwapPending }

// IsTarget 是否为定向申请的指定对象
func (r *SwapRequest) IsTarget(userID string) bool {
	return r.TargetUserID != nil && *r.TargetUserID == userID
}

// WindowContains 日期是否落在申请人可接受的时间窗口内（按天比较，含两端）
func (r *SwapRequest) WindowContains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(truncateDay(r.AvailableFrom)) && !day.After(truncateDay(r.AvailableUntil))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
