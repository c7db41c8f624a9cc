package model

import "gorm.io/gorm"

// 通知类型
const (
	NotifySwapRequested = "swap_requested"
	NotifySwapApproved  = "swap_approved"
	NotifySwapRejected  = "swap_rejected"
	NotifySwapCancelled = "swap_cancelled"
)

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey"          json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index"      json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"     json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"    json:"title"`
	Content        string  `gorm:"type:text;not null"            json:"content"`
	IsRead         bool    `gorm:"not null;default:false"        json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"              json:"related_type,omitempty"` // swap_request | proctor_assignment
	RelatedID      *string `gorm:"type:uuid"                     json:"related_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// BeforeCreate 生成主键
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	ensureID(&n.NotificationID)
	return nil
}
