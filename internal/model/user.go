package model

import "gorm.io/gorm"

// 用户角色
const (
	RoleTA         = "ta"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User 用户表，对应 users
// 助教的工作量台账（三个计数字段）只允许换班执行器在事务内修改。
type User struct {
	UserID     string `gorm:"type:uuid;primaryKey"                    json:"user_id"`
	Name       string `gorm:"type:varchar(100);not null"              json:"name"`
	Email      string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Role       string `gorm:"type:varchar(20);not null;default:'ta'" json:"role"`
	Department string `gorm:"type:varchar(20);not null"              json:"department"`

	TotalAssignedMinutes int `gorm:"not null;default:0" json:"total_assigned_minutes"`
	InDeptHours          int `gorm:"not null;default:0" json:"in_dept_hours"`
	OutDeptHours         int `gorm:"not null;default:0" json:"out_dept_hours"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// BeforeCreate 生成主键
func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.UserID)
	return nil
}

// IsTA 是否为助教（可参与换班的角色）
func (u *User) IsTA() bool { return u.Role == RoleTA }
