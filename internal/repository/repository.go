package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Exam         ExamRepository
	Assignment   AssignmentRepository
	SwapRequest  SwapRequestRepository
	ChangeLog    AssignmentChangeLogRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Exam:         NewExamRepo(db),
		Assignment:   NewAssignmentRepo(db),
		SwapRequest:  NewSwapRequestRepo(db),
		ChangeLog:    NewAssignmentChangeLogRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// WithTx 返回绑定到事务连接的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn：fn 返回 nil 时提交，否则整体回滚
// fn 内只能使用传入的 txRepo，混用外层连接会破坏原子性。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
