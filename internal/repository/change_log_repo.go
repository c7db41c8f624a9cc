package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
)

// AssignmentChangeLogRepository 监考分配变更日志数据访问接口
type AssignmentChangeLogRepository interface {
	Create(ctx context.Context, log *model.AssignmentChangeLog) error
	ListBySwapRequest(ctx context.Context, swapRequestID string) ([]model.AssignmentChangeLog, error)
}

type assignmentChangeLogRepo struct {
	db *gorm.DB
}

// NewAssignmentChangeLogRepo 创建 AssignmentChangeLogRepository 实例
func NewAssignmentChangeLogRepo(db *gorm.DB) AssignmentChangeLogRepository {
	return &assignmentChangeLogRepo{db: db}
}

func (r *assignmentChangeLogRepo) Create(ctx context.Context, log *model.AssignmentChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *assignmentChangeLogRepo) ListBySwapRequest(ctx context.Context, swapRequestID string) ([]model.AssignmentChangeLog, error) {
	var logs []model.AssignmentChangeLog
	err := r.db.WithContext(ctx).
		Where("swap_request_id = ?", swapRequestID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
