package service

import (
	"go.uber.org/zap"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Swap         SwapService
	Assignment   AssignmentService
	Notification NotificationService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	sink NotificationSink,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		Swap:         NewSwapService(repo, sink, m, logger),
		Assignment:   NewAssignmentService(repo, logger),
		Notification: NewNotificationService(repo, logger),
	}
}
