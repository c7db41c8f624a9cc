package handler

import "github.com/Gall-ardo/ProctorHub-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Swap         *SwapHandler
	Assignment   *AssignmentHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Swap:         NewSwapHandler(svc.Swap),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Notification: NewNotificationHandler(svc.Notification),
	}
}
