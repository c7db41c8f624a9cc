package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/service"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// ListMine 我的通知
// GET /api/v1/notifications/me
func (h *NotificationHandler) ListMine(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, err := h.notificationSvc.ListMine(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}
