package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/service"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/response"
)

// AssignmentHandler 监考分配模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListMine 我的监考分配
// GET /api/v1/assignments/me
func (h *AssignmentHandler) ListMine(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.assignmentSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// Accept 接受监考分配
// PUT /api/v1/assignments/:id/accept
func (h *AssignmentHandler) Accept(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	assignmentID, ok := MustGetUUIDParam(c, "id", 15101, "监考分配不存在")
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Accept(c.Request.Context(), assignmentID, userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, result)
}

// Reject 拒绝监考分配
// PUT /api/v1/assignments/:id/reject
func (h *AssignmentHandler) Reject(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	assignmentID, ok := MustGetUUIDParam(c, "id", 15101, "监考分配不存在")
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Reject(c.Request.Context(), assignmentID, userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, result)
}

// ExportCalendar 导出我的监考日历
// GET /api/v1/assignments/me/calendar.ics
func (h *AssignmentHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.assignmentSvc.ExportCalendar(c.Request.Context(), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="proctoring.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// GetWorkload 我的工作量台账
// GET /api/v1/users/me/workload
func (h *AssignmentHandler) GetWorkload(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.GetWorkload(c.Request.Context(), userID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}
	response.OK(c, result)
}

// handleAssignmentError 统一处理监考分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 15101, "监考分配不存在")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 15102, "用户不存在")
	case errors.Is(err, service.ErrAssignmentNotOwner):
		response.Forbidden(c, 15201, "只能处理分配给自己的监考")
	case errors.Is(err, service.ErrAssignmentAlreadyResponded):
		response.Conflict(c, 15301, "监考分配已处理")
	default:
		response.InternalError(c)
	}
}
