package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/service"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/response"
)

// SwapHandler 换班模块 HTTP 处理器
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler 创建 SwapHandler
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// CreatePersonal 发起定向换班
// POST /api/v1/swap-requests/personal
func (h *SwapHandler) CreatePersonal(c *gin.Context) {
	var req dto.CreatePersonalSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.CreatePersonal(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.Created(c, result)
}

// CreateForum 发布论坛换班帖
// POST /api/v1/swap-requests/forum
func (h *SwapHandler) CreateForum(c *gin.Context) {
	var req dto.CreateForumSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.CreateForum(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.Created(c, result)
}

// Respond 响应换班申请并执行换班
// POST /api/v1/swap-requests/:id/respond
func (h *SwapHandler) Respond(c *gin.Context) {
	var req dto.RespondSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Respond(c.Request.Context(), requestID, &req, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// Cancel 撤销换班申请
// POST /api/v1/swap-requests/:id/cancel
func (h *SwapHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Cancel(c.Request.Context(), requestID, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// Reject 拒绝换班申请
// POST /api/v1/swap-requests/:id/reject
func (h *SwapHandler) Reject(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Reject(c.Request.Context(), requestID, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// Get 换班申请详情
// GET /api/v1/swap-requests/:id
func (h *SwapHandler) Get(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Get(c.Request.Context(), requestID, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// ListOfferable 可用于响应的己方监考
// GET /api/v1/swap-requests/:id/offerable
func (h *SwapHandler) ListOfferable(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	requestID, ok := h.requestID(c)
	if !ok {
		return
	}

	list, err := h.swapSvc.ListOfferable(c.Request.Context(), requestID, callerID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// ListIncoming 指定给我的待处理申请
// GET /api/v1/swap-requests/incoming
func (h *SwapHandler) ListIncoming(c *gin.Context) {
	h.listPage(c, h.swapSvc.ListIncoming)
}

// ListForum 论坛中他人发布的待处理帖子
// GET /api/v1/swap-requests/forum
func (h *SwapHandler) ListForum(c *gin.Context) {
	h.listPage(c, h.swapSvc.ListForum)
}

// ListSubmitted 我提交过的申请
// GET /api/v1/swap-requests/submitted
func (h *SwapHandler) ListSubmitted(c *gin.Context) {
	h.listPage(c, h.swapSvc.ListSubmitted)
}

type swapPageFunc = func(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error)

func (h *SwapHandler) listPage(c *gin.Context, fetch swapPageFunc) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, err := fetch(c.Request.Context(), callerID, &page)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}
	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

func (h *SwapHandler) requestID(c *gin.Context) (string, bool) {
	return MustGetUUIDParam(c, "id", 14101, "换班申请不存在")
}

// handleSwapError 统一处理换班模块业务错误
// 先匹配具体错误，再按错误类别兜底。
func (h *SwapHandler) handleSwapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSwapRequestNotFound):
		response.NotFound(c, 14101, "换班申请不存在")
	case errors.Is(err, service.ErrSwapTargetNotFound):
		response.NotFound(c, 14102, "换班对象不存在")
	case errors.Is(err, service.ErrSwapAssignmentNotFound):
		response.NotFound(c, 14103, "未找到该考试的监考分配")
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, 14104, "用户或考试不存在")

	case errors.Is(err, service.ErrSwapNotTA):
		response.Forbidden(c, 14201, "仅助教可参与换班")
	case errors.Is(err, service.ErrSwapAssignmentNotAccepted):
		response.Forbidden(c, 14202, "监考分配未接受，不能换班")
	case errors.Is(err, pkgerrors.ErrNotEligible):
		response.Forbidden(c, 14203, "不满足换班条件")

	case errors.Is(err, service.ErrSwapNotRequester):
		response.Forbidden(c, 14301, "仅申请人可撤销换班申请")
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.Forbidden(c, 14302, "非该换班申请的当事人")

	case errors.Is(err, pkgerrors.ErrAlreadyProcessed):
		response.Conflict(c, 14401, "换班申请已被处理，请刷新后查看")
	case errors.Is(err, pkgerrors.ErrAssignmentNotAcceptable):
		response.Conflict(c, 14402, "监考分配不存在或未处于已接受状态")
	case errors.Is(err, service.ErrSwapRequestExists):
		response.Conflict(c, 14403, "该考试已有待处理的换班申请")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14404, "数据已被其他操作修改，请刷新后重试")

	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, 14002, "可换班时间窗口不合法")
	default:
		response.InternalError(c)
	}
}
