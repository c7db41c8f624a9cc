package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
	"github.com/Gall-ardo/ProctorHub-sub002/pkg/metrics"
)

// ── 换班模块业务错误 ──

var (
	ErrSwapRequestNotFound    = fmt.Errorf("%w: 换班申请不存在", pkgerrors.ErrNotFound)
	ErrSwapUserNotFound       = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
	ErrSwapTargetNotFound     = fmt.Errorf("%w: 换班对象不存在", pkgerrors.ErrNotFound)
	ErrSwapAssignmentNotFound = fmt.Errorf("%w: 未找到该考试的监考分配", pkgerrors.ErrNotFound)
	ErrExamNotFound           = fmt.Errorf("%w: 考试不存在", pkgerrors.ErrNotFound)

	ErrSwapNotTA                 = fmt.Errorf("%w: 仅助教可参与换班", pkgerrors.ErrNotEligible)
	ErrSwapTargetNotTA           = fmt.Errorf("%w: 换班对象不是助教", pkgerrors.ErrNotEligible)
	ErrSwapSelfTarget            = fmt.Errorf("%w: 不能向自己发起换班", pkgerrors.ErrNotEligible)
	ErrSwapAssignmentNotAccepted = fmt.Errorf("%w: 监考分配未接受，不能换班", pkgerrors.ErrNotEligible)
	ErrSwapSameExam              = fmt.Errorf("%w: 不能用同一场考试换班", pkgerrors.ErrNotEligible)
	ErrSwapAlreadyHoldsExam      = fmt.Errorf("%w: 一方已监考对方的考试", pkgerrors.ErrNotEligible)

	ErrSwapNotRequester   = fmt.Errorf("%w: 仅申请人可撤销换班申请", pkgerrors.ErrUnauthorized)
	ErrSwapNotParticipant = fmt.Errorf("%w: 非该换班申请的当事人", pkgerrors.ErrUnauthorized)
	ErrSwapSelfRespond    = fmt.Errorf("%w: 不能处理自己发起的换班申请", pkgerrors.ErrUnauthorized)

	ErrSwapAlreadyProcessed      = fmt.Errorf("%w: 换班申请已被处理", pkgerrors.ErrAlreadyProcessed)
	ErrSwapAssignmentUnavailable = fmt.Errorf("%w: 监考分配不存在或未处于已接受状态", pkgerrors.ErrAssignmentNotAcceptable)

	ErrSwapInvalidWindow = fmt.Errorf("%w: 可换班时间窗口不合法", pkgerrors.ErrValidation)
	ErrSwapRequestExists = errors.New("该考试已有待处理的换班申请")
)

// swapWindowLayout 可换班时间窗口的日期格式
const swapWindowLayout = "2006-01-02"

// SwapService 换班业务接口
// 所有操作都要求调用者为助教。
type SwapService interface {
	// 发起定向换班
	CreatePersonal(ctx context.Context, req *dto.CreatePersonalSwapRequest, callerID string) (*dto.SwapRequestResponse, error)
	// 发布论坛换班帖
	CreateForum(ctx context.Context, req *dto.CreateForumSwapRequest, callerID string) (*dto.SwapRequestResponse, error)
	// 响应申请：拿出自己的一场已接受监考执行换班
	Respond(ctx context.Context, requestID string, req *dto.RespondSwapRequest, callerID string) (*dto.SwapResultResponse, error)
	// 申请人撤销
	Cancel(ctx context.Context, requestID, callerID string) (*dto.SwapRequestResponse, error)
	// 当事人拒绝
	Reject(ctx context.Context, requestID, callerID string) (*dto.SwapRequestResponse, error)
	Get(ctx context.Context, requestID, callerID string) (*dto.SwapRequestResponse, error)
	ListIncoming(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error)
	ListForum(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error)
	ListSubmitted(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error)
	// 可用于响应该申请的己方分配
	ListOfferable(ctx context.Context, requestID, callerID string) ([]dto.AssignmentResponse, error)
}

type swapService struct {
	repo     *repository.Repository
	executor *SwapExecutor
	sink     NotificationSink
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewSwapService 创建 SwapService 实例
// sink 与 m 均可为 nil。
func NewSwapService(repo *repository.Repository, sink NotificationSink, m *metrics.Metrics, logger *zap.Logger) SwapService {
	return &swapService{
		repo:     repo,
		executor: NewSwapExecutor(repo, logger),
		sink:     sink,
		metrics:  m,
		logger:   logger,
	}
}

// ────────────────────── CreatePersonal ──────────────────────

func (s *swapService) CreatePersonal(ctx context.Context, req *dto.CreatePersonalSwapRequest, callerID string) (*dto.SwapRequestResponse, error) {
	requester, err := s.requireTA(ctx, callerID)
	if err != nil {
		return nil, err
	}
	from, until, err := parseSwapWindow(req.AvailableFrom, req.AvailableUntil)
	if err != nil {
		return nil, err
	}

	target, err := s.resolveTarget(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	if target.UserID == requester.UserID {
		return nil, ErrSwapSelfTarget
	}
	if !target.IsTA() {
		return nil, ErrSwapTargetNotTA
	}

	if err := s.checkOwnAssignment(ctx, req.ExamID, requester.UserID); err != nil {
		return nil, err
	}

	swap := &model.SwapRequest{
		RequesterID:    requester.UserID,
		ExamID:         req.ExamID,
		TargetUserID:   &target.UserID,
		AvailableFrom:  from,
		AvailableUntil: until,
		IsForumPost:    false,
		Reason:         req.Reason,
	}
	created, err := s.create(ctx, swap, "personal")
	if err != nil {
		return nil, err
	}

	s.notify(ctx, Notice{
		RecipientID: target.UserID,
		Type:        model.NotifySwapRequested,
		Subject:     "收到换班申请",
		Message:     fmt.Sprintf("%s 希望与你交换 %s 的监考", requester.Name, examLabel(created.Exam)),
		SwapID:      created.SwapRequestID,
	})
	return toSwapRequestResponse(created), nil
}

// ────────────────────── CreateForum ──────────────────────

func (s *swapService) CreateForum(ctx context.Context, req *dto.CreateForumSwapRequest, callerID string) (*dto.SwapRequestResponse, error) {
	requester, err := s.requireTA(ctx, callerID)
	if err != nil {
		return nil, err
	}
	from, until, err := parseSwapWindow(req.AvailableFrom, req.AvailableUntil)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnAssignment(ctx, req.ExamID, requester.UserID); err != nil {
		return nil, err
	}

	swap := &model.SwapRequest{
		RequesterID:    requester.UserID,
		ExamID:         req.ExamID,
		AvailableFrom:  from,
		AvailableUntil: until,
		IsForumPost:    true,
		Reason:         req.Reason,
	}
	created, err := s.create(ctx, swap, "forum")
	if err != nil {
		return nil, err
	}
	return toSwapRequestResponse(created), nil
}

// ────────────────────── Respond ──────────────────────

func (s *swapService) Respond(ctx context.Context, requestID string, req *dto.RespondSwapRequest, callerID string) (*dto.SwapResultResponse, error) {
	respondent, err := s.requireTA(ctx, callerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.executor.Execute(ctx, requestID, respondent.UserID, req.ExamID)
	if err != nil {
		s.recordFailure("respond", err)
		return nil, err
	}
	s.metrics.Transition("respond", metrics.OutcomeApproved)
	s.metrics.ObserveSwap(time.Since(start).Seconds())

	origLabel := examLabel(result.RequesterExam)
	swapLabel := examLabel(result.RespondentExam)
	s.notify(ctx,
		Notice{
			RecipientID: result.Requester.UserID,
			Type:        model.NotifySwapApproved,
			Subject:     "换班成功",
			Message:     fmt.Sprintf("%s 已接手 %s 的监考，你改为监考 %s", respondent.Name, origLabel, swapLabel),
			SwapID:      requestID,
		},
		Notice{
			RecipientID: respondent.UserID,
			Type:        model.NotifySwapApproved,
			Subject:     "换班成功",
			Message:     fmt.Sprintf("你已接手 %s 的监考，原 %s 的监考转交给 %s", origLabel, swapLabel, result.Requester.Name),
			SwapID:      requestID,
		},
		Notice{
			RecipientID: result.RequesterExam.InstructorID,
			Type:        model.NotifySwapApproved,
			Subject:     "监考人员变更",
			Message:     fmt.Sprintf("%s 的监考由 %s 变更为 %s", origLabel, result.Requester.Name, respondent.Name),
			SwapID:      requestID,
		},
	)

	// 重新读取以带上关联信息
	detail, err := s.repo.SwapRequest.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.Error(err))
		detail = result.Request
	}
	return &dto.SwapResultResponse{
		Request:    *toSwapRequestResponse(detail),
		Requester:  toWorkloadResponse(result.Requester),
		Respondent: toWorkloadResponse(result.Respondent),
	}, nil
}

// ────────────────────── Cancel / Reject ──────────────────────

func (s *swapService) Cancel(ctx context.Context, requestID, callerID string) (*dto.SwapRequestResponse, error) {
	if _, err := s.requireTA(ctx, callerID); err != nil {
		return nil, err
	}

	swap, err := s.transition(ctx, requestID, callerID, model.SwapCancelled, func(r *model.SwapRequest) error {
		if r.RequesterID != callerID {
			return ErrSwapNotRequester
		}
		return nil
	})
	if err != nil {
		s.recordFailure("cancel", err)
		return nil, err
	}
	s.metrics.Transition("cancel", metrics.OutcomeCancelled)

	if swap.TargetUserID != nil {
		s.notify(ctx, Notice{
			RecipientID: *swap.TargetUserID,
			Type:        model.NotifySwapCancelled,
			Subject:     "换班申请已撤销",
			Message:     fmt.Sprintf("%s 的换班申请已被申请人撤销", examLabel(swap.Exam)),
			SwapID:      swap.SwapRequestID,
		})
	}
	return toSwapRequestResponse(swap), nil
}

func (s *swapService) Reject(ctx context.Context, requestID, callerID string) (*dto.SwapRequestResponse, error) {
	if _, err := s.requireTA(ctx, callerID); err != nil {
		return nil, err
	}

	swap, err := s.transition(ctx, requestID, callerID, model.SwapRejected, func(r *model.SwapRequest) error {
		if r.RequesterID == callerID {
			return ErrSwapSelfRespond
		}
		if !r.IsForumPost && !r.IsTarget(callerID) {
			return ErrSwapNotParticipant
		}
		// 论坛帖任一其他助教均可拒绝，拒绝后申请人可对同一考试重新发帖；记录实际处理人
		if r.IsForumPost {
			r.TargetUserID = &callerID
		}
		return nil
	})
	if err != nil {
		s.recordFailure("reject", err)
		return nil, err
	}
	s.metrics.Transition("reject", metrics.OutcomeRejected)

	s.notify(ctx, Notice{
		RecipientID: swap.RequesterID,
		Type:        model.NotifySwapRejected,
		Subject:     "换班申请被拒绝",
		Message:     fmt.Sprintf("你对 %s 的换班申请已被拒绝", examLabel(swap.Exam)),
		SwapID:      swap.SwapRequestID,
	})
	return toSwapRequestResponse(swap), nil
}

// transition 在事务内锁定申请、复核 pending、校验权限并流转到终态
// 先复核状态再校验权限：终态申请对任何人都返回 AlreadyProcessed。
func (s *swapService) transition(ctx context.Context, requestID, callerID, status string, authorize func(*model.SwapRequest) error) (*model.SwapRequest, error) {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		r, err := tx.SwapRequest.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapRequestNotFound
			}
			s.logger.Error("查询换班申请失败", zap.Error(err))
			return err
		}
		if !r.IsPending() {
			return ErrSwapAlreadyProcessed
		}
		if err := authorize(r); err != nil {
			return err
		}

		now := time.Now()
		r.Status = status
		r.ResolvedAt = &now
		r.ResolvedBy = &callerID
		if err := tx.SwapRequest.Resolve(ctx, r); err != nil {
			if errors.Is(err, pkgerrors.ErrOptimisticLock) {
				return ErrSwapAlreadyProcessed
			}
			s.logger.Error("更新换班申请失败", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	swap, err := s.repo.SwapRequest.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("换班申请状态变更",
		zap.String("swap_request_id", requestID),
		zap.String("status", status),
		zap.String("operator_id", callerID),
	)
	return swap, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *swapService) Get(ctx context.Context, requestID, callerID string) (*dto.SwapRequestResponse, error) {
	swap, err := s.repo.SwapRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapRequestNotFound
		}
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}

	// 论坛帖对所有助教公开；定向申请仅双方可见
	if swap.RequesterID != callerID && !swap.IsTarget(callerID) {
		if !swap.IsForumPost {
			return nil, ErrSwapNotParticipant
		}
		if _, err := s.requireTA(ctx, callerID); err != nil {
			return nil, err
		}
	}
	return toSwapRequestResponse(swap), nil
}

func (s *swapService) ListIncoming(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error) {
	return s.list(ctx, callerID, req, s.repo.SwapRequest.ListIncoming)
}

func (s *swapService) ListForum(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error) {
	return s.list(ctx, callerID, req, s.repo.SwapRequest.ListForum)
}

func (s *swapService) ListSubmitted(ctx context.Context, callerID string, req *dto.PaginationRequest) ([]dto.SwapRequestResponse, int64, error) {
	return s.list(ctx, callerID, req, s.repo.SwapRequest.ListByRequester)
}

type swapLister func(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error)

func (s *swapService) list(ctx context.Context, callerID string, req *dto.PaginationRequest, fetch swapLister) ([]dto.SwapRequestResponse, int64, error) {
	if _, err := s.requireTA(ctx, callerID); err != nil {
		return nil, 0, err
	}

	list, total, err := fetch(ctx, callerID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询换班申请列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SwapRequestResponse, 0, len(list))
	for i := range list {
		result = append(result, *toSwapRequestResponse(&list[i]))
	}
	return result, total, nil
}

func (s *swapService) ListOfferable(ctx context.Context, requestID, callerID string) ([]dto.AssignmentResponse, error) {
	if _, err := s.requireTA(ctx, callerID); err != nil {
		return nil, err
	}

	swap, err := s.repo.SwapRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapRequestNotFound
		}
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	if !swap.IsPending() {
		return nil, ErrSwapAlreadyProcessed
	}
	if swap.RequesterID == callerID {
		return nil, ErrSwapSelfRespond
	}
	if !swap.IsForumPost && !swap.IsTarget(callerID) {
		return nil, ErrSwapNotParticipant
	}

	assignments, err := s.repo.Assignment.ListByUser(ctx, callerID, model.AssignmentAccepted)
	if err != nil {
		s.logger.Error("查询监考分配失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if a.ExamID == swap.ExamID || a.Exam == nil {
			continue
		}
		if !swap.WindowContains(a.Exam.ExamDate) {
			continue
		}
		result = append(result, toAssignmentResponse(a))
	}
	return result, nil
}

// ── 内部辅助方法 ──

// requireTA 调用者必须是存在的助教
func (s *swapService) requireTA(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if !u.IsTA() {
		return nil, ErrSwapNotTA
	}
	return u, nil
}

// resolveTarget 按用户 ID 或邮箱解析换班对象
func (s *swapService) resolveTarget(ctx context.Context, ref string) (*model.User, error) {
	var (
		u   *model.User
		err error
	)
	if _, parseErr := uuid.Parse(ref); parseErr == nil {
		u, err = s.repo.User.GetByID(ctx, ref)
	} else {
		u, err = s.repo.User.GetByEmail(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapTargetNotFound
		}
		s.logger.Error("查询换班对象失败", zap.Error(err))
		return nil, err
	}
	return u, nil
}

// checkOwnAssignment 申请人须持有该考试的已接受分配
func (s *swapService) checkOwnAssignment(ctx context.Context, examID, userID string) error {
	a, err := s.repo.Assignment.GetByExamAndUser(ctx, examID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSwapAssignmentNotFound
		}
		s.logger.Error("查询监考分配失败", zap.Error(err))
		return err
	}
	if !a.IsAccepted() {
		return ErrSwapAssignmentNotAccepted
	}
	return nil
}

func (s *swapService) create(ctx context.Context, swap *model.SwapRequest, kind string) (*model.SwapRequest, error) {
	exists, err := s.repo.SwapRequest.ExistsPending(ctx, swap.RequesterID, swap.ExamID)
	if err != nil {
		s.logger.Error("查询待处理换班申请失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrSwapRequestExists
	}

	swap.Status = model.SwapPending
	swap.Version = 1
	swap.CreatedBy = &swap.RequesterID
	if err := s.repo.SwapRequest.Create(ctx, swap); err != nil {
		// 并发创建时由部分唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSwapRequestExists
		}
		s.logger.Error("创建换班申请失败", zap.Error(err))
		return nil, err
	}
	s.metrics.RequestCreated(kind)
	s.logger.Info("换班申请已创建",
		zap.String("swap_request_id", swap.SwapRequestID),
		zap.String("kind", kind),
		zap.String("requester_id", swap.RequesterID),
		zap.String("exam_id", swap.ExamID),
	)

	created, err := s.repo.SwapRequest.GetByID(ctx, swap.SwapRequestID)
	if err != nil {
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// notify 尽力投递通知：失败只记录日志，不影响已完成的操作
func (s *swapService) notify(ctx context.Context, notices ...Notice) {
	if s.sink == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	now := time.Now()
	for _, n := range notices {
		if n.RecipientID == "" {
			continue
		}
		if n.At.IsZero() {
			n.At = now
		}
		if err := s.sink.Send(ctx, n); err != nil {
			s.logger.Warn("发送通知失败",
				zap.String("recipient_id", n.RecipientID),
				zap.String("type", n.Type),
				zap.Error(err),
			)
		}
	}
}

func (s *swapService) recordFailure(operation string, err error) {
	outcome := metrics.OutcomeFailed
	if errors.Is(err, pkgerrors.ErrAlreadyProcessed) {
		outcome = metrics.OutcomeAlreadyProcessed
	}
	s.metrics.Transition(operation, outcome)
}

// parseSwapWindow 解析可换班时间窗口，起始日期不得晚于截止日期
func parseSwapWindow(from, until string) (time.Time, time.Time, error) {
	start, err := time.Parse(swapWindowLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSwapInvalidWindow
	}
	end, err := time.Parse(swapWindowLayout, until)
	if err != nil {
		return time.Time{}, time.Time{}, ErrSwapInvalidWindow
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrSwapInvalidWindow
	}
	return start, end, nil
}

func examLabel(e *model.Exam) string {
	if e == nil {
		return "该考试"
	}
	return fmt.Sprintf("%s（%s）", e.CourseCode, e.ExamDate.Format("2006-01-02 15:04"))
}

// ── 模型转换 ──

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:         u.UserID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
	}
}

func toExamBrief(e *model.Exam) *dto.ExamBrief {
	if e == nil {
		return nil
	}
	return &dto.ExamBrief{
		ID:              e.ExamID,
		CourseCode:      e.CourseCode,
		Department:      e.Department,
		ExamDate:        e.ExamDate.Format(time.RFC3339),
		DurationMinutes: e.DurationMinutes,
		Classroom:       e.Classroom,
	}
}

func toSwapRequestResponse(r *model.SwapRequest) *dto.SwapRequestResponse {
	resp := &dto.SwapRequestResponse{
		ID:             r.SwapRequestID,
		Status:         r.Status,
		IsForumPost:    r.IsForumPost,
		RequesterID:    r.RequesterID,
		Requester:      toUserBrief(r.Requester),
		TargetUser:     toUserBrief(r.TargetUser),
		ExamID:         r.ExamID,
		Exam:           toExamBrief(r.Exam),
		RespondentExam: toExamBrief(r.RespondentExam),
		AvailableFrom:  r.AvailableFrom.Format(swapWindowLayout),
		AvailableUntil: r.AvailableUntil.Format(swapWindowLayout),
		Reason:         r.Reason,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.TargetUserID != nil {
		resp.TargetUserID = *r.TargetUserID
	}
	if r.ResolvedAt != nil {
		resp.ResolvedAt = r.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}

func toWorkloadResponse(u *model.User) dto.WorkloadResponse {
	return dto.WorkloadResponse{
		UserID:               u.UserID,
		Department:           u.Department,
		TotalAssignedMinutes: u.TotalAssignedMinutes,
		InDeptHours:          u.InDeptHours,
		OutDeptHours:         u.OutDeptHours,
	}
}

func toAssignmentResponse(a *model.ProctorAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:     a.AssignmentID,
		Status: a.Status,
		ExamID: a.ExamID,
		Exam:   toExamBrief(a.Exam),
	}
	if a.RespondedAt != nil {
		resp.RespondedAt = a.RespondedAt.Format(time.RFC3339)
	}
	return resp
}
