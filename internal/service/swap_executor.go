package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
)

// SwapResult 一次成功换班后的终态快照
type SwapResult struct {
	Request        *model.SwapRequest
	Requester      *model.User
	Respondent     *model.User
	RequesterExam  *model.Exam // 申请人交出的考试
	RespondentExam *model.Exam // 响应人交出的考试
}

// SwapExecutor 换班执行器
// 在单个事务内完成：申请状态复核、双方分配交换、双方台账更新、变更日志、申请终态。
// 加锁顺序固定为 申请 → 两条分配（按 考试/用户 排序）→ 两名用户（按 ID 排序），
// 并发执行之间不会形成环形等待。
type SwapExecutor struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSwapExecutor 创建换班执行器
func NewSwapExecutor(repo *repository.Repository, logger *zap.Logger) *SwapExecutor {
	return &SwapExecutor{repo: repo, logger: logger}
}

// Execute 以 respondentExamID 对应的分配响应 requestID，执行换班
// 任何一步失败都整体回滚。
func (e *SwapExecutor) Execute(ctx context.Context, requestID, respondentID, respondentExamID string) (*SwapResult, error) {
	var result *SwapResult
	err := e.repo.Transaction(ctx, func(tx *repository.Repository) error {
		r, err := e.execute(ctx, tx, requestID, respondentID, respondentExamID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("换班完成",
		zap.String("swap_request_id", requestID),
		zap.String("requester_id", result.Requester.UserID),
		zap.String("respondent_id", respondentID),
		zap.String("requester_exam_id", result.RequesterExam.ExamID),
		zap.String("respondent_exam_id", respondentExamID),
	)
	return result, nil
}

func (e *SwapExecutor) execute(ctx context.Context, tx *repository.Repository, requestID, respondentID, respondentExamID string) (*SwapResult, error) {
	// 1. 锁定申请并复核状态
	req, err := tx.SwapRequest.GetByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapRequestNotFound
		}
		e.logger.Error("查询换班申请失败", zap.Error(err))
		return nil, err
	}
	if !req.IsPending() {
		return nil, ErrSwapAlreadyProcessed
	}
	if respondentID == req.RequesterID {
		return nil, ErrSwapSelfRespond
	}
	if !req.IsForumPost && !req.IsTarget(respondentID) {
		return nil, ErrSwapNotParticipant
	}
	if respondentExamID == req.ExamID {
		return nil, ErrSwapSameExam
	}

	// 2~3. 按固定顺序锁定双方分配
	requesterAsg, respondentAsg, err := e.lockAssignments(ctx, tx,
		assignmentKey{examID: req.ExamID, userID: req.RequesterID},
		assignmentKey{examID: respondentExamID, userID: respondentID},
	)
	if err != nil {
		return nil, err
	}

	// 任一方已持有对方考试时，交换后会出现同一人监考同一场考试两次
	for _, k := range []assignmentKey{
		{examID: respondentExamID, userID: req.RequesterID},
		{examID: req.ExamID, userID: respondentID},
	} {
		if _, err := tx.Assignment.GetByExamAndUser(ctx, k.examID, k.userID); err == nil {
			return nil, ErrSwapAlreadyHoldsExam
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.Error("查询监考分配失败", zap.Error(err))
			return nil, err
		}
	}

	// 4. 锁定双方用户，加载双方考试
	requester, respondent, err := e.lockUsers(ctx, tx, req.RequesterID, respondentID)
	if err != nil {
		return nil, err
	}
	origExam, err := e.loadExam(ctx, tx, req.ExamID)
	if err != nil {
		return nil, err
	}
	swapExam, err := e.loadExam(ctx, tx, respondentExamID)
	if err != nil {
		return nil, err
	}

	// ── 写入 ──

	applySwapToLedgers(requester, respondent, origExam, swapExam)
	requester.UpdatedBy = &respondentID
	respondent.UpdatedBy = &respondentID
	for _, u := range []*model.User{requester, respondent} {
		if err := tx.User.UpdateLedger(ctx, u); err != nil {
			e.logger.Error("更新工作量台账失败", zap.String("user_id", u.UserID), zap.Error(err))
			return nil, err
		}
	}

	if err := e.reassign(ctx, tx, req, requesterAsg, respondentID, respondentID); err != nil {
		return nil, err
	}
	if err := e.reassign(ctx, tx, req, respondentAsg, req.RequesterID, respondentID); err != nil {
		return nil, err
	}

	now := time.Now()
	req.Status = model.SwapApproved
	req.RespondentExamID = &respondentExamID
	req.ResolvedAt = &now
	req.ResolvedBy = &respondentID
	if req.IsForumPost {
		req.TargetUserID = &respondentID
	}
	if err := tx.SwapRequest.Resolve(ctx, req); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrSwapAlreadyProcessed
		}
		e.logger.Error("更新换班申请失败", zap.Error(err))
		return nil, err
	}

	return &SwapResult{
		Request:        req,
		Requester:      requester,
		Respondent:     respondent,
		RequesterExam:  origExam,
		RespondentExam: swapExam,
	}, nil
}

// ── 内部辅助 ──

type assignmentKey struct {
	examID string
	userID string
}

func (k assignmentKey) less(o assignmentKey) bool {
	if k.examID != o.examID {
		return k.examID < o.examID
	}
	return k.userID < o.userID
}

// lockAssignments 按键序锁定两条分配，返回值顺序与入参一致
// 分配缺失或未处于已接受状态时返回 ErrSwapAssignmentUnavailable。
func (e *SwapExecutor) lockAssignments(ctx context.Context, tx *repository.Repository, first, second assignmentKey) (*model.ProctorAssignment, *model.ProctorAssignment, error) {
	keys := []assignmentKey{first, second}
	if second.less(first) {
		keys[0], keys[1] = second, first
	}

	locked := make(map[assignmentKey]*model.ProctorAssignment, 2)
	for _, k := range keys {
		a, err := tx.Assignment.GetByExamAndUserForUpdate(ctx, k.examID, k.userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrSwapAssignmentUnavailable
			}
			e.logger.Error("锁定监考分配失败", zap.Error(err))
			return nil, nil, err
		}
		if !a.IsAccepted() {
			return nil, nil, ErrSwapAssignmentUnavailable
		}
		locked[k] = a
	}
	return locked[first], locked[second], nil
}

// lockUsers 按 ID 排序锁定两名用户
func (e *SwapExecutor) lockUsers(ctx context.Context, tx *repository.Repository, requesterID, respondentID string) (*model.User, *model.User, error) {
	ids := []string{requesterID, respondentID}
	sort.Strings(ids)

	locked := make(map[string]*model.User, 2)
	for _, id := range ids {
		u, err := tx.User.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrSwapUserNotFound
			}
			e.logger.Error("锁定用户失败", zap.Error(err))
			return nil, nil, err
		}
		locked[id] = u
	}
	return locked[requesterID], locked[respondentID], nil
}

func (e *SwapExecutor) loadExam(ctx context.Context, tx *repository.Repository, examID string) (*model.Exam, error) {
	exam, err := tx.Exam.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		e.logger.Error("查询考试失败", zap.Error(err))
		return nil, err
	}
	return exam, nil
}

// reassign 变更分配归属并写入变更日志
func (e *SwapExecutor) reassign(ctx context.Context, tx *repository.Repository, req *model.SwapRequest, a *model.ProctorAssignment, newUserID, operatorID string) error {
	originalUserID := a.UserID
	if err := tx.Assignment.Reassign(ctx, a, newUserID, operatorID); err != nil {
		e.logger.Error("变更监考分配失败", zap.String("assignment_id", a.AssignmentID), zap.Error(err))
		return err
	}

	changeLog := &model.AssignmentChangeLog{
		AssignmentID:   a.AssignmentID,
		ExamID:         a.ExamID,
		OriginalUserID: originalUserID,
		NewUserID:      newUserID,
		ChangeType:     model.ChangeTypeSwap,
		SwapRequestID:  &req.SwapRequestID,
		OperatorID:     operatorID,
		CreatedAt:      time.Now(),
	}
	if err := tx.ChangeLog.Create(ctx, changeLog); err != nil {
		e.logger.Error("创建变更日志失败", zap.Error(err))
		return err
	}
	return nil
}
