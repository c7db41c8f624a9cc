package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
)

// ── 监考分配模块业务错误 ──

var (
	ErrAssignmentNotFound         = fmt.Errorf("%w: 监考分配不存在", pkgerrors.ErrNotFound)
	ErrAssignmentNotOwner         = fmt.Errorf("%w: 只能处理分配给自己的监考", pkgerrors.ErrUnauthorized)
	ErrAssignmentAlreadyResponded = fmt.Errorf("%w: 监考分配已处理", pkgerrors.ErrAlreadyProcessed)
)

const calendarProductID = "-//ProctorHub//Proctoring Duties//ZH"

// AssignmentService 监考分配业务接口
type AssignmentService interface {
	ListMine(ctx context.Context, userID string, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	// Accept / Reject 只变更分配自身状态，不触碰台账
	Accept(ctx context.Context, assignmentID, callerID string) (*dto.AssignmentResponse, error)
	Reject(ctx context.Context, assignmentID, callerID string) (*dto.AssignmentResponse, error)
	// ExportCalendar 导出已接受监考的 iCalendar 文本
	ExportCalendar(ctx context.Context, userID string) ([]byte, error)
	GetWorkload(ctx context.Context, userID string) (*dto.WorkloadResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) ListMine(ctx context.Context, userID string, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	list, err := s.repo.Assignment.ListByUser(ctx, userID, req.Status)
	if err != nil {
		s.logger.Error("查询监考分配失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toAssignmentResponse(&list[i]))
	}
	return result, nil
}

func (s *assignmentService) Accept(ctx context.Context, assignmentID, callerID string) (*dto.AssignmentResponse, error) {
	return s.respond(ctx, assignmentID, callerID, model.AssignmentAccepted)
}

func (s *assignmentService) Reject(ctx context.Context, assignmentID, callerID string) (*dto.AssignmentResponse, error) {
	return s.respond(ctx, assignmentID, callerID, model.AssignmentRejected)
}

func (s *assignmentService) respond(ctx context.Context, assignmentID, callerID, status string) (*dto.AssignmentResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询监考分配失败", zap.Error(err))
		return nil, err
	}
	if a.UserID != callerID {
		return nil, ErrAssignmentNotOwner
	}
	if a.Status != model.AssignmentPending {
		return nil, ErrAssignmentAlreadyResponded
	}

	now := time.Now()
	a.Status = status
	a.RespondedAt = &now
	a.UpdatedBy = &callerID
	if err := s.repo.Assignment.UpdateStatus(ctx, a); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrAssignmentAlreadyResponded
		}
		s.logger.Error("更新监考分配状态失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("监考分配已处理",
		zap.String("assignment_id", a.AssignmentID),
		zap.String("status", status),
		zap.String("user_id", callerID),
	)
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *assignmentService) ExportCalendar(ctx context.Context, userID string) ([]byte, error) {
	list, err := s.repo.Assignment.ListByUser(ctx, userID, model.AssignmentAccepted)
	if err != nil {
		s.logger.Error("查询监考分配失败", zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	stamp := time.Now().UTC()
	for i := range list {
		a := &list[i]
		if a.Exam == nil {
			continue
		}
		evt := cal.AddEvent(a.AssignmentID + "@proctorhub")
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(a.Exam.ExamDate.UTC())
		evt.SetEndAt(a.Exam.EndsAt().UTC())
		evt.SetSummary(fmt.Sprintf("监考 %s", a.Exam.CourseCode))
		evt.SetDescription(fmt.Sprintf("院系 %s，时长 %d 分钟", a.Exam.Department, a.Exam.DurationMinutes))
		if a.Exam.Classroom != "" {
			evt.SetLocation(a.Exam.Classroom)
		}
	}
	return []byte(cal.Serialize()), nil
}

func (s *assignmentService) GetWorkload(ctx context.Context, userID string) (*dto.WorkloadResponse, error) {
	u, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	resp := toWorkloadResponse(u)
	return &resp, nil
}
