package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
)

// SwapRequestRepository 换班申请数据访问接口
type SwapRequestRepository interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询，必须在事务内调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.SwapRequest, error)
	// ExistsPending 申请人对同一场考试是否已有待处理申请
	ExistsPending(ctx context.Context, requesterID, examID string) (bool, error)
	// Resolve 条件更新：仅当申请仍为 pending 且版本未变时流转到终态，
	// 未命中任何行时返回 ErrOptimisticLock
	Resolve(ctx context.Context, req *model.SwapRequest) error
	// ListIncoming 指定给该用户且待处理的定向申请
	ListIncoming(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error)
	// ListForum 待处理的论坛帖，排除该用户自己发布的
	ListForum(ctx context.Context, excludeUserID string, offset, limit int) ([]model.SwapRequest, int64, error)
	// ListByRequester 该用户提交过的全部申请
	ListByRequester(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error)
}

type swapRequestRepo struct {
	db *gorm.DB
}

// NewSwapRequestRepo 创建 SwapRequestRepository 实例
func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, req *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.withDetails(ctx).
		Where("swap_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("swap_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepo) ExistsPending(ctx context.Context, requesterID, examID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("requester_id = ? AND exam_id = ? AND status = ?", requesterID, examID, model.SwapPending).
		Count(&count).Error
	return count > 0, err
}

func (r *swapRequestRepo) Resolve(ctx context.Context, req *model.SwapRequest) error {
	oldVersion := req.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("swap_request_id = ? AND status = ? AND version = ?", req.SwapRequestID, model.SwapPending, oldVersion).
		Updates(map[string]interface{}{
			"status":             req.Status,
			"target_user_id":     req.TargetUserID,
			"respondent_exam_id": req.RespondentExamID,
			"resolved_at":        req.ResolvedAt,
			"resolved_by":        req.ResolvedBy,
			"updated_at":         now,
			"updated_by":         req.ResolvedBy,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	req.UpdatedAt = now
	return nil
}

func (r *swapRequestRepo) ListIncoming(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error) {
	return r.page(ctx, offset, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("target_user_id = ? AND is_forum_post = ? AND status = ?", userID, false, model.SwapPending)
	})
}

func (r *swapRequestRepo) ListForum(ctx context.Context, excludeUserID string, offset, limit int) ([]model.SwapRequest, int64, error) {
	return r.page(ctx, offset, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_forum_post = ? AND status = ? AND requester_id <> ?", true, model.SwapPending, excludeUserID)
	})
}

func (r *swapRequestRepo) ListByRequester(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error) {
	return r.page(ctx, offset, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("requester_id = ?", userID)
	})
}

// ── 内部辅助 ──

func (r *swapRequestRepo) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Exam").
		Preload("Requester").
		Preload("TargetUser").
		Preload("RespondentExam")
}

func (r *swapRequestRepo) page(ctx context.Context, offset, limit int, scope func(*gorm.DB) *gorm.DB) ([]model.SwapRequest, int64, error) {
	var list []model.SwapRequest
	var total int64

	if err := scope(r.db.WithContext(ctx).Model(&model.SwapRequest{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := scope(r.withDetails(ctx)).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&list).Error
	return list, total, err
}
