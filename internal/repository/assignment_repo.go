package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	pkgerrors "github.com/Gall-ardo/ProctorHub-sub002/pkg/errors"
)

// AssignmentRepository 监考分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.ProctorAssignment) error
	GetByID(ctx context.Context, id string) (*model.ProctorAssignment, error)
	GetByExamAndUser(ctx context.Context, examID, userID string) (*model.ProctorAssignment, error)
	// GetByExamAndUserForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询，必须在事务内调用
	GetByExamAndUserForUpdate(ctx context.Context, examID, userID string) (*model.ProctorAssignment, error)
	// ListByUser status 为空时返回全部状态
	ListByUser(ctx context.Context, userID, status string) ([]model.ProctorAssignment, error)
	// UpdateStatus 接受/拒绝分配（乐观锁）
	UpdateStatus(ctx context.Context, a *model.ProctorAssignment) error
	// Reassign 原地变更分配归属（乐观锁），记录本身不删除不重建
	Reassign(ctx context.Context, a *model.ProctorAssignment, newUserID, operatorID string) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.ProctorAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.ProctorAssignment, error) {
	var a model.ProctorAssignment
	err := r.db.WithContext(ctx).
		Preload("Exam").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) GetByExamAndUser(ctx context.Context, examID, userID string) (*model.ProctorAssignment, error) {
	var a model.ProctorAssignment
	err := r.db.WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) GetByExamAndUserForUpdate(ctx context.Context, examID, userID string) (*model.ProctorAssignment, error) {
	var a model.ProctorAssignment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) ListByUser(ctx context.Context, userID, status string) ([]model.ProctorAssignment, error) {
	var list []model.ProctorAssignment
	db := r.db.WithContext(ctx).
		Preload("Exam").
		Where("user_id = ?", userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}

	// 按考试时间排序，考试缺失的排在最后
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Exam == nil || list[j].Exam == nil {
			return list[j].Exam == nil && list[i].Exam != nil
		}
		return list[i].Exam.ExamDate.Before(list[j].Exam.ExamDate)
	})
	return list, nil
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, a *model.ProctorAssignment) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(&model.ProctorAssignment{}).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"status":       a.Status,
			"responded_at": a.RespondedAt,
			"updated_by":   a.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version = oldVersion + 1
	return nil
}

func (r *assignmentRepo) Reassign(ctx context.Context, a *model.ProctorAssignment, newUserID, operatorID string) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(&model.ProctorAssignment{}).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"user_id":    newUserID,
			"updated_by": operatorID,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.UserID = newUserID
	a.Version = oldVersion + 1
	return nil
}
