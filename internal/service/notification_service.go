package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Gall-ardo/ProctorHub-sub002/internal/dto"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/model"
	"github.com/Gall-ardo/ProctorHub-sub002/internal/repository"
)

// ── 通知 ──

// Notice 一条待投递的通知
type Notice struct {
	RecipientID string
	Type        string
	Subject     string
	Message     string
	SwapID      string
	At          time.Time
}

// NotificationSink 通知投递出口
// 投递是尽力而为的：调用方记录错误后忽略，不影响已完成的业务操作。
type NotificationSink interface {
	Send(ctx context.Context, n Notice) error
}

// Publisher 实时推送通道（Redis Pub/Sub）
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// storeSink 通知先落库，再推送到实时频道
type storeSink struct {
	repo      *repository.Repository
	publisher Publisher
	channel   string
}

// NewNotificationSink 创建通知出口；publisher 为 nil 或 channel 为空时只落库
func NewNotificationSink(repo *repository.Repository, publisher Publisher, channel string) NotificationSink {
	return &storeSink{repo: repo, publisher: publisher, channel: channel}
}

// pushMessage 推送到频道的消息体
type pushMessage struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	SwapRequestID  string    `json:"swap_request_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *storeSink) Send(ctx context.Context, n Notice) error {
	record := &model.Notification{
		UserID:  n.RecipientID,
		Type:    n.Type,
		Title:   n.Subject,
		Content: n.Message,
	}
	record.CreatedAt = n.At
	record.UpdatedAt = n.At
	if n.SwapID != "" {
		relatedType := "swap_request"
		record.RelatedType = &relatedType
		record.RelatedID = &n.SwapID
	}
	if err := s.repo.Notification.Create(ctx, record); err != nil {
		return err
	}

	if s.publisher == nil || s.channel == "" {
		return nil
	}
	payload, err := json.Marshal(pushMessage{
		NotificationID: record.NotificationID,
		UserID:         record.UserID,
		Type:           record.Type,
		Title:          record.Title,
		Content:        record.Content,
		SwapRequestID:  n.SwapID,
		CreatedAt:      n.At,
	})
	if err != nil {
		return err
	}
	_, err = s.publisher.Publish(ctx, s.channel, payload)
	return err
}

// NotificationService 通知查询接口
type NotificationService interface {
	ListMine(ctx context.Context, userID string, req *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListMine(ctx context.Context, userID string, req *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.ListByUser(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		n := &list[i]
		item := dto.NotificationResponse{
			ID:        n.NotificationID,
			Type:      n.Type,
			Title:     n.Title,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.RelatedType != nil {
			item.RelatedType = *n.RelatedType
		}
		if n.RelatedID != nil {
			item.RelatedID = *n.RelatedID
		}
		result = append(result, item)
	}
	return result, total, nil
}
