package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"yks-planner/backend/internal/dto"
	"yks-planner/backend/internal/repository"
)

// ── 通知模块业务错误 ──

var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 通知业务接口
type NotificationService interface {
	List(ctx context.Context, userID string, req *dto.ListNotificationsRequest) ([]dto.NotificationResponse, int64, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID string, req *dto.ListNotificationsRequest) ([]dto.NotificationResponse, int64, error) {
	list, total, err := s.repo.Notification.ListByUser(ctx, userID, req.OnlyUnread, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		n := &list[i]
		result = append(result, dto.NotificationResponse{
			ID:          n.NotificationID,
			Title:       n.Title,
			Content:     n.Content,
			IsRead:      n.IsRead,
			RelatedType: n.RelatedType,
			RelatedID:   n.RelatedID,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	updated, err := s.repo.Notification.MarkRead(ctx, userID, notificationID)
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.String("notification_id", notificationID), zap.Error(err))
		return err
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.Notification.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("全部标记已读失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("统计未读通知失败", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}
