package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/logger"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountUnreadByCategory(ctx context.Context, userID uuid.UUID) (map[string]int, error)
}

// Pusher доставляет событие подключённым клиентам пользователя.
type Pusher interface {
	Push(userID uuid.UUID, event string, data any) error
}

// Событие WebSocket о новом уведомлении.
const EventNotification = "notification"

// NotificationService содержит бизнес-логику работы с уведомлениями.
type NotificationService struct {
	repo   NotificationRepository
	pusher Pusher
}

// NewNotificationService создаёт новый сервис уведомлений. pusher может быть nil.
func NewNotificationService(repo NotificationRepository, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Notify сохраняет уведомление и отправляет его по WebSocket.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, category, event string, data interface{}) (*models.Notification, error) {
	if _, ok := models.ValidNotificationCategories[category]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неизвестная категория уведомления: %s", category))
	}

	payload := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload %w", err)
	}

	notification := &models.Notification{
		UserID:   userID,
		Category: category,
		Payload:  payloadBytes,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		if err := s.pusher.Push(userID, EventNotification, notification); err != nil {
			logger.Component("notifications").WithError(err).WithField("user_id", userID).Warn("не удалось отправить уведомление по websocket")
		}
	}

	return notification, nil
}

// ListNotifications возвращает список уведомлений пользователя.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// GetNotification возвращает уведомление пользователя.
func (s *NotificationService) GetNotification(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, userID, id)
	return n, mapNotificationErr(err)
}

// MarkAsRead отмечает уведомление как прочитанное.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return mapNotificationErr(s.repo.MarkAsRead(ctx, userID, id))
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// DeleteNotification удаляет уведомление.
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, id uuid.UUID) error {
	return mapNotificationErr(s.repo.Delete(ctx, userID, id))
}

// CountUnread возвращает количество непрочитанных уведомлений по категориям.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (*models.UnreadCount, error) {
	byCategory, err := s.repo.CountUnreadByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := &models.UnreadCount{
		JobMatches:   byCategory[models.NotificationCategoryJobMatches],
		Applications: byCategory[models.NotificationCategoryApplications],
		Messages:     byCategory[models.NotificationCategoryMessages],
		System:       byCategory[models.NotificationCategorySystem],
	}
	for _, n := range byCategory {
		count.Total += n
	}
	return count, nil
}

func mapNotificationErr(err error) error {
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return apperror.ErrNotificationNotFound
	}
	return err
}
