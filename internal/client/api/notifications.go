package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// ListNotifications возвращает уведомления текущего пользователя.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	path := "/notifications"
	if unreadOnly {
		path += "?unread_only=true"
	}

	var items []models.Notification
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodPut, "/notifications/"+id.String()+"/read", nil, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (*models.UnreadCount, error) {
	var count models.UnreadCount
	if err := c.doJSON(ctx, http.MethodGet, "/notifications/unread/count", nil, &count); err != nil {
		return nil, err
	}
	return &count, nil
}
