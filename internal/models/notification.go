package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Категории уведомлений.
const (
	NotificationCategoryJobMatches   = "job_matches"
	NotificationCategoryApplications = "applications"
	NotificationCategoryMessages     = "messages"
	NotificationCategorySystem       = "system"
)

// ValidNotificationCategories список известных категорий.
var ValidNotificationCategories = map[string]struct{}{
	NotificationCategoryJobMatches:   {},
	NotificationCategoryApplications: {},
	NotificationCategoryMessages:     {},
	NotificationCategorySystem:       {},
}

// Notification описывает событие, отправленное пользователю.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Category  string          `db:"category" json:"category"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// UnreadCount - число непрочитанных уведомлений по категориям.
type UnreadCount struct {
	Total        int `json:"total"`
	JobMatches   int `json:"jobMatches"`
	Applications int `json:"applications"`
	Messages     int `json:"messages"`
	System       int `json:"system"`
}
