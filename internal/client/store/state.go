// Package store - состояние клиента (авторизация и уведомления) с чистыми редьюсерами.
package store

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// AuthState - состояние авторизации.
type AuthState struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
	SuccessMessage  string
}

// CategoryCounts - непрочитанные уведомления по категориям.
type CategoryCounts struct {
	JobMatches   int
	Applications int
	Messages     int
	System       int
}

// NotificationsState - состояние уведомлений.
type NotificationsState struct {
	Items       []models.Notification
	UnreadCount int
	IsLoading   bool
	Error       string
	Categories  CategoryCounts
}

// State - всё состояние клиента.
type State struct {
	Auth          AuthState
	Notifications NotificationsState
}

// ActionType - ключ действия.
type ActionType string

const (
	LoginPending      ActionType = "auth/login/pending"
	LoginFulfilled    ActionType = "auth/login/fulfilled"
	LoginRejected     ActionType = "auth/login/rejected"
	RegisterFulfilled ActionType = "auth/register/fulfilled"
	Logout            ActionType = "auth/logout"

	FetchNotificationsPending   ActionType = "notifications/fetch/pending"
	FetchNotificationsFulfilled ActionType = "notifications/fetch/fulfilled"
	FetchNotificationsRejected  ActionType = "notifications/fetch/rejected"
	AddNotification             ActionType = "notifications/add"
	MarkReadFulfilled           ActionType = "notifications/markAsRead/fulfilled"
	ClearNotifications          ActionType = "notifications/clear"
	UpdateUnreadCount           ActionType = "notifications/updateUnreadCount"
)

// Action - действие. Используются только поля, нужные для Type.
type Action struct {
	Type          ActionType
	User          *models.User
	Error         string
	Notifications []models.Notification
	Notification  *models.Notification
	ID            uuid.UUID
	Count         int
}

// Initial возвращает начальное состояние. user - восстановленный из сессии пользователь или nil.
func Initial(user *models.User) State {
	return State{Auth: AuthState{User: user, IsAuthenticated: user != nil}}
}
