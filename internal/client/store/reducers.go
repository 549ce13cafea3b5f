package store

import (
	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// Reduce применяет действие ко всему состоянию.
func Reduce(s State, a Action) State {
	return State{
		Auth:          ReduceAuth(s.Auth, a),
		Notifications: ReduceNotifications(s.Notifications, a),
	}
}

// ReduceAuth - редьюсер авторизации.
func ReduceAuth(s AuthState, a Action) AuthState {
	switch a.Type {
	case LoginPending:
		s.IsLoading = true
		s.Error = ""
	case LoginFulfilled, RegisterFulfilled:
		s.IsLoading = false
		s.IsAuthenticated = a.User != nil
		s.User = copyUser(a.User)
		s.Error = ""
		if a.Type == LoginFulfilled {
			s.SuccessMessage = "Вход выполнен"
		} else {
			s.SuccessMessage = "Регистрация прошла успешно"
		}
	case LoginRejected:
		s.IsLoading = false
		s.IsAuthenticated = false
		s.User = nil
		s.Error = a.Error
		s.SuccessMessage = ""
	case Logout:
		return AuthState{}
	}
	return s
}

// ReduceNotifications - редьюсер уведомлений.
func ReduceNotifications(s NotificationsState, a Action) NotificationsState {
	switch a.Type {
	case FetchNotificationsPending:
		s.IsLoading = true
	case FetchNotificationsFulfilled:
		s.IsLoading = false
		s.Error = ""
		s.Items = append([]models.Notification(nil), a.Notifications...)
		s.UnreadCount = 0
		s.Categories = CategoryCounts{}
		for _, n := range s.Items {
			if !n.IsRead {
				s.UnreadCount++
				s.Categories.add(n.Category, 1)
			}
		}
	case FetchNotificationsRejected:
		s.IsLoading = false
		s.Error = a.Error
	case AddNotification:
		if a.Notification == nil {
			return s
		}
		items := make([]models.Notification, 0, len(s.Items)+1)
		items = append(items, *a.Notification)
		s.Items = append(items, s.Items...)
		if !a.Notification.IsRead {
			s.UnreadCount++
			s.Categories.add(a.Notification.Category, 1)
		}
	case MarkReadFulfilled:
		items := append([]models.Notification(nil), s.Items...)
		for i := range items {
			if items[i].ID == a.ID && !items[i].IsRead {
				items[i].IsRead = true
				s.UnreadCount--
				s.Categories.add(items[i].Category, -1)
				break
			}
		}
		s.Items = items
	case ClearNotifications:
		s.Items = nil
		s.UnreadCount = 0
		s.Categories = CategoryCounts{}
	case UpdateUnreadCount:
		s.UnreadCount = a.Count
	}
	return s
}

// add меняет счётчик категории. Неизвестные категории игнорируются.
func (c *CategoryCounts) add(category string, delta int) {
	switch category {
	case models.NotificationCategoryJobMatches:
		c.JobMatches += delta
	case models.NotificationCategoryApplications:
		c.Applications += delta
	case models.NotificationCategoryMessages:
		c.Messages += delta
	case models.NotificationCategorySystem:
		c.System += delta
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}
