package notifications

import "errors"

var (
	// ErrNotificationNotFound уведомление не найдено или принадлежит другому пользователю
	ErrNotificationNotFound = errors.New("notifications: notification not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("notifications: internal error")
)
