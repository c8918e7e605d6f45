package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("users: user not found")

	// ErrPetNotFound возвращается, когда питомец не найден или принадлежит другому пользователю
	ErrPetNotFound = errors.New("users: pet not found")

	// ErrInvalidInput возвращается при некорректных данных профиля или питомца
	ErrInvalidInput = errors.New("users: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
