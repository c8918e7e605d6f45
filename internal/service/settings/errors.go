package settings

import "errors"

var (
	// ErrInvalidInput возвращается, если настройки не прошли проверку
	ErrInvalidInput = errors.New("settings: invalid settings")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("settings: internal error")
)
