package availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных датах, типе питомца или емкости
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
