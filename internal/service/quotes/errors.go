package quotes

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных датах, услуге, питомцах или add-on
	ErrInvalidInput = errors.New("quotes: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("quotes: internal error")
)
