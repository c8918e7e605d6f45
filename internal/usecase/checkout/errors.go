package checkout

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("checkout: invalid input data")

	// ErrPetNotFound питомец из запроса не найден среди питомцев клиента
	ErrPetNotFound = errors.New("checkout: pet not found")

	// ErrPaymentProvider платежная сессия не создана, места возвращены
	ErrPaymentProvider = errors.New("checkout: payment provider error")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("checkout: internal error")
)
