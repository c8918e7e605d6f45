package payments

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payments client: internal error")

	// ErrProvider провайдер недоступен или отклонил запрос
	ErrProvider = errors.New("payments client: provider error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("payments client: invalid response")

	// ErrInvalidSignature подпись вебхука не совпала или устарела
	ErrInvalidSignature = errors.New("payments client: invalid webhook signature")

	// ErrInvalidEvent тело вебхука не разобрано
	ErrInvalidEvent = errors.New("payments client: invalid webhook event")
)
