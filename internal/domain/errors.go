package domain

import "errors"

// Ошибки бизнес-правил, общие для сервисов и use case
var (
	// ErrValidation некорректные входные данные
	ErrValidation = errors.New("domain: validation error")

	// ErrCapacityExceeded на одну из дат не хватает мест
	ErrCapacityExceeded = errors.New("domain: capacity exceeded")

	// ErrInvalidTransition недопустимый переход статуса бронирования
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")

	// ErrInvalidRefundAmount сумма возврата превышает оплаченную или не положительна
	ErrInvalidRefundAmount = errors.New("domain: invalid refund amount")
)
