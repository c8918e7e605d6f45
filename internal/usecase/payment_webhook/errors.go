package payment_webhook

import "errors"

var (
	// ErrInvalidSignature подпись вебхука не прошла проверку
	ErrInvalidSignature = errors.New("payment_webhook: invalid signature")

	// ErrInvalidPayload тело вебхука не разобрано
	ErrInvalidPayload = errors.New("payment_webhook: invalid payload")

	// ErrInternal возвращается при внутренних ошибках, провайдер повторит доставку
	ErrInternal = errors.New("payment_webhook: internal error")
)
