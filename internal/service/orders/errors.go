package orders

import "errors"

var (
	// ErrOrderNotFound возвращается, когда заказ не найден
	ErrOrderNotFound = errors.New("orders: order not found")

	// ErrBookingNotFound возвращается, когда бронирование заказа не найдено
	ErrBookingNotFound = errors.New("orders: booking not found")

	// ErrPaymentProvider платежный провайдер недоступен или отклонил запрос
	ErrPaymentProvider = errors.New("orders: payment provider error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("orders: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("orders: internal error")
)
