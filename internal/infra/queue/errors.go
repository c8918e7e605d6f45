package queue

import "errors"

var (
	// ErrConnect не удалось подключиться к брокеру
	ErrConnect = errors.New("queue: failed to connect to broker")

	// ErrPublish не удалось опубликовать сообщение
	ErrPublish = errors.New("queue: failed to publish message")

	// ErrDecode сообщение не является событием бронирования
	ErrDecode = errors.New("queue: failed to decode message")

	// ErrDeliveriesClosed брокер закрыл канал доставки
	ErrDeliveriesClosed = errors.New("queue: deliveries channel closed")
)
