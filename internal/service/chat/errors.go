package chat

import "errors"

var (
	ErrInvalidInput = errors.New("chat: invalid input data")
	ErrInternal     = errors.New("chat: internal error")
)
