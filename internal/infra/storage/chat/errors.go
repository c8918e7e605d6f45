package chat

import "errors"

var (
	// ErrConversationNotFound у пользователя нет открытого диалога
	ErrConversationNotFound = errors.New("chat.repository: conversation not found")

	ErrBuildQuery = errors.New("chat.repository: failed to build query")
	ErrExecQuery  = errors.New("chat.repository: failed to execute query")
	ErrScanRow    = errors.New("chat.repository: failed to scan row")
)
