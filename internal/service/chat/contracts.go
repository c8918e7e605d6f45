package chat

import (
	"context"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type ChatRepository interface {
	GetOpenByUser(ctx context.Context, userID int64) (*domain.ChatConversation, error)
	CreateConversation(ctx context.Context, userID int64) (*domain.ChatConversation, error)
	AddMessage(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error)
	ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.ChatMessage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
