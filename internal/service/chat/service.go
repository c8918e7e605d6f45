package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/PetBoardingService/internal/domain"
	chatRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/chat"
	"github.com/m04kA/PetBoardingService/internal/service/chat/models"
)

const historyLimit = 200

// Service диалог клиента с поддержкой, один открытый на пользователя
type Service struct {
	repo   ChatRepository
	logger Logger
}

func NewService(repo ChatRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Conversation открытый диалог с историей, создается при первом обращении
func (s *Service) Conversation(ctx context.Context, userID int64) (*models.ConversationResponse, error) {
	conv, err := s.openConversation(ctx, userID)
	if err != nil {
		return nil, err
	}

	conv.Messages, err = s.repo.ListMessages(ctx, conv.ID, historyLimit)
	if err != nil {
		s.logger.Error("Conversation: repository error for conversation=%d: %v", conv.ID, err)
		return nil, fmt.Errorf("%w: Conversation - list messages: %v", ErrInternal, err)
	}
	return models.FromDomainConversation(conv), nil
}

// PostMessage сообщение клиента в открытый диалог
func (s *Service) PostMessage(ctx context.Context, userID int64, req *models.PostMessageRequest) (*models.MessageResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" || len(body) > domain.MaxChatMessageLength {
		return nil, fmt.Errorf("%w: message must be 1 to %d characters", ErrInvalidInput, domain.MaxChatMessageLength)
	}

	conv, err := s.openConversation(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg, err := s.repo.AddMessage(ctx, &domain.ChatMessage{
		ConversationID: conv.ID,
		SenderID:       userID,
		SenderRole:     domain.ChatSenderCustomer,
		Body:           body,
	})
	if err != nil {
		s.logger.Error("PostMessage: repository error for conversation=%d: %v", conv.ID, err)
		return nil, fmt.Errorf("%w: PostMessage - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("PostMessage: user=%d conversation=%d message=%d", userID, conv.ID, msg.ID)
	resp := models.FromDomainMessage(*msg)
	return &resp, nil
}

func (s *Service) openConversation(ctx context.Context, userID int64) (*domain.ChatConversation, error) {
	conv, err := s.repo.GetOpenByUser(ctx, userID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, chatRepo.ErrConversationNotFound) {
		s.logger.Error("openConversation: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: openConversation - repository error: %v", ErrInternal, err)
	}

	conv, err = s.repo.CreateConversation(ctx, userID)
	if err != nil {
		s.logger.Error("openConversation: failed to create conversation for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: openConversation - create: %v", ErrInternal, err)
	}
	s.logger.Info("openConversation: opened conversation=%d for user=%d", conv.ID, userID)
	return conv, nil
}
