package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type PostMessageRequest struct {
	Body string `json:"body"`
}

type MessageResponse struct {
	ID         int64             `json:"id"`
	SenderRole domain.ChatSender `json:"senderRole"`
	Body       string            `json:"body"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type ConversationResponse struct {
	ID            int64                         `json:"id"`
	Status        domain.ChatConversationStatus `json:"status"`
	LastMessageAt *time.Time                    `json:"lastMessageAt,omitempty"`
	Messages      []MessageResponse             `json:"messages"`
}

func FromDomainMessage(m domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderRole: m.SenderRole,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

func FromDomainConversation(c *domain.ChatConversation) *ConversationResponse {
	messages := make([]MessageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, FromDomainMessage(m))
	}
	return &ConversationResponse{
		ID:            c.ID,
		Status:        c.Status,
		LastMessageAt: c.LastMessageAt,
		Messages:      messages,
	}
}
