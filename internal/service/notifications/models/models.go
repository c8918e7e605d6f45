package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

type NotificationResponse struct {
	ID        int64                   `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	BookingID *int64                  `json:"bookingId,omitempty"`
	IsRead    bool                    `json:"isRead"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
}

func FromDomainList(items []*domain.Notification) []NotificationResponse {
	res := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		res = append(res, NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			BookingID: n.BookingID,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return res
}
