package domain

import (
	"encoding/json"
	"time"
)

// NotificationType kind of user notification
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationReviewRequest    NotificationType = "review_request"
	NotificationStayReminder     NotificationType = "stay_reminder"
	NotificationRefundIssued     NotificationType = "refund_issued"
)

type Notification struct {
	ID        int64
	UserID    int64
	Type      NotificationType
	Title     string
	Message   string
	BookingID *int64
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Review post-stay review, one per booking
type Review struct {
	ID          int64
	BookingID   int64
	UserID      int64
	AuthorName  string
	Rating      int
	Comment     string
	IsPublished bool
	CreatedAt   time.Time
}

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type ChatConversationStatus string

const (
	ChatOpen   ChatConversationStatus = "open"
	ChatClosed ChatConversationStatus = "closed"
)

type ChatSender string

const (
	ChatSenderCustomer ChatSender = "customer"
	ChatSenderStaff    ChatSender = "staff"
)

type ChatConversation struct {
	ID            int64
	UserID        int64
	Status        ChatConversationStatus
	LastMessageAt *time.Time
	CreatedAt     time.Time
	Messages      []ChatMessage
}

type ChatMessage struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	SenderRole     ChatSender
	Body           string
	CreatedAt      time.Time
}

const MaxChatMessageLength = 2000

// AuditLog operational trail for state-changing actions
type AuditLog struct {
	ID         int64
	ActorID    *int64
	Action     string
	EntityType string
	EntityID   string
	Details    json.RawMessage
	CreatedAt  time.Time
}

type EmailStatus string

const (
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
	EmailSkipped EmailStatus = "skipped"
)

type EmailLog struct {
	ID                int64
	Recipient         string
	Template          string
	Subject           string
	Status            EmailStatus
	ProviderMessageID *string
	Error             *string
	CreatedAt         time.Time
}

type CronStatus string

const (
	CronRunning   CronStatus = "running"
	CronSucceeded CronStatus = "succeeded"
	CronFailed    CronStatus = "failed"
)

type CronLog struct {
	ID         int64
	JobName    string
	Status     CronStatus
	Processed  int
	Error      *string
	StartedAt  time.Time
	FinishedAt *time.Time
}
