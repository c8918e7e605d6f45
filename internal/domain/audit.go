package domain

import (
	"encoding/json"
	"strconv"
)

// Действия журнала аудита
const (
	AuditBookingStatusChanged = "booking.status_changed"
	AuditBookingCancelled     = "booking.cancelled"
	AuditRefundIssued         = "order.refund_issued"
	AuditSettingsUpdated      = "settings.updated"
	AuditAvailabilityUpdated  = "availability.updated"
)

// Типы сущностей журнала аудита
const (
	EntityBooking      = "booking"
	EntityOrder        = "order"
	EntitySettings     = "settings"
	EntityAvailability = "availability"
)

// NewAuditLog собирает запись аудита. Детали, которые не удалось сериализовать, сохраняются как {}.
func NewAuditLog(actorID *int64, action, entityType, entityID string, details interface{}) *AuditLog {
	raw, err := json.Marshal(details)
	if err != nil || details == nil {
		raw = json.RawMessage(`{}`)
	}
	return &AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
	}
}

// EntityRef строковый идентификатор для числового id
func EntityRef(id int64) string {
	return strconv.FormatInt(id, 10)
}
