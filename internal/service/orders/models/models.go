package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// RefundRequest административный возврат. Amount = 0 означает весь остаток.
type RefundRequest struct {
	OrderID string
	Amount  float64
	Reason  string
}

// RefundResponse запись о возврате
type RefundResponse struct {
	RefundID  string              `json:"refundId"`
	Amount    float64             `json:"amount"`
	Reason    string              `json:"reason"`
	Status    domain.RefundStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// OrderResponse заказ в истории платежей
type OrderResponse struct {
	OrderID     string             `json:"orderId"`
	BookingID   int64              `json:"bookingId"`
	Status      domain.OrderStatus `json:"status"`
	Currency    string             `json:"currency"`
	Subtotal    float64            `json:"subtotal"`
	Discount    float64            `json:"discount"`
	Tax         float64            `json:"tax"`
	Total       float64            `json:"total"`
	Charge      float64            `json:"charge"`
	Paid        float64            `json:"paid"`
	Refunded    float64            `json:"refunded"`
	CheckoutURL *string            `json:"checkoutUrl,omitempty"`
	Refunds     []RefundResponse   `json:"refunds"`
	ExpiresAt   time.Time          `json:"expiresAt"`
	PaidAt      *time.Time         `json:"paidAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func FromDomainOrder(o *domain.Order) *OrderResponse {
	refunds := make([]RefundResponse, 0, len(o.Refunds))
	for _, r := range o.Refunds {
		refunds = append(refunds, RefundResponse{
			RefundID:  r.RefundID,
			Amount:    r.Amount,
			Reason:    r.Reason,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}

	resp := &OrderResponse{
		OrderID:   o.OrderID,
		BookingID: o.BookingID,
		Status:    o.Status,
		Currency:  o.Currency,
		Subtotal:  o.Amounts.Subtotal,
		Discount:  o.Amounts.Discount,
		Tax:       o.Amounts.Tax,
		Total:     o.Amounts.Total,
		Charge:    o.Amounts.Charge,
		Paid:      o.Amounts.Paid,
		Refunded:  o.Amounts.Refunded,
		Refunds:   refunds,
		ExpiresAt: o.ExpiresAt,
		PaidAt:    o.PaidAt,
		CreatedAt: o.CreatedAt,
	}
	// ссылка на оплату нужна только пока заказ ждет оплаты
	if o.IsAwaitingPayment() {
		resp.CheckoutURL = o.CheckoutURL
	}
	return resp
}

func FromDomainOrderList(orders []*domain.Order) []*OrderResponse {
	res := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, FromDomainOrder(o))
	}
	return res
}
