package domain

import (
	"fmt"
	"time"
)

// OrderStatus status of a payment attempt
type OrderStatus string

const (
	OrderPending           OrderStatus = "pending"
	OrderProcessing        OrderStatus = "processing"
	OrderPaid              OrderStatus = "paid"
	OrderFailed            OrderStatus = "failed"
	OrderExpired           OrderStatus = "expired"
	OrderCancelled         OrderStatus = "cancelled"
	OrderRefunded          OrderStatus = "refunded"
	OrderPartiallyRefunded OrderStatus = "partially_refunded"
)

// RefundStatus status of a single refund
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
)

// OrderAmounts amounts snapshotted at checkout; Charge is what the session collects
type OrderAmounts struct {
	Subtotal float64
	Discount float64
	Tax      float64
	Total    float64
	Charge   float64
	Paid     float64
	Refunded float64
}

// Refund append-only refund record
type Refund struct {
	ID               int64
	RefundID         string
	OrderID          int64
	ProviderRefundID *string
	Amount           float64
	Reason           string
	Status           RefundStatus
	CreatedBy        *int64
	CreatedAt        time.Time
}

// Order one payment session tied to a booking
type Order struct {
	ID                      int64
	OrderID                 string
	BookingID               int64
	UserID                  *int64
	ProviderSessionID       *string
	ProviderPaymentIntentID *string
	ProviderCustomerID      *string
	CheckoutURL             *string
	Amounts                 OrderAmounts
	Currency                string
	Status                  OrderStatus
	Refunds                 []Refund
	ExpiresAt               time.Time
	PaidAt                  *time.Time
	FailureReason           *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsAwaitingPayment session created or about to be created, not settled yet
func (o *Order) IsAwaitingPayment() bool {
	return o.Status == OrderPending || o.Status == OrderProcessing
}

// IsExpired true if still unpaid after expiresAt
func (o *Order) IsExpired(now time.Time) bool {
	return o.IsAwaitingPayment() && !o.ExpiresAt.IsZero() && now.After(o.ExpiresAt)
}

// MarkPaid settles the order. amount <= 0 means the full charge.
func (o *Order) MarkPaid(amount float64, at time.Time) {
	if amount <= 0 || amount > o.Amounts.Charge {
		amount = o.Amounts.Charge
	}
	o.Amounts.Paid = RoundMoney(amount)
	o.Status = OrderPaid
	o.PaidAt = &at
}

// MarkUnpaid closes an unpaid order as failed, expired or cancelled
func (o *Order) MarkUnpaid(status OrderStatus, reason string) {
	o.Status = status
	if reason != "" {
		o.FailureReason = &reason
	}
}

// RefundableAmount paid - refunded
func (o *Order) RefundableAmount() float64 {
	return RoundMoney(o.Amounts.Paid - o.Amounts.Refunded)
}

// HasSettledPayment order collected money at some point
func (o *Order) HasSettledPayment() bool {
	return o.Status == OrderPaid || o.Status == OrderPartiallyRefunded || o.Status == OrderRefunded
}

// ApplyRefund appends a refund and recomputes status.
// Sum of refunds never exceeds the paid amount.
func (o *Order) ApplyRefund(r Refund) error {
	if !o.HasSettledPayment() {
		return fmt.Errorf("%w: order %s has no settled payment", ErrInvalidRefundAmount, o.OrderID)
	}
	if ToCents(r.Amount) <= 0 {
		return fmt.Errorf("%w: refund amount must be positive", ErrInvalidRefundAmount)
	}
	if ToCents(r.Amount) > ToCents(o.RefundableAmount()) {
		return fmt.Errorf("%w: refund %.2f exceeds refundable %.2f",
			ErrInvalidRefundAmount, r.Amount, o.RefundableAmount())
	}

	r.Amount = RoundMoney(r.Amount)
	o.Refunds = append(o.Refunds, r)
	o.Amounts.Refunded = RoundMoney(o.Amounts.Refunded + r.Amount)

	if ToCents(o.Amounts.Refunded) == ToCents(o.Amounts.Paid) {
		o.Status = OrderRefunded
	} else {
		o.Status = OrderPartiallyRefunded
	}
	return nil
}

// RefundsTotal sum of recorded refunds
func (o *Order) RefundsTotal() float64 {
	var sum float64
	for _, r := range o.Refunds {
		sum += r.Amount
	}
	return RoundMoney(sum)
}
