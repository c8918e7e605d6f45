package models

import (
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

// UpdateStatusRequest смена статуса персоналом
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ListRequest фильтр списка бронирований для персонала
type ListRequest struct {
	Status  *string
	PetType *string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.BookingsFilter, bool) {
	filter := domain.BookingsFilter{
		StartDate: r.From,
		EndDate:   r.To,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if r.Status != nil {
		status, ok := domain.ParseBookingStatus(*r.Status)
		if !ok {
			return filter, false
		}
		filter.Status = &status
	}
	if r.PetType != nil {
		petType := domain.PetType(*r.PetType)
		if !petType.Valid() {
			return filter, false
		}
		filter.PetType = &petType
	}
	return filter, true
}

// PricingResponse расчет стоимости бронирования
type PricingResponse struct {
	DailyRate      float64 `json:"dailyRate"`
	Days           int     `json:"days"`
	Subtotal       float64 `json:"subtotal"`
	AddOnsTotal    float64 `json:"addOnsTotal"`
	Discount       float64 `json:"discount"`
	DiscountReason string  `json:"discountReason,omitempty"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64                   `json:"id"`
	BookingNumber string                  `json:"bookingNumber"`
	UserID        *int64                  `json:"userId,omitempty"`
	ServiceType   domain.ServiceType      `json:"serviceType"`
	PetType       domain.PetType          `json:"petType"`
	Pets          []domain.PetSnapshot    `json:"pets"`
	Customer      domain.CustomerSnapshot `json:"customer"`
	StartDate     string                  `json:"startDate"` // "2025-10-15"
	EndDate       string                  `json:"endDate"`
	Status        domain.BookingStatus    `json:"status"`
	PaymentStatus domain.PaymentStatus    `json:"paymentStatus"`
	Pricing       PricingResponse         `json:"pricing"`
	AddOns        []domain.BookingAddOn   `json:"addOns"`
	PaidAmount    float64                 `json:"paidAmount"`
	Refunded      float64                 `json:"refundedAmount"`

	SpecialRequests    *string    `json:"specialRequests,omitempty"`
	ActualCheckIn      *time.Time `json:"actualCheckIn,omitempty"`
	ActualCheckOut     *time.Time `json:"actualCheckOut,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *string    `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		UserID:        b.UserID,
		ServiceType:   b.ServiceType,
		PetType:       b.PetType,
		Pets:          b.Pets,
		Customer:      b.Customer,
		StartDate:     b.StartDate.Format(domain.DateFormat),
		EndDate:       b.EndDate.Format(domain.DateFormat),
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Pricing: PricingResponse{
			DailyRate:      b.Pricing.DailyRate,
			Days:           b.Pricing.Days,
			Subtotal:       b.Pricing.Subtotal,
			AddOnsTotal:    b.Pricing.AddOnsTotal,
			Discount:       b.Pricing.Discount,
			DiscountReason: b.Pricing.DiscountReason,
			Tax:            b.Pricing.Tax,
			Total:          b.Pricing.Total,
		},
		AddOns:             b.AddOns,
		PaidAmount:         b.PaidAmount,
		Refunded:           b.RefundedAmount,
		SpecialRequests:    b.SpecialRequests,
		ActualCheckIn:      b.ActualCheckIn,
		ActualCheckOut:     b.ActualCheckOut,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if resp.AddOns == nil {
		resp.AddOns = []domain.BookingAddOn{}
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}
	return resp
}
