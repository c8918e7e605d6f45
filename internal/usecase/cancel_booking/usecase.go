package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/PetBoardingService/internal/domain"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
)

const refundReason = "booking cancelled"

// UseCase отмена бронирования с возвратом оплаты и освобождением мест
type UseCase struct {
	bookingRepo  BookingRepository
	orderRepo    OrderRepository
	refunds      RefundService
	capacity     CapacityReleaser
	events       EventPublisher
	auditRepo    AuditRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	orderRepo OrderRepository,
	refunds RefundService,
	capacity CapacityReleaser,
	events EventPublisher,
	auditRepo AuditRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		orderRepo:    orderRepo,
		refunds:      refunds,
		capacity:     capacity,
		events:       events,
		auditRepo:    auditRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет бронирование.
// Оплаченный остаток возвращается у провайдера до транзакции; запись возврата,
// отмена неоплаченных заказов, смена статуса и освобождение мест идут в одной транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Actor == nil {
		return nil, ErrAccessDenied
	}
	uc.logger.Info("CancelBooking: booking id=%d by user=%d role=%s", req.BookingID, req.Actor.ID, req.Actor.Role)

	// 1. Валидация
	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// 2. Бронирование и права
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: repository error: %v", err)
		return nil, fmt.Errorf("%w: get booking: %v", ErrInternal, err)
	}
	if !booking.IsOwnedBy(req.Actor.ID) && !req.Actor.IsStaff() {
		uc.logger.Warn("CancelBooking: user=%d is not allowed to cancel booking=%s", req.Actor.ID, booking.BookingNumber)
		return nil, ErrAccessDenied
	}
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking=%s has status=%s", booking.BookingNumber, booking.Status)
		return nil, fmt.Errorf("%w: booking %s is %s", domain.ErrInvalidTransition, booking.BookingNumber, booking.Status)
	}

	// 3. Возврат оплаченного остатка у провайдера
	var (
		refund  *domain.Refund
		orderID string
	)
	if booking.RefundableAmount() > 0 {
		order, err := uc.orderRepo.GetSettledByBookingID(ctx, booking.ID)
		if err != nil {
			uc.logger.Error("CancelBooking: booking=%s paid %.2f but settled order not loaded: %v",
				booking.BookingNumber, booking.PaidAmount, err)
			return nil, fmt.Errorf("%w: settled order: %v", ErrInternal, err)
		}

		if amount := order.RefundableAmount(); amount > 0 {
			refund, err = uc.refunds.IssueRefund(ctx, order, amount, refundReason, &req.Actor.ID)
			if err != nil {
				return nil, err
			}
			orderID = order.OrderID
		}
	}

	// 4. Запись отмены
	now := uc.timeProvider.Now().UTC()
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if refund != nil {
			if _, _, err := uc.refunds.ApplyRefundTx(txCtx, orderID, refund); err != nil {
				return err
			}
		}

		// 4.1. Перечитываем с блокировкой: статус мог измениться, возврат уже записан
		current, err := uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: lock booking: %v", ErrInternal, err)
		}

		if _, err := uc.orderRepo.CancelAwaitingByBooking(txCtx, current.ID, refundReason); err != nil {
			return fmt.Errorf("%w: cancel awaiting orders: %w", ErrInternal, err)
		}

		heldCapacity := current.HoldsCapacity()
		if err := current.TransitionTo(domain.StatusCancelled, now); err != nil {
			return err
		}
		if reason != "" {
			current.CancellationReason = &reason
		}

		// 4.2. Места возвращаются один раз: после неудачной оплаты они уже свободны
		if heldCapacity {
			if err := uc.capacity.Release(txCtx, current.PetType, current.StayDates(), current.PetCount()); err != nil {
				return fmt.Errorf("%w: release capacity: %w", ErrInternal, err)
			}
		}

		if err := uc.bookingRepo.UpdateState(txCtx, current); err != nil {
			return fmt.Errorf("%w: update booking: %w", ErrInternal, err)
		}

		details := map[string]interface{}{
			"bookingNumber": current.BookingNumber,
			"reason":        reason,
			"refunded":      current.RefundedAmount,
			"byStaff":       !current.IsOwnedBy(req.Actor.ID),
		}
		entry := domain.NewAuditLog(&req.Actor.ID, domain.AuditBookingCancelled, domain.EntityBooking,
			domain.EntityRef(current.ID), details)
		if err := uc.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: audit: %w", ErrInternal, err)
		}

		booking = current
		return nil
	})
	if err != nil {
		if refund != nil {
			uc.logger.Error("CancelBooking: refund=%s issued at provider but cancellation of booking=%s failed: %v",
				refund.RefundID, booking.BookingNumber, err)
		} else {
			uc.logger.Error("CancelBooking: booking=%s: %v", booking.BookingNumber, err)
		}
		return nil, err
	}

	if refund != nil {
		uc.metrics.IncRefund("cancellation")
	}
	uc.logger.Info("CancelBooking: booking=%s cancelled, refunded=%.2f", booking.BookingNumber, booking.RefundedAmount)

	// 5. Событие после фиксации
	if err := uc.events.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCancelled, booking, now)); err != nil {
		uc.logger.Error("CancelBooking: publish cancelled for booking=%s: %v", booking.BookingNumber, err)
	}

	resp := &Response{
		BookingNumber:  booking.BookingNumber,
		Status:         booking.Status,
		PaymentStatus:  booking.PaymentStatus,
		RefundedAmount: booking.RefundedAmount,
	}
	if refund != nil {
		resp.RefundID = &refund.RefundID
	}
	return resp, nil
}
