package payment_webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/PetBoardingService/internal/domain"
	orderRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/order"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

// UseCase сверка состояния заказа и бронирования по вебхукам провайдера.
// Повторная доставка события по уже закрытому заказу ничего не меняет.
type UseCase struct {
	parser       WebhookParser
	orderRepo    OrderRepository
	bookingRepo  BookingRepository
	orders       OrderCloser
	events       EventPublisher
	auditRepo    AuditRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	parser WebhookParser,
	orderRepo OrderRepository,
	bookingRepo BookingRepository,
	orders OrderCloser,
	events EventPublisher,
	auditRepo AuditRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		parser:       parser,
		orderRepo:    orderRepo,
		bookingRepo:  bookingRepo,
		orders:       orders,
		events:       events,
		auditRepo:    auditRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет подпись и применяет событие.
// Ошибка возвращается только для неверной подписи/тела и внутренних сбоев.
func (uc *UseCase) Execute(ctx context.Context, payload []byte, signature string) (*Result, error) {
	// 1. Подпись и разбор
	event, err := uc.parser.ParseWebhook(payload, signature)
	if err != nil {
		uc.metrics.IncWebhookEvent("unknown", string(OutcomeRejected))
		if errors.Is(err, payments.ErrInvalidSignature) {
			uc.logger.Warn("PaymentWebhook: %v", err)
			return nil, ErrInvalidSignature
		}
		uc.logger.Warn("PaymentWebhook: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	uc.logger.Info("PaymentWebhook: event=%s type=%s session=%s", event.ID, event.Type, event.SessionID)

	// 2. Применение события
	var outcome Outcome
	switch event.Type {
	case payments.EventCheckoutCompleted:
		outcome, err = uc.completed(ctx, event)
	case payments.EventCheckoutFailed:
		outcome, err = uc.unpaid(ctx, event, domain.OrderFailed)
	case payments.EventCheckoutExpired:
		outcome, err = uc.unpaid(ctx, event, domain.OrderExpired)
	default:
		outcome = OutcomeIgnored
	}
	if err != nil {
		uc.metrics.IncWebhookEvent(event.Type, string(OutcomeError))
		uc.logger.Error("PaymentWebhook: event=%s session=%s: %v", event.ID, event.SessionID, err)
		return nil, err
	}

	uc.metrics.IncWebhookEvent(event.Type, string(outcome))
	uc.logger.Info("PaymentWebhook: event=%s outcome=%s", event.ID, outcome)
	return &Result{EventType: event.Type, Outcome: outcome}, nil
}

func (uc *UseCase) completed(ctx context.Context, event *payments.Event) (Outcome, error) {
	now := uc.timeProvider.Now().UTC()
	outcome := OutcomeProcessed
	var booking *domain.Booking

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		order, found, err := uc.lockOrder(txCtx, event.SessionID)
		if err != nil || !found {
			outcome = OutcomeDiscarded
			return err
		}
		if !order.IsAwaitingPayment() {
			if order.Status == domain.OrderExpired || order.Status == domain.OrderFailed || order.Status == domain.OrderCancelled {
				// деньги списаны после закрытия заказа, нужен ручной возврат
				uc.logger.Error("PaymentWebhook: payment for closed order=%s status=%s needs manual refund",
					order.OrderID, order.Status)
			}
			outcome = OutcomeDuplicate
			return nil
		}

		booking, err = uc.bookingRepo.GetByID(txCtx, order.BookingID)
		if err != nil {
			return fmt.Errorf("%w: get booking: %v", ErrInternal, err)
		}
		if booking.Status != domain.StatusPending || booking.PaymentStatus == domain.PaymentFailed {
			uc.logger.Warn("PaymentWebhook: booking=%s is %s/%s, payment for order=%s discarded",
				booking.BookingNumber, booking.Status, booking.PaymentStatus, order.OrderID)
			outcome = OutcomeDiscarded
			booking = nil
			return nil
		}

		// заказ оплачен
		if event.PaymentIntentID != "" {
			order.ProviderPaymentIntentID = ptr.Ptr(event.PaymentIntentID)
		}
		if event.CustomerID != "" {
			order.ProviderCustomerID = ptr.Ptr(event.CustomerID)
		}
		order.MarkPaid(float64(event.AmountCents)/100, now)
		if err := uc.orderRepo.UpdateStatus(txCtx, order); err != nil {
			return fmt.Errorf("%w: update order: %w", ErrInternal, err)
		}

		// бронирование подтверждено
		booking.ApplyPayment(order.Amounts.Paid)
		if err := booking.TransitionTo(domain.StatusConfirmed, now); err != nil {
			return err
		}
		if err := uc.bookingRepo.UpdateState(txCtx, booking); err != nil {
			return fmt.Errorf("%w: update booking: %w", ErrInternal, err)
		}

		entry := domain.NewAuditLog(nil, domain.AuditBookingStatusChanged, domain.EntityBooking,
			domain.EntityRef(booking.ID), map[string]interface{}{
				"bookingNumber": booking.BookingNumber,
				"from":          domain.StatusPending,
				"to":            domain.StatusConfirmed,
				"orderId":       order.OrderID,
				"paid":          order.Amounts.Paid,
			})
		if err := uc.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: audit: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return OutcomeError, err
	}

	if booking != nil {
		uc.logger.Info("PaymentWebhook: booking=%s confirmed, paid=%.2f status=%s",
			booking.BookingNumber, booking.PaidAmount, booking.PaymentStatus)
		if err := uc.events.Publish(ctx, domain.NewBookingEvent(domain.EventBookingConfirmed, booking, now)); err != nil {
			uc.logger.Error("PaymentWebhook: publish confirmed for booking=%s: %v", booking.BookingNumber, err)
		}
	}
	return outcome, nil
}

func (uc *UseCase) unpaid(ctx context.Context, event *payments.Event, status domain.OrderStatus) (Outcome, error) {
	outcome := OutcomeProcessed

	reason := event.FailureReason
	if reason == "" {
		reason = "checkout session " + string(status)
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		order, found, err := uc.lockOrder(txCtx, event.SessionID)
		if err != nil || !found {
			outcome = OutcomeDiscarded
			return err
		}
		if !order.IsAwaitingPayment() {
			outcome = OutcomeDuplicate
			return nil
		}

		_, err = uc.orders.CloseUnpaidTx(txCtx, order, status, reason)
		return err
	})
	if err != nil {
		return OutcomeError, err
	}
	return outcome, nil
}

// lockOrder заказ по сессии; found=false для неизвестной сессии
func (uc *UseCase) lockOrder(ctx context.Context, sessionID string) (*domain.Order, bool, error) {
	if sessionID == "" {
		uc.logger.Warn("PaymentWebhook: event without session id discarded")
		return nil, false, nil
	}

	order, err := uc.orderRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			uc.logger.Warn("PaymentWebhook: unknown session=%s discarded", sessionID)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get order: %v", ErrInternal, err)
	}
	return order, true, nil
}
