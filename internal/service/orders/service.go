package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/PetBoardingService/internal/domain"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
	orderRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/order"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	"github.com/m04kA/PetBoardingService/internal/service/orders/models"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

const expireBatchSize = 100

// Service заказы, возвраты и закрытие неоплаченных сессий
type Service struct {
	orderRepo   OrderRepository
	bookingRepo BookingRepository
	payments    RefundClient
	capacity    CapacityReleaser
	auditRepo   AuditRepository
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса заказов
func NewService(
	orderRepo OrderRepository,
	bookingRepo BookingRepository,
	payments RefundClient,
	capacity CapacityReleaser,
	auditRepo AuditRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		bookingRepo: bookingRepo,
		payments:    payments,
		capacity:    capacity,
		auditRepo:   auditRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// History заказы пользователя, новые первыми
func (s *Service) History(ctx context.Context, userID int64) ([]*models.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("History: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: History - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainOrderList(orders), nil
}

// Refund административный возврат по заказу.
// Возврат сначала проводится у провайдера, затем записывается в одной транзакции с бронированием.
func (s *Service) Refund(ctx context.Context, actorID int64, req *models.RefundRequest) (*models.OrderResponse, error) {
	s.logger.Info("Refund: order=%s amount=%.2f by user=%d", req.OrderID, req.Amount, actorID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "admin refund"
	}
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: refund amount must not be negative", domain.ErrInvalidRefundAmount)
	}

	order, err := s.orderRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("Refund: order=%s not found", req.OrderID)
			return nil, ErrOrderNotFound
		}
		s.logger.Error("Refund: repository error: %v", err)
		return nil, fmt.Errorf("%w: Refund - repository error: %v", ErrInternal, err)
	}

	amount := req.Amount
	if amount == 0 {
		amount = order.RefundableAmount()
	}

	refund, err := s.IssueRefund(ctx, order, amount, reason, &actorID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Order
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		updated, _, err = s.ApplyRefundTx(txCtx, order.OrderID, refund)
		return err
	})
	if err != nil {
		s.logger.Error("Refund: refund=%s issued at provider but not recorded for order=%s: %v",
			refund.RefundID, order.OrderID, err)
		return nil, err
	}

	s.metrics.IncRefund("admin")
	return models.FromDomainOrder(updated), nil
}

// IssueRefund проводит возврат у провайдера, ничего не записывая в базу.
// Сумма проверяется по остатку заказа до обращения к провайдеру.
func (s *Service) IssueRefund(ctx context.Context, order *domain.Order, amount float64, reason string, actorID *int64) (*domain.Refund, error) {
	check := *order
	check.Refunds = nil
	if err := check.ApplyRefund(domain.Refund{Amount: amount}); err != nil {
		s.logger.Warn("IssueRefund: order=%s: %v", order.OrderID, err)
		return nil, err
	}

	refundID := refundKey(order, amount)
	result, err := s.payments.CreateRefund(ctx, payments.RefundRequest{
		RefundID:        refundID,
		PaymentIntentID: ptr.Value(order.ProviderPaymentIntentID),
		SessionID:       ptr.Value(order.ProviderSessionID),
		AmountCents:     domain.ToCents(amount),
		Reason:          reason,
	})
	if err != nil {
		s.logger.Error("IssueRefund: provider rejected refund for order=%s: %v", order.OrderID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	status := domain.RefundSucceeded
	if result.Status == string(domain.RefundPending) {
		status = domain.RefundPending
	}

	s.logger.Info("IssueRefund: refund=%s provider=%s amount=%.2f order=%s", refundID, result.ID, amount, order.OrderID)
	return &domain.Refund{
		RefundID:         refundID,
		OrderID:          order.ID,
		ProviderRefundID: ptr.Ptr(result.ID),
		Amount:           domain.RoundMoney(amount),
		Reason:           reason,
		Status:           status,
		CreatedBy:        actorID,
		CreatedAt:        s.now().UTC(),
	}, nil
}

// refundKey ключ идемпотентности возврата.
// Повтор после неудачной записи в базу дает тот же ключ, записанный возврат меняет Refunded и ключ.
func refundKey(order *domain.Order, amount float64) string {
	return fmt.Sprintf("ref_%s_%d_%d", strings.TrimPrefix(order.OrderID, "ord_"),
		domain.ToCents(order.Amounts.Refunded), domain.ToCents(amount))
}

// ApplyRefundTx записывает проведенный возврат в заказ и бронирование.
// Должен вызываться внутри транзакции: заказ и бронирование перечитываются с блокировкой.
func (s *Service) ApplyRefundTx(ctx context.Context, orderID string, refund *domain.Refund) (*domain.Order, *domain.Booking, error) {
	order, err := s.orderRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("%w: ApplyRefundTx - get order: %v", ErrInternal, err)
	}

	if err := order.ApplyRefund(*refund); err != nil {
		return nil, nil, err
	}
	if _, err := s.orderRepo.AddRefund(ctx, refund); err != nil {
		return nil, nil, fmt.Errorf("%w: ApplyRefundTx - add refund: %w", ErrInternal, err)
	}
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("%w: ApplyRefundTx - update order: %w", ErrInternal, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, order.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("%w: ApplyRefundTx - get booking: %v", ErrInternal, err)
	}
	booking.ApplyRefund(refund.Amount)
	if err := s.bookingRepo.UpdateState(ctx, booking); err != nil {
		return nil, nil, fmt.Errorf("%w: ApplyRefundTx - update booking: %w", ErrInternal, err)
	}

	entry := domain.NewAuditLog(refund.CreatedBy, domain.AuditRefundIssued, domain.EntityOrder, order.OrderID,
		map[string]interface{}{
			"refundId":      refund.RefundID,
			"amount":        refund.Amount,
			"reason":        refund.Reason,
			"bookingNumber": booking.BookingNumber,
		})
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("%w: ApplyRefundTx - audit: %w", ErrInternal, err)
	}

	return order, booking, nil
}

// CloseUnpaidTx закрывает неоплаченный заказ и возвращает места бронирования.
// Бронирование остается pending с paymentStatus failed, повторный вызов ничего не меняет.
func (s *Service) CloseUnpaidTx(ctx context.Context, order *domain.Order, status domain.OrderStatus, reason string) (*domain.Booking, error) {
	if !order.IsAwaitingPayment() {
		return nil, nil
	}

	order.MarkUnpaid(status, reason)
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: CloseUnpaidTx - update order: %w", ErrInternal, err)
	}

	booking, err := s.bookingRepo.GetByID(ctx, order.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: CloseUnpaidTx - get booking: %v", ErrInternal, err)
	}
	if booking.Status != domain.StatusPending || !booking.HoldsCapacity() {
		return booking, nil
	}

	if err := s.capacity.Release(ctx, booking.PetType, booking.StayDates(), booking.PetCount()); err != nil {
		return nil, fmt.Errorf("%w: CloseUnpaidTx - release capacity: %w", ErrInternal, err)
	}
	booking.PaymentStatus = domain.PaymentFailed
	if err := s.bookingRepo.UpdateState(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: CloseUnpaidTx - update booking: %w", ErrInternal, err)
	}

	s.logger.Info("CloseUnpaidTx: order=%s status=%s booking=%s released %d places",
		order.OrderID, status, booking.BookingNumber, booking.PetCount())
	return booking, nil
}

// ExpireStale закрывает заказы, не оплаченные до expiresAt.
// Возвращает число закрытых заказов.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	now := s.now().UTC()

	stale, err := s.orderRepo.ListExpired(ctx, now, expireBatchSize)
	if err != nil {
		s.logger.Error("ExpireStale: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpireStale - repository error: %v", ErrInternal, err)
	}

	expired := 0
	for _, candidate := range stale {
		closed := false
		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			order, err := s.orderRepo.GetByOrderID(txCtx, candidate.OrderID)
			if err != nil {
				return fmt.Errorf("%w: ExpireStale - get order: %v", ErrInternal, err)
			}
			if !order.IsExpired(now) {
				return nil
			}
			if _, err := s.CloseUnpaidTx(txCtx, order, domain.OrderExpired, "checkout session expired"); err != nil {
				return err
			}
			closed = true
			return nil
		})
		if err != nil {
			s.logger.Error("ExpireStale: order=%s: %v", candidate.OrderID, err)
			continue
		}
		if closed {
			expired++
		}
	}

	if expired > 0 {
		s.logger.Info("ExpireStale: expired %d of %d candidates", expired, len(stale))
	}
	return expired, nil
}
