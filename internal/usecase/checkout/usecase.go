package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/integrations/payments"
	"github.com/m04kA/PetBoardingService/internal/service/quotes"
	quoteModels "github.com/m04kA/PetBoardingService/internal/service/quotes/models"
	"github.com/m04kA/PetBoardingService/internal/service/users"
)

const defaultSessionTTL = 30 * time.Minute

// UseCase оформление бронирования с оплатой
type UseCase struct {
	quotes       QuoteService
	pets         PetProvider
	capacity     CapacityService
	bookingRepo  BookingRepository
	orderRepo    OrderRepository
	orders       OrderCloser
	payments     PaymentsClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	quotes QuoteService,
	pets PetProvider,
	capacity CapacityService,
	bookingRepo BookingRepository,
	orderRepo OrderRepository,
	orders OrderCloser,
	payments PaymentsClient,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		quotes:       quotes,
		pets:         pets,
		capacity:     capacity,
		bookingRepo:  bookingRepo,
		orderRepo:    orderRepo,
		orders:       orders,
		payments:     payments,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute резервирует места, создает бронирование и заказ, затем платежную сессию.
// Места, бронирование и заказ создаются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.User == nil {
		return nil, fmt.Errorf("%w: customer is required", ErrInvalidInput)
	}
	uc.logger.Info("Checkout: user=%d service=%s pet=%s dates=%s..%s pets=%d",
		req.User.ID, req.ServiceType, req.PetType,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), len(req.Pets))

	// 1. Валидация входных данных
	if req.SpecialRequests != nil && len(*req.SpecialRequests) > domain.MaxSpecialRequestsLength {
		return nil, fmt.Errorf("%w: specialRequests must be at most %d characters", ErrInvalidInput, domain.MaxSpecialRequestsLength)
	}

	// 2. Снимки питомцев: сохраненные берем из профиля
	snapshots, err := uc.resolvePets(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Расчет стоимости на сервере
	prepared, err := uc.quotes.Prepare(ctx, &quoteModels.QuoteRequest{
		ServiceType: req.ServiceType,
		PetType:     req.PetType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Pets:        snapshots,
		AddOnIDs:    req.AddOnIDs,
	})
	if err != nil {
		if errors.Is(err, quotes.ErrInvalidInput) {
			uc.logger.Warn("Checkout: validation failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("Checkout: quote failed: %v", err)
		return nil, fmt.Errorf("%w: quote: %v", ErrInternal, err)
	}

	quote := prepared.Quote
	if req.TotalPrice != nil && domain.ToCents(*req.TotalPrice) != domain.ToCents(quote.Total) {
		uc.logger.Warn("Checkout: client total %.2f differs from server total %.2f, using server total",
			*req.TotalPrice, quote.Total)
	}

	charge := quote.Total
	if req.PayDeposit {
		if deposit := prepared.Deposit(); deposit > 0 && deposit < quote.Total {
			charge = deposit
		}
	}

	now := uc.timeProvider.Now().UTC()
	ttl := defaultSessionTTL
	if prepared.Settings.CheckoutSessionTTLMinutes > 0 {
		ttl = time.Duration(prepared.Settings.CheckoutSessionTTLMinutes) * time.Minute
	}

	var (
		booking *domain.Booking
		order   *domain.Order
	)

	// 4. Резерв мест, бронирование и заказ в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Резерв мест на все даты; нехватка на любой дате откатывает все
		if err := uc.capacity.Reserve(txCtx, prepared.Request.PetType, prepared.Dates, len(prepared.Pets)); err != nil {
			return err
		}

		// 4.2. Бронирование в статусе pending
		booking, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			BookingNumber:   newBookingNumber(now),
			UserID:          &req.User.ID,
			ServiceType:     prepared.Request.ServiceType,
			PetType:         prepared.Request.PetType,
			Pets:            prepared.Pets,
			Customer:        req.User.Contact(),
			StartDate:       prepared.Request.StartDate,
			EndDate:         prepared.Request.EndDate,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			Pricing:         quote.Pricing(),
			AddOns:          quote.BookingAddOns(),
			SpecialRequests: trimmed(req.SpecialRequests),
		})
		if err != nil {
			return fmt.Errorf("%w: create booking: %w", ErrInternal, err)
		}

		// 4.3. Заказ со снимком сумм бронирования
		order, err = uc.orderRepo.Create(txCtx, &domain.Order{
			OrderID:   newOrderID(),
			BookingID: booking.ID,
			UserID:    &req.User.ID,
			Amounts: domain.OrderAmounts{
				Subtotal: domain.RoundMoney(quote.Subtotal + quote.AddOnsTotal),
				Discount: quote.Discount,
				Tax:      quote.Tax,
				Total:    booking.Pricing.Total,
				Charge:   charge,
			},
			Currency:  prepared.Settings.Currency,
			Status:    domain.OrderPending,
			ExpiresAt: now.Add(ttl),
		})
		if err != nil {
			return fmt.Errorf("%w: create order: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			uc.logger.Warn("Checkout: %v", err)
			return nil, err
		}
		uc.logger.Error("Checkout: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("Checkout: booking=%s order=%s total=%.2f charge=%.2f",
		booking.BookingNumber, order.OrderID, order.Amounts.Total, order.Amounts.Charge)

	// 5. Платежная сессия у провайдера, вне транзакции
	session, err := uc.payments.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		OrderID:       order.OrderID,
		BookingNumber: booking.BookingNumber,
		Description:   fmt.Sprintf("%s %s..%s", prepared.Service.Name, booking.StartDate.Format(domain.DateFormat), booking.EndDate.Format(domain.DateFormat)),
		AmountCents:   domain.ToCents(charge),
		Currency:      order.Currency,
		CustomerEmail: booking.Customer.Email,
		ExpiresAt:     order.ExpiresAt,
	})
	if err != nil {
		uc.logger.Error("Checkout: payment session failed for order=%s: %v", order.OrderID, err)
		uc.compensate(ctx, order, "payment provider error")
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	// 6. Сохраняем сессию, заказ ждет оплаты
	if err := uc.orderRepo.AttachSession(ctx, order.ID, session.ID, session.URL, domain.OrderProcessing); err != nil {
		uc.logger.Error("Checkout: failed to attach session=%s to order=%s: %v", session.ID, order.OrderID, err)
		uc.compensate(ctx, order, "session not stored")
		return nil, fmt.Errorf("%w: attach session: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingCreated(string(booking.ServiceType))

	return &Response{
		URL:           session.URL,
		OrderID:       order.OrderID,
		BookingNumber: booking.BookingNumber,
		Total:         order.Amounts.Total,
		Charge:        order.Amounts.Charge,
		Currency:      order.Currency,
		ExpiresAt:     order.ExpiresAt,
	}, nil
}

// compensate закрывает заказ как failed и возвращает места
func (uc *UseCase) compensate(ctx context.Context, order *domain.Order, reason string) {
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := uc.orders.CloseUnpaidTx(txCtx, order, domain.OrderFailed, reason)
		return err
	})
	if err != nil {
		uc.logger.Error("Checkout: compensation failed for order=%s, expiry job will retry: %v", order.OrderID, err)
	}
}

func (uc *UseCase) resolvePets(ctx context.Context, req *Request) ([]domain.PetSnapshot, error) {
	if len(req.Pets) > domain.MaxPetsPerBooking {
		return nil, fmt.Errorf("%w: at most %d pets per booking", ErrInvalidInput, domain.MaxPetsPerBooking)
	}

	res := make([]domain.PetSnapshot, 0, len(req.Pets))
	for _, p := range req.Pets {
		if p.PetID != nil {
			pet, err := uc.pets.OwnedPet(ctx, req.User.ID, *p.PetID)
			if err != nil {
				if errors.Is(err, users.ErrPetNotFound) {
					uc.logger.Warn("Checkout: pet id=%d not found for user=%d", *p.PetID, req.User.ID)
					return nil, ErrPetNotFound
				}
				return nil, fmt.Errorf("%w: load pet: %v", ErrInternal, err)
			}
			res = append(res, pet.Snapshot())
			continue
		}

		species := p.Species
		if species == "" {
			species = req.PetType
		}
		res = append(res, domain.PetSnapshot{
			Name:         strings.TrimSpace(p.Name),
			Species:      species,
			Breed:        p.Breed,
			Size:         p.Size,
			AgeYears:     p.AgeYears,
			Vaccinated:   p.Vaccinated,
			SpecialNeeds: p.SpecialNeeds,
		})
	}
	return res, nil
}

// newBookingNumber PB-YYYYMMDD-XXXXXX
func newBookingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PB-%s-%s", now.Format("20060102"), suffix)
}

func newOrderID() string {
	return "ord_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
