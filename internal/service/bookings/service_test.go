package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	bookingRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/booking"
	"github.com/m04kA/PetBoardingService/internal/service/bookings/models"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

var fixedNow = time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)

type fixture struct {
	bookings *bookingRepoMock
	users    *userRepoMock
	releaser *releaserMock
	events   *publisherMock
	audit    *auditRepoMock
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &bookingRepoMock{},
		users:    &userRepoMock{},
		releaser: &releaserMock{},
		events:   &publisherMock{},
		audit:    &auditRepoMock{},
	}
	f.svc = NewService(f.bookings, f.users, f.releaser, f.events, f.audit, inlineTx{}, nopLogger{})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func booking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            42,
		BookingNumber: "PB-20250310-ABC123",
		UserID:        ptr.Ptr(int64(5)),
		ServiceType:   domain.ServiceDogBoarding,
		PetType:       domain.PetTypeDog,
		Pets:          []domain.PetSnapshot{{Name: "Rex"}, {Name: "Max"}},
		StartDate:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		Status:        status,
		PaymentStatus: domain.PaymentPaid,
		Pricing:       domain.BookingPricing{Total: 351.5},
		PaidAmount:    351.5,
	}
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("no show releases capacity and publishes event", func(t *testing.T) {
		f := newFixture()
		b := booking(domain.StatusConfirmed)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.releaser.On("Release", mock.Anything, domain.PetTypeDog, b.StayDates(), 2).Return(nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLog) bool {
			return e.Action == domain.AuditBookingStatusChanged && e.EntityID == "42"
		})).Return(nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "no_show", Reason: "did not arrive"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNoShow, resp.Status)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, domain.EventBookingNoShow, f.events.events[0].Type)
		f.releaser.AssertExpectations(t)
	})

	t.Run("no show after failed payment releases nothing", func(t *testing.T) {
		f := newFixture()
		b := booking(domain.StatusPending)
		b.PaymentStatus = domain.PaymentFailed
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "no_show"})
		require.NoError(t, err)
		f.releaser.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("check-out completes stay and bumps user totals", func(t *testing.T) {
		f := newFixture()
		b := booking(domain.StatusInProgress)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.users.On("AddCompletedStay", mock.Anything, int64(5), 351.5, 351).Return(nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, resp.Status)
		require.NotNil(t, resp.ActualCheckOut)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, domain.EventBookingCompleted, f.events.events[0].Type)
		f.users.AssertExpectations(t)
	})

	t.Run("check-in publishes nothing", func(t *testing.T) {
		f := newFixture()
		b := booking(domain.StatusConfirmed)
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "in_progress"})
		require.NoError(t, err)
		assert.NotNil(t, resp.ActualCheckIn)
		assert.Empty(t, f.events.events)
	})

	t.Run("confirm without settled payment is rejected", func(t *testing.T) {
		for _, status := range []domain.PaymentStatus{domain.PaymentFailed, domain.PaymentPending} {
			f := newFixture()
			b := booking(domain.StatusPending)
			b.PaymentStatus = status
			f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)

			_, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "confirmed"})
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, status)
			assert.Equal(t, domain.StatusPending, b.Status)
			f.bookings.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
			assert.Empty(t, f.events.events)
		}
	})

	t.Run("confirm after deposit publishes event", func(t *testing.T) {
		f := newFixture()
		b := booking(domain.StatusPending)
		b.PaymentStatus = domain.PaymentDepositPaid
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(b, nil)
		f.bookings.On("UpdateState", mock.Anything, b).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, resp.Status)
		require.Len(t, f.events.events, 1)
		assert.Equal(t, domain.EventBookingConfirmed, f.events.events[0].Type)
	})

	t.Run("invalid transition from completed", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusCompleted), nil)

		_, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "in_progress"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.bookings.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
	})

	t.Run("cancel is not a plain status change", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "cancelled"})
		assert.ErrorIs(t, err, ErrInvalidStatus)

		_, err = f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{Status: "teleported"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := f.svc.UpdateStatus(context.Background(), 1, 7, &models.UpdateStatusRequest{Status: "confirmed"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_GetUserBookings(t *testing.T) {
	t.Run("maps own bookings", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("ListByUser", mock.Anything, int64(5)).
			Return([]*domain.Booking{booking(domain.StatusConfirmed), booking(domain.StatusCompleted)}, nil)

		resp, err := f.svc.GetUserBookings(context.Background(), 5)
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 2)
		assert.Equal(t, "PB-20250310-ABC123", resp.Bookings[0].BookingNumber)
	})

	t.Run("repository error is internal", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("ListByUser", mock.Anything, int64(5)).Return(nil, errors.New("connection reset"))

		_, err := f.svc.GetUserBookings(context.Background(), 5)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_List(t *testing.T) {
	t.Run("passes parsed filter", func(t *testing.T) {
		f := newFixture()
		status := "confirmed"
		f.bookings.On("List", mock.Anything, mock.MatchedBy(func(fl domain.BookingsFilter) bool {
			return fl.Status != nil && *fl.Status == domain.StatusConfirmed && fl.PetType == nil
		})).Return([]*domain.Booking{booking(domain.StatusConfirmed)}, nil)

		resp, err := f.svc.List(context.Background(), &models.ListRequest{Status: &status})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, "2025-03-10", resp.Bookings[0].StartDate)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture()
		status := "lost"
		_, err := f.svc.List(context.Background(), &models.ListRequest{Status: &status})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_SendStayReminders(t *testing.T) {
	f := newFixture()
	tomorrow := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	b := booking(domain.StatusConfirmed)
	f.bookings.On("ListForReminder", mock.Anything, tomorrow).Return([]*domain.Booking{b}, nil)
	f.bookings.On("MarkReminderSent", mock.Anything, int64(42)).Return(nil)

	sent, err := f.svc.SendStayReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.EventBookingReminder, f.events.events[0].Type)
}
