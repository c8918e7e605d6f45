package get_availability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/availability"
)

type serviceMock struct{ mock.Mock }

func (m *serviceMock) GetAvailability(ctx context.Context, date time.Time, petType domain.PetType) (*domain.AvailabilitySummary, error) {
	args := m.Called(ctx, date, petType)
	day, _ := args.Get(0).(*domain.AvailabilitySummary)
	return day, args.Error(1)
}

func (m *serviceMock) GetRange(ctx context.Context, petType domain.PetType, from, to time.Time) ([]domain.AvailabilitySummary, error) {
	args := m.Called(ctx, petType, from, to)
	days, _ := args.Get(0).([]domain.AvailabilitySummary)
	return days, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func date(s string) time.Time {
	d, _ := time.Parse(domain.DateFormat, s)
	return d
}

func TestHandler_SingleDate(t *testing.T) {
	svc := &serviceMock{}
	svc.On("GetAvailability", mock.Anything, date("2025-05-01"), domain.PetTypeDog).
		Return(&domain.AvailabilitySummary{Date: date("2025-05-01"), PetType: domain.PetTypeDog, Available: 7, Total: 15}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/availability?petType=dog&startDate=2025-05-01", nil)
	NewHandler(svc, nopLogger{}).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2025-05-01", resp.Days[0].Date)
	assert.Equal(t, 7, resp.Days[0].Available)
	svc.AssertNotCalled(t, "GetRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Range(t *testing.T) {
	from, to := date("2025-05-01"), date("2025-05-02")
	svc := &serviceMock{}
	svc.On("GetRange", mock.Anything, domain.PetTypeCat, from, to).Return([]domain.AvailabilitySummary{
		{Date: from, Available: 1, Total: 10},
		{Date: to, Available: 0, Total: 10, IsBlocked: true},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/availability?petType=cat&startDate=2025-05-01&endDate=2025-05-02", nil)
	NewHandler(svc, nopLogger{}).Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Days, 2)
	assert.True(t, resp.Days[1].IsBlocked)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"unknown pet type", "petType=hamster&startDate=2025-05-01", nil, http.StatusBadRequest},
		{"bad date", "petType=dog&startDate=05/01/2025", nil, http.StatusBadRequest},
		{"bad end date", "petType=dog&startDate=2025-05-01&endDate=x", nil, http.StatusBadRequest},
		{"invalid range", "petType=dog&startDate=2025-05-01&endDate=2025-04-01",
			fmt.Errorf("%w: endDate must not be before startDate", availability.ErrInvalidInput), http.StatusBadRequest},
		{"internal", "petType=dog&startDate=2025-05-01&endDate=2025-05-03",
			fmt.Errorf("%w: boom", availability.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &serviceMock{}
			svc.On("GetRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/availability?"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
