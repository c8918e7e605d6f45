package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetBoardingService/internal/domain"
	petRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/pet"
	"github.com/m04kA/PetBoardingService/internal/service/users/models"
	"github.com/m04kA/PetBoardingService/pkg/ptr"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *userRepoMock) UpdateProfile(ctx context.Context, id int64, name string, phone *string) error {
	return m.Called(ctx, id, name, phone).Error(0)
}

type petRepoMock struct{ mock.Mock }

func (m *petRepoMock) Create(ctx context.Context, p *domain.Pet) (*domain.Pet, error) {
	args := m.Called(ctx, p)
	pet, _ := args.Get(0).(*domain.Pet)
	return pet, args.Error(1)
}

func (m *petRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Pet, error) {
	args := m.Called(ctx, ownerID)
	pets, _ := args.Get(0).([]*domain.Pet)
	return pets, args.Error(1)
}

func (m *petRepoMock) GetByID(ctx context.Context, id int64) (*domain.Pet, error) {
	args := m.Called(ctx, id)
	pet, _ := args.Get(0).(*domain.Pet)
	return pet, args.Error(1)
}

func (m *petRepoMock) Deactivate(ctx context.Context, id, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestService_UpdateProfile(t *testing.T) {
	users, pets := &userRepoMock{}, &petRepoMock{}
	svc := NewService(users, pets, nopLogger{})

	users.On("UpdateProfile", mock.Anything, int64(3), "Anna K", (*string)(nil)).Return(nil)
	users.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, Name: "Anna K", Email: "a@b.c"}, nil)

	resp, err := svc.UpdateProfile(context.Background(), 3, &models.UpdateProfileRequest{Name: " Anna K ", Phone: ptr.Ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "Anna K", resp.Name)

	_, err = svc.UpdateProfile(context.Background(), 3, &models.UpdateProfileRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_AddPet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		users, pets := &userRepoMock{}, &petRepoMock{}
		svc := NewService(users, pets, nopLogger{})

		pets.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Pet) bool {
			return p.OwnerID == 3 && p.Name == "Rex" && p.Species == domain.PetTypeDog
		})).Return(&domain.Pet{ID: 11, OwnerID: 3, Name: "Rex", Species: domain.PetTypeDog}, nil)

		resp, err := svc.AddPet(context.Background(), 3, &models.CreatePetRequest{
			Name: " Rex ", Species: domain.PetTypeDog, Size: ptr.Ptr(domain.SizeLarge), WeightKg: ptr.Ptr(32.5),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.ID)
		assert.NotNil(t, resp.Vaccinations)
	})

	invalid := []models.CreatePetRequest{
		{Name: "", Species: domain.PetTypeCat},
		{Name: "Tom", Species: "parrot"},
		{Name: "Tom", Species: domain.PetTypeCat, Size: ptr.Ptr(domain.PetSize("huge"))},
		{Name: "Tom", Species: domain.PetTypeCat, AgeYears: ptr.Ptr(-1.0)},
		{Name: "Tom", Species: domain.PetTypeCat, WeightKg: ptr.Ptr(0.0)},
		{Name: "Tom", Species: domain.PetTypeCat, Vaccinations: []domain.Vaccination{{Name: "rabies"}}},
	}
	for _, req := range invalid {
		req := req
		svc := NewService(&userRepoMock{}, &petRepoMock{}, nopLogger{})
		_, err := svc.AddPet(context.Background(), 3, &req)
		assert.ErrorIs(t, err, ErrInvalidInput, "request %+v", req)
	}
}

func TestService_RemoveAndOwnedPet(t *testing.T) {
	pets := &petRepoMock{}
	svc := NewService(&userRepoMock{}, pets, nopLogger{})

	pets.On("Deactivate", mock.Anything, int64(9), int64(3)).Return(petRepo.ErrPetNotFound)
	assert.ErrorIs(t, svc.RemovePet(context.Background(), 3, 9), ErrPetNotFound)

	pets.On("GetByID", mock.Anything, int64(10)).Return(&domain.Pet{ID: 10, OwnerID: 4}, nil)
	_, err := svc.OwnedPet(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrPetNotFound)

	pet, err := svc.OwnedPet(context.Background(), 4, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pet.ID)
}
