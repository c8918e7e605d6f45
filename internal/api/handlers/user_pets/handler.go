package user_pets

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/api/middleware"
	"github.com/m04kA/PetBoardingService/internal/service/users"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPetID       = "некорректный ID питомца"
	msgPetNotFound        = "питомец не найден"
)

type Handler struct {
	service PetService
	logger  Logger
}

func NewHandler(service PetService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/user/pets
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	pets, err := h.service.ListPets(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("GET /user/pets - Failed to list pets: user_id=%d, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, PetsResponse{Pets: pets})
}

// Create POST /api/user/pets
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req CreatePetRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /user/pets - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	pet, err := h.service.AddPet(r.Context(), user.ID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /user/pets - Failed to add pet: user_id=%d, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /user/pets - Pet added: pet_id=%d, user_id=%d", pet.ID, user.ID)
	handlers.RespondJSON(w, http.StatusCreated, pet)
}

// Delete DELETE /api/user/pets/{id}, питомец деактивируется
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	petID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidPetID)
		return
	}

	if err := h.service.RemovePet(r.Context(), user.ID, petID); err != nil {
		switch {
		case errors.Is(err, users.ErrPetNotFound):
			handlers.RespondNotFound(w, msgPetNotFound)
		default:
			h.logger.Error("DELETE /user/pets/{id} - Failed to remove pet: pet_id=%d, user_id=%d, error=%v", petID, user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /user/pets/{id} - Pet deactivated: pet_id=%d, user_id=%d", petID, user.ID)
	handlers.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
