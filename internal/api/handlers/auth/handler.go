package auth

import (
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	authService "github.com/m04kA/PetBoardingService/internal/service/auth"
	"github.com/m04kA/PetBoardingService/internal/service/auth/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmailTaken         = "пользователь с таким email уже зарегистрирован"
	msgInvalidCredentials = "неверный email или пароль"
	msgInactive           = "учетная запись не активна"
	msgUnauthenticated    = "требуется авторизация"
)

type Handler struct {
	service AuthService
	cookies handlers.CookieSettings
	logger  Logger
}

func NewHandler(service AuthService, cookies handlers.CookieSettings, logger Logger) *Handler {
	return &Handler{
		service: service,
		cookies: cookies,
		logger:  logger,
	}
}

// Register POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/register - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Register(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, authService.ErrEmailTaken):
			handlers.RespondBadRequest(w, msgEmailTaken)
		default:
			h.logger.Error("POST /auth/register - Failed to register: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.respondSession(w, http.StatusCreated, result)
	h.logger.Info("POST /auth/register - User registered: user_id=%d", result.User.ID)
}

// Login POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Login(r.Context(), &models.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			handlers.RespondUnauthorized(w, msgInvalidCredentials)
		case errors.Is(err, authService.ErrAccountInactive):
			handlers.RespondForbidden(w, msgInactive)
		default:
			h.logger.Error("POST /auth/login - Failed to login: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.respondSession(w, http.StatusOK, result)
	h.logger.Info("POST /auth/login - User logged in: user_id=%d", result.User.ID)
}

// Refresh POST /api/auth/refresh, обе cookie перевыпускаются
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(handlers.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	result, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrUnauthenticated):
			handlers.ClearAuthCookies(w, h.cookies)
			handlers.RespondUnauthorized(w, msgUnauthenticated)
		case errors.Is(err, authService.ErrAccountInactive):
			handlers.ClearAuthCookies(w, h.cookies)
			handlers.RespondForbidden(w, msgInactive)
		default:
			h.logger.Error("POST /auth/refresh - Failed to refresh: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.respondSession(w, http.StatusOK, result)
}

// Logout POST /api/auth/logout. Cookie очищаются в любом случае.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if result, err := h.currentSession(r); err == nil {
		if err := h.service.Logout(r.Context(), result.ID); err != nil {
			h.logger.Warn("POST /auth/logout - Failed to revoke tokens: user_id=%d, error=%v", result.ID, err)
		}
	}

	handlers.ClearAuthCookies(w, h.cookies)
	handlers.RespondJSON(w, http.StatusOK, UserEnvelope{Success: true})
}

// Me GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentSession(r)
	if err != nil {
		handlers.RespondJSON(w, http.StatusUnauthorized, UserEnvelope{Success: false})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, UserEnvelope{Success: true, User: user})
}

func (h *Handler) currentSession(r *http.Request) (*models.UserResponse, error) {
	cookie, err := r.Cookie(handlers.AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, authService.ErrUnauthenticated
	}
	user, err := h.service.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	return h.service.Me(r.Context(), user.ID)
}

func (h *Handler) respondSession(w http.ResponseWriter, status int, result *models.AuthResult) {
	handlers.SetAuthCookies(w, h.cookies, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	handlers.RespondJSON(w, status, UserEnvelope{Success: true, User: result.User})
}
