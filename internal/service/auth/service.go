package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/infra/security"
	userRepo "github.com/m04kA/PetBoardingService/internal/infra/storage/user"
	"github.com/m04kA/PetBoardingService/internal/service/auth/models"
)

// Service регистрация, вход и проверка сессий
type Service struct {
	userRepo UserRepository
	tokens   TokenManager
	hasher   PasswordHasher
	logger   Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(
	userRepo UserRepository,
	tokens TokenManager,
	hasher PasswordHasher,
	logger Logger,
) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register создает клиента и сразу выпускает токены
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResult, error) {
	s.logger.Info("Register: email=%s", req.Email)

	if err := validateRegistration(req); err != nil {
		s.logger.Warn("Register: validation failed: %v", err)
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("Register: failed to hash password: %v", err)
		return nil, fmt.Errorf("%w: Register - hash password: %v", ErrInternal, err)
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Role:         domain.RoleCustomer,
		Status:       domain.UserActive,
		ReferralCode: newReferralCode(),
		ReferredBy:   req.ReferredBy,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			s.logger.Warn("Register: email=%s already registered", req.Email)
			return nil, ErrEmailTaken
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	return s.issue(user, "Register")
}

// Login проверяет пароль и статус учетной записи
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	s.logger.Info("Login: email=%s", req.Email)

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown email=%s", req.Email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			s.logger.Warn("Login: wrong password for user=%d", user.ID)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: failed to compare password for user=%d: %v", user.ID, err)
		return nil, fmt.Errorf("%w: Login - compare password: %v", ErrInternal, err)
	}

	if !user.IsActive() {
		s.logger.Warn("Login: user=%d has status=%s", user.ID, user.Status)
		return nil, ErrAccountInactive
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Login: failed to update last login for user=%d: %v", user.ID, err)
	}

	return s.issue(user, "Login")
}

// Refresh проверяет refresh токен и выпускает новую пару
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	user, err := s.resolve(ctx, refreshToken, security.TokenRefresh)
	if err != nil {
		s.logger.Warn("Refresh: %v", err)
		return nil, err
	}
	return s.issue(user, "Refresh")
}

// Authenticate пользователь по access токену.
// Токен с устаревшей версией или пользователь не в статусе active отклоняются.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.resolve(ctx, accessToken, security.TokenAccess)
}

// Logout отзывает все токены пользователя
func (s *Service) Logout(ctx context.Context, userID int64) error {
	s.logger.Info("Logout: user=%d", userID)

	if err := s.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return ErrUnauthenticated
		}
		s.logger.Error("Logout: repository error for user=%d: %v", userID, err)
		return fmt.Errorf("%w: Logout - repository error: %v", ErrInternal, err)
	}
	return nil
}

// Me профиль текущего пользователя
func (s *Service) Me(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		s.logger.Error("Me: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Me - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainUser(user), nil
}

func (s *Service) resolve(ctx context.Context, token string, typ security.TokenType) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(token, typ)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", ErrUnauthenticated, userID)
		}
		return nil, fmt.Errorf("%w: resolve - repository error: %v", ErrInternal, err)
	}

	if claims.Version != user.TokenVersion {
		return nil, fmt.Errorf("%w: token revoked for user %d", ErrUnauthenticated, userID)
	}
	if !user.IsActive() {
		return nil, ErrAccountInactive
	}
	return user, nil
}

func (s *Service) issue(user *domain.User, op string) (*models.AuthResult, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("%s: failed to issue tokens for user=%d: %v", op, user.ID, err)
		return nil, fmt.Errorf("%w: %s - issue tokens: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: tokens issued for user=%d role=%s", op, user.ID, user.Role)
	return &models.AuthResult{User: models.FromDomainUser(user), Tokens: pair}, nil
}

func validateRegistration(req *models.RegisterRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil || req.Email == "" {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	if req.Password != req.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	return validatePassword(req.Password)
}

// validatePassword минимум 8 символов, буква и цифра
func validatePassword(password string) error {
	if len(password) < domain.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, domain.MinPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain a letter and a digit", ErrInvalidInput)
	}
	return nil
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
