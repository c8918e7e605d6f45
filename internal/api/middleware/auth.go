package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/m04kA/PetBoardingService/internal/api/handlers"
	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/internal/service/auth"
)

type ctxKey int

const userKey ctxKey = iota

const (
	msgUnauthenticated = "требуется авторизация"
	msgInactive        = "учетная запись не активна"
	msgForbidden       = "недостаточно прав"
)

// Authenticator проверка access токена
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth пропускает запрос только с действующим access токеном в cookie.
// Пользователь кладется в контекст запроса.
func Auth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(handlers.AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				handlers.RespondUnauthorized(w, msgUnauthenticated)
				return
			}

			user, err := authenticator.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrAccountInactive):
					handlers.RespondForbidden(w, msgInactive)
				case errors.Is(err, auth.ErrUnauthenticated):
					logger.Warn("%s %s - Rejected token: %v", r.Method, r.URL.Path, err)
					handlers.RespondUnauthorized(w, msgUnauthenticated)
				default:
					logger.Error("%s %s - Failed to authenticate: %v", r.Method, r.URL.Path, err)
					handlers.RespondInternalError(w)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole пропускает только указанные роли. Ставится после Auth.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgUnauthenticated)
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			handlers.RespondForbidden(w, msgForbidden)
		})
	}
}

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext пользователь, положенный Auth
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}
