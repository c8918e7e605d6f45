package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/PetBoardingService/internal/domain"
)

var (
	// ErrInvalidToken подпись, формат или claims не прошли проверку
	ErrInvalidToken = errors.New("security: invalid token")

	// ErrExpiredToken срок действия токена истек
	ErrExpiredToken = errors.New("security: token has expired")

	// ErrWrongTokenType refresh вместо access или наоборот
	ErrWrongTokenType = errors.New("security: wrong token type")
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

const issuer = "pet-boarding"

// Claims содержимое токена: sub, role, ver (tokenVersion), typ
type Claims struct {
	Role    domain.UserRole `json:"role"`
	Version int             `json:"ver"`
	Type    TokenType       `json:"typ"`
	jwt.RegisteredClaims
}

// UserID идентификатор пользователя из sub
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

// TokenPair пара токенов для cookie
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenManager выпускает и проверяет HS256 токены
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// Issue выпускает access и refresh токены для пользователя
func (m *TokenManager) Issue(user *domain.User) (*TokenPair, error) {
	now := m.now()

	access, accessExp, err := m.sign(user, TokenAccess, now, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.sign(user, TokenRefresh, now, m.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *TokenManager) sign(user *domain.User, typ TokenType, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		Role:    user.Role,
		Version: user.TokenVersion,
		Type:    typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("security: sign %s token: %w", typ, err)
	}
	return signed, exp, nil
}

// Parse проверяет подпись, срок и тип токена
func (m *TokenManager) Parse(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
