package handlers

import (
	"net/http"
	"time"
)

const (
	AccessTokenCookie  = "token"
	RefreshTokenCookie = "refreshToken"
)

// CookieSettings параметры auth-cookie
type CookieSettings struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SetAuthCookies выставляет httpOnly cookie с access и refresh токенами
func SetAuthCookies(w http.ResponseWriter, s CookieSettings, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie(s, AccessTokenCookie, accessToken, s.AccessTTL))
	http.SetCookie(w, authCookie(s, RefreshTokenCookie, refreshToken, s.RefreshTTL))
}

// ClearAuthCookies удаляет обе cookie
func ClearAuthCookies(w http.ResponseWriter, s CookieSettings) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := authCookie(s, name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func authCookie(s CookieSettings, name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
