// Package cookies задает единые правила выставления и очистки
// cookie с токенами доступа.
package cookies

import (
	"net/http"
	"time"
)

const (
	// AccessToken — имя cookie с access-токеном.
	AccessToken = "accessToken"
	// RefreshToken — имя cookie с refresh-токеном.
	RefreshToken = "refreshToken"
)

// Options описывает параметры cookie с токенами: времена жизни и
// флаг Secure (включается в prod-окружении).
type Options struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

// SetPair выставляет обе cookie после успешной аутентификации.
func (o Options) SetPair(w http.ResponseWriter, accessToken, refreshToken string) {
	o.SetAccess(w, accessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshToken,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(o.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// SetAccess выставляет cookie с access-токеном.
func (o Options) SetAccess(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessToken,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(o.AccessTTL.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear сбрасывает обе cookie при выходе из учетной записи.
func (o Options) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessToken, RefreshToken} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   o.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
