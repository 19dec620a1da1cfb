package http

import "net/http"

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"

	// The refresh cookie is scoped to the refresh endpoint so it is
	// never sent with ordinary API calls.
	refreshCookiePath = "/auth/refresh"
)

type CookieWriter struct {
	domain     string
	sameSite   http.SameSite
	accessTTL  int // seconds
	refreshTTL int
}

func (c *CookieWriter) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	c.setAccessCookie(w, accessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     refreshCookiePath,
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: c.sameSite,
		MaxAge:   c.refreshTTL,
	})
}

func (c *CookieWriter) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   true,
		SameSite: c.sameSite,
		MaxAge:   c.accessTTL,
	})
}

func (c *CookieWriter) expireAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: c.domain})
	http.SetCookie(w, &http.Cookie{Name: refreshTokenCookie, MaxAge: -1, Path: refreshCookiePath, Domain: c.domain})
}
