package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieSettings configures the refresh-token cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// setRefreshCookie hands the refresh token to the client. The cookie is
// unreadable from scripts and never sent cross-site.
func (s CookieSettings) setRefreshCookie(c echo.Context, token string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie instructs the client to drop the refresh cookie now.
func (s CookieSettings) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s CookieSettings) refreshToken(c echo.Context) string {
	cookie, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
