package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberhub/accounts/internal/api/middleware"
	"github.com/memberhub/accounts/internal/core/token"
)

// ctxClaims extracts the access-token claims injected by the Auth middleware.
// A missing subject means the middleware did not run.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*token.Claims)
	if claims == nil || claims.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
