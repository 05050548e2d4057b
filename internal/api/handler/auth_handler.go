package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberhub/accounts/internal/api/metrics"
	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/core/ports"
)

const (
	msgLoginSuccess   = "Login successful."
	msgLoginFailed    = "Invalid email or password."
	msgLogoutSuccess  = "Logout successful."
	msgRefreshSuccess = "Token refreshed."
	msgSessionExpired = "Your session has expired. Please log in again."
	msgInvalidToken   = "Token is invalid or expired."
	msgMe             = "Authenticated member."
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieSettings
}

func NewAuthHandler(authService ports.AuthService, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a member. The access token is returned in the body and
// the refresh token only in an HttpOnly cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=accessResponse}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("bad_request").Inc()
		return fail(c, http.StatusBadRequest, msgLoginFailed)
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("bad_request").Inc()
		return fail(c, http.StatusBadRequest, msgLoginFailed)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return fail(c, http.StatusUnauthorized, msgLoginFailed)
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.cookie.setRefreshCookie(c, res.Refresh, res.RefreshMaxAge)
	return ok(c, http.StatusOK, msgLoginSuccess, accessResponse{Access: res.Access})
}

// Logout clears the refresh cookie. Tokens are not revoked server-side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	metrics.LogoutsTotal.Inc()
	h.cookie.clearRefreshCookie(c)
	return ok(c, http.StatusOK, msgLogoutSuccess, nil)
}

// Refresh mints a new access token from the refresh cookie.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope{data=accessResponse}
// @Failure      400  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	res, err := h.authService.Refresh(c.Request().Context(), h.cookie.refreshToken(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingRefreshToken):
			metrics.TokenRefreshesTotal.WithLabelValues("missing").Inc()
			return fail(c, http.StatusBadRequest, msgSessionExpired)
		case errors.Is(err, domain.ErrInvalidToken):
			metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
			return fail(c, http.StatusUnauthorized, msgInvalidToken)
		}
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return err
	}

	if res.Refresh != "" {
		h.cookie.setRefreshCookie(c, res.Refresh, res.RefreshMaxAge)
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return ok(c, http.StatusOK, msgRefreshSuccess, accessResponse{Access: res.Access})
}

// Me returns the caller's identity as carried by the access token.
//
// @Summary      Current member
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=memberResponse}
// @Failure      401  {object}  Envelope
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, msgMe, memberResponse{
		ID:    claims.Subject,
		Role:  claims.Role,
		Name:  claims.Name,
		Email: claims.Email,
	})
}
