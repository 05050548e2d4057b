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
	msgRegisterSuccess = "Registration successful."
	msgRegisterFailed  = "Registration failed."
	msgInvalidPayload  = "Invalid payload."
)

type RegisterHandler struct {
	registration ports.RegistrationService
}

func NewRegisterHandler(registration ports.RegistrationService) *RegisterHandler {
	return &RegisterHandler{registration: registration}
}

type registerRequest struct {
	Role            string `json:"role"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type registerFailure struct {
	Success bool                `json:"success"`
	Data    memberResponse      `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Register creates a new member account. Password fields are never echoed.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Member registration details"
// @Success      201   {object}  Envelope{data=memberResponse}
// @Failure      400   {object}  registerFailure
// @Router       /register [post]
func (h *RegisterHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, registerFailure{
			Message: msgRegisterFailed,
			Errors:  map[string][]string{domain.NonFieldErrors: {msgInvalidPayload}},
		})
	}

	member, err := h.registration.Register(c.Request().Context(), ports.RegisterInput{
		Role:            req.Role,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, registerFailure{
				Data:    memberResponse{Role: req.Role, Name: req.Name, Email: req.Email},
				Message: msgRegisterFailed,
				Errors:  verr.Fields,
			})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return ok(c, http.StatusCreated, msgRegisterSuccess, memberResponse{
		ID:    member.ID,
		Role:  member.Role,
		Name:  member.Name,
		Email: member.Email,
	})
}
