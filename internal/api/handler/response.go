package handler

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// memberResponse exposes the public fields of a member. ID is empty when
// echoing back a rejected registration.
type memberResponse struct {
	ID    string `json:"id,omitempty"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type accessResponse struct {
	Access string `json:"access"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}
