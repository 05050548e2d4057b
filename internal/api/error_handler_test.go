package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memberhub/accounts/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("email", "bad")

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"echo http error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized},
		{"not found route", echo.ErrNotFound, http.StatusNotFound},
		{"validation error", verr, http.StatusBadRequest},
		{"invalid credentials", fmt.Errorf("login: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized},
		{"missing refresh token", domain.ErrMissingRefreshToken, http.StatusBadRequest},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["success"] != false {
				t.Fatalf("expected success=false, got %+v", body)
			}
			if msg, _ := body["message"].(string); msg == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationErrorKeepsFields(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("email", "A member with this email already exists.")
	verr.Add(domain.NonFieldErrors, "Passwords do not match.")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("register: %w", verr), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Success || body.Message == "" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if len(body.Errors["email"]) != 1 || len(body.Errors[domain.NonFieldErrors]) != 1 {
		t.Fatalf("expected field errors in envelope, got %+v", body.Errors)
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: connection refused at 10.0.0.3"), c)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "internal server error" {
		t.Fatalf("internal error leaked: %v", body["message"])
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrInvalidToken, c)

	if rec.Code != http.StatusUnauthorized || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 401, got %d %q", rec.Code, rec.Body.String())
	}
}
