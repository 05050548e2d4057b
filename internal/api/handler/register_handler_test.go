package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/core/ports"
)

type stubRegistrationService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Member, error)
}

func (s *stubRegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Member, error) {
	return s.registerFn(ctx, in)
}

const validRegistration = `{"role":"coach","name":"Ada","email":"ada@example.com","password":"s3cret!pass","password_confirm":"s3cret!pass"}`

func TestRegisterHandler_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubRegistrationService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Member, error) {
			if in.Email != "ada@example.com" || in.PasswordConfirm != "s3cret!pass" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Member{ID: "m1", Role: in.Role, Name: in.Name, Email: in.Email, PasswordHash: "$2a$hash"}, nil
		},
	}
	h := NewRegisterHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", validRegistration), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["success"] != true || resp["message"] != msgRegisterSuccess {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	data, _ := resp["data"].(map[string]any)
	if data["id"] != "m1" || data["role"] != "coach" || data["name"] != "Ada" || data["email"] != "ada@example.com" {
		t.Fatalf("unexpected data: %+v", data)
	}
	for _, secret := range []string{"password", "s3cret!pass", "$2a$hash"} {
		if strings.Contains(rec.Body.String(), secret) {
			t.Fatalf("response leaks %q: %s", secret, rec.Body.String())
		}
	}
}

func TestRegisterHandler_ValidationError(t *testing.T) {
	e := newTestEcho()
	stub := &stubRegistrationService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Member, error) {
			verr := domain.NewValidationError()
			verr.Add("email", "A member with this email already exists.")
			verr.Add("password", "too weak")
			return nil, verr
		},
	}
	h := NewRegisterHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", validRegistration), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp["success"] != false {
		t.Fatalf("expected success=false: %+v", resp)
	}
	errs, _ := resp["errors"].(map[string]any)
	if len(errs) != 2 || errs["email"] == nil || errs["password"] == nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	data, _ := resp["data"].(map[string]any)
	if data["email"] != "ada@example.com" || data["role"] != "coach" {
		t.Fatalf("expected submitted fields echoed, got %+v", data)
	}
	if _, hasID := data["id"]; hasID {
		t.Fatal("rejected registration must not carry an id")
	}
	if strings.Contains(rec.Body.String(), "s3cret!pass") {
		t.Fatal("password echoed in failure response")
	}
}

func TestRegisterHandler_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubRegistrationService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Member, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewRegisterHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"email":`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errs, _ := decodeEnvelope(t, rec)["errors"].(map[string]any)
	if errs[domain.NonFieldErrors] == nil {
		t.Fatalf("expected %s entry, got %+v", domain.NonFieldErrors, errs)
	}
}

func TestRegisterHandler_UnexpectedError(t *testing.T) {
	e := newTestEcho()
	boom := errors.New("store down")
	h := NewRegisterHandler(&stubRegistrationService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Member, error) { return nil, boom },
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/register", validRegistration), httptest.NewRecorder())
	if err := h.Register(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
}
