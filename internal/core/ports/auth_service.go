package ports

import (
	"context"
	"time"

	"github.com/memberhub/accounts/internal/core/domain"
)

// RegisterInput is the raw registration payload.
type RegisterInput struct {
	Role            string `json:"role"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// LoginResult holds the token pair minted on a successful login.
type LoginResult struct {
	Member        *domain.Member
	Access        string
	Refresh       string
	RefreshMaxAge time.Duration
}

// RefreshResult holds the new access token. Refresh is only set when
// refresh-token rotation is enabled.
type RefreshResult struct {
	Access        string
	Refresh       string
	RefreshMaxAge time.Duration
}

type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Member, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
}
