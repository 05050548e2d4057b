package ports

import (
	"context"
	"time"

	"github.com/memberhub/accounts/internal/core/domain"
)

// MemberRepository defines the persistence contract of the account store.
type MemberRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, member *domain.Member) (*domain.Member, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// PasswordHasher hashes and verifies passwords with a one-way salted function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
