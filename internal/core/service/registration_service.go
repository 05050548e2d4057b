package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/core/ports"
	"github.com/memberhub/accounts/internal/pkg/validation"
)

const (
	msgDuplicateEmail   = "A member with this email already exists."
	msgPasswordMismatch = "Passwords do not match."
)

// registration mirrors ports.RegisterInput with the field rules applied to it.
type registration struct {
	Email           string `json:"email"            validate:"required,notblank,max=255,email"`
	Name            string `json:"name"             validate:"required,notblank,max=255"`
	Role            string `json:"role"             validate:"required,notblank,max=255"`
	Password        string `json:"password"         validate:"required,notblank,password"`
	PasswordConfirm string `json:"password_confirm" validate:"required,notblank"`
}

// RegistrationService validates and creates members.
type RegistrationService struct {
	repo     ports.MemberRepository
	hasher   ports.PasswordHasher
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewRegistrationService(repo ports.MemberRepository, hasher ports.PasswordHasher, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		hasher:   hasher,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

// Register validates in and creates a regular member. Validation failures are
// reported as a *domain.ValidationError holding every failing field; nothing
// is written in that case.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Member, error) {
	return s.create(ctx, in, false)
}

// CreateSuperuser is Register with the superuser and staff flags set.
func (s *RegistrationService) CreateSuperuser(ctx context.Context, in ports.RegisterInput) (*domain.Member, error) {
	return s.create(ctx, in, true)
}

func (s *RegistrationService) create(ctx context.Context, in ports.RegisterInput, superuser bool) (*domain.Member, error) {
	in.Role = strings.TrimSpace(in.Role)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.check(ctx, in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	member := domain.NewMember(in.Role, in.Name, in.Email, hash, s.now())
	member.IsSuperuser = superuser
	member.IsStaff = superuser

	created, err := s.repo.Create(ctx, member)
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			verr := domain.NewValidationError()
			verr.Add("email", msgDuplicateEmail)
			return nil, verr
		}
		s.log.Error().Err(err).Msg("failed to create member")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().
		Str("member_id", created.ID).
		Str("role", created.Role).
		Bool("superuser", superuser).
		Msg("member registered")

	return created, nil
}

// check runs the field rules, then the duplicate-email lookup, then the
// password confirmation. The confirmation is only compared once every field
// is individually valid.
func (s *RegistrationService) check(ctx context.Context, in ports.RegisterInput) error {
	verr := domain.NewValidationError()

	err := s.validate.Struct(registration{
		Email:           in.Email,
		Name:            in.Name,
		Role:            in.Role,
		Password:        in.Password,
		PasswordConfirm: in.PasswordConfirm,
	})
	if err != nil {
		fields := validation.Fields(err)
		if fields == nil {
			return fmt.Errorf("register: validate: %w", err)
		}
		for field, msgs := range fields {
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
	}

	if !verr.Has("email") {
		exists, err := s.repo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		if exists {
			verr.Add("email", msgDuplicateEmail)
		}
	}

	if verr.Empty() && in.Password != in.PasswordConfirm {
		verr.Add(domain.NonFieldErrors, msgPasswordMismatch)
	}

	if !verr.Empty() {
		return verr
	}
	return nil
}
