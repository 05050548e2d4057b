package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/core/ports"
	"github.com/memberhub/accounts/internal/core/token"
)

// timingPassword is hashed once so that logins for unknown emails spend the
// same hashing work as logins with a wrong password.
const timingPassword = "timing-equaliser-Aa1!"

// RefreshDenylist abstracts the store of refresh tokens retired by rotation (Redis).
// Revoke must be atomic: it reports true only to the first caller retiring jti.
type RefreshDenylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
}

// AuthOptions tunes refresh behaviour. The Denylist is only consulted when
// RotateRefreshTokens is set; a nil Denylist lets rotated tokens be reused.
type AuthOptions struct {
	RotateRefreshTokens bool
	Denylist            RefreshDenylist
}

// AuthService implements login and token refresh. Logout is stateless and
// handled entirely at the HTTP layer.
type AuthService struct {
	repo      ports.MemberRepository
	hasher    ports.PasswordHasher
	tokens    *token.Issuer
	opts      AuthOptions
	log       zerolog.Logger
	now       func() time.Time
	dummyHash string
}

func NewAuthService(repo ports.MemberRepository, hasher ports.PasswordHasher, tokens *token.Issuer, opts AuthOptions, log zerolog.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash(timingPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		opts:      opts,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// Login checks the credentials and mints a token pair. An unknown email and a
// wrong password both yield domain.ErrInvalidCredentials. The email is
// trimmed as it is on registration; the password is used as given.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	member, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(member.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Pair(token.IdentityOf(member))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// last_login is bookkeeping; a failed write must not fail the login.
	at := s.now().UTC()
	if err := s.repo.RecordLogin(ctx, member.ID, at); err != nil {
		s.log.Warn().Err(err).Str("member_id", member.ID).Msg("failed to record last login")
	} else {
		member.LastLogin = &at
		member.UpdatedAt = at
	}

	s.log.Info().Str("member_id", member.ID).Msg("member logged in")

	return &ports.LoginResult{
		Member:        member,
		Access:        pair.Access,
		Refresh:       pair.Refresh,
		RefreshMaxAge: s.tokens.RefreshTTL(),
	}, nil
}

// Refresh validates a refresh token and mints a new access token from the
// identity it carries. With rotation enabled a new refresh token is minted
// too and, when a denylist is configured, the presented one is retired first;
// a token that was already retired is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	claims, err := s.tokens.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		s.log.Debug().Err(err).Msg("refresh token rejected")
		return nil, domain.ErrInvalidToken
	}

	if !s.opts.RotateRefreshTokens {
		access, err := s.tokens.Access(claims.Identity())
		if err != nil {
			return nil, fmt.Errorf("refresh: %w", err)
		}
		return &ports.RefreshResult{Access: access}, nil
	}

	// Retire the presented token before minting its successor so concurrent
	// replays of one token yield at most one new pair.
	if s.opts.Denylist != nil {
		claimed, err := s.opts.Denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
		if err != nil {
			return nil, fmt.Errorf("refresh: %w", err)
		}
		if !claimed {
			s.log.Warn().Str("member_id", claims.Subject).Str("jti", claims.ID).Msg("revoked refresh token presented")
			return nil, domain.ErrInvalidToken
		}
	}

	pair, err := s.tokens.Pair(claims.Identity())
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return &ports.RefreshResult{
		Access:        pair.Access,
		Refresh:       pair.Refresh,
		RefreshMaxAge: s.tokens.RefreshTTL(),
	}, nil
}
