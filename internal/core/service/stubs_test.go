package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/infrastructure/crypto"
)

type stubMemberRepo struct {
	byEmail   map[string]*domain.Member
	createErr error
	existsErr error
	loginErr  error
	creates   int
	logins    map[string]time.Time
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{
		byEmail: make(map[string]*domain.Member),
		logins:  make(map[string]time.Time),
	}
}

func cloneMember(m *domain.Member) *domain.Member {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func (r *stubMemberRepo) FindByEmail(_ context.Context, email string) (*domain.Member, error) {
	m, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return cloneMember(m), nil
}

func (r *stubMemberRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubMemberRepo) Create(_ context.Context, m *domain.Member) (*domain.Member, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.byEmail[m.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.creates++
	c := cloneMember(m)
	c.ID = fmt.Sprintf("%024x", r.creates)
	r.byEmail[c.Email] = cloneMember(c)
	return c, nil
}

func (r *stubMemberRepo) RecordLogin(_ context.Context, id string, at time.Time) error {
	if r.loginErr != nil {
		return r.loginErr
	}
	r.logins[id] = at
	return nil
}

func testHasher() *crypto.BcryptHasher {
	return crypto.NewBcryptHasher(bcrypt.MinCost)
}
