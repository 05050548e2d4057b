package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/core/ports"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, sub := range []string{"serve", "createsuperuser"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("help missing %q command", sub)
		}
	}
}

func TestCreateSuperuserCmd_RequiresFlags(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"createsuperuser", "--email", "root@example.com"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing required flags")
	}
	if !strings.Contains(err.Error(), "name") || !strings.Contains(err.Error(), "password") {
		t.Errorf("unexpected error: %v", err)
	}
}

type stubCreator struct {
	got    ports.RegisterInput
	member *domain.Member
	err    error
}

func (s *stubCreator) CreateSuperuser(_ context.Context, in ports.RegisterInput) (*domain.Member, error) {
	s.got = in
	return s.member, s.err
}

func TestRunCreateSuperuser_Success(t *testing.T) {
	creator := &stubCreator{member: &domain.Member{ID: "abc123", Email: "root@example.com"}}
	out := new(bytes.Buffer)

	err := runCreateSuperuser(context.Background(), out, creator, &superuserConfig{
		role: "admin", name: "Root", email: "root@example.com", password: "s3cret!pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creator.got.PasswordConfirm != creator.got.Password {
		t.Error("password confirmation should mirror the password flag")
	}
	if !strings.Contains(out.String(), "abc123") {
		t.Errorf("output %q should mention the new id", out.String())
	}
}

func TestRunCreateSuperuser_ValidationErrors(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("password", "too weak")
	verr.Add("email", "taken")
	creator := &stubCreator{err: verr}
	out := new(bytes.Buffer)

	err := runCreateSuperuser(context.Background(), out, creator, &superuserConfig{email: "x@example.com"})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "email: taken\npassword: too weak\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunCreateSuperuser_StoreError(t *testing.T) {
	boom := errors.New("store down")
	err := runCreateSuperuser(context.Background(), new(bytes.Buffer), &stubCreator{err: boom}, &superuserConfig{})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}
