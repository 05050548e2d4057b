package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/memberhub/accounts/internal/core/domain"
	"github.com/memberhub/accounts/internal/core/ports"
	"github.com/memberhub/accounts/internal/core/service"
	"github.com/memberhub/accounts/pkg/logger"
)

const defaultCommandTimeout = 30 * time.Second

type superuserConfig struct {
	role     string
	name     string
	email    string
	password string
	timeout  time.Duration
}

// superuserCreator is the slice of the registration service the command uses.
type superuserCreator interface {
	CreateSuperuser(ctx context.Context, in ports.RegisterInput) (*domain.Member, error)
}

// NewCreateSuperuserCmd creates the createsuperuser subcommand.
func NewCreateSuperuserCmd() *cobra.Command {
	cfg := &superuserConfig{}

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a member with superuser and staff flags",
		Long: `Create a member with the superuser and staff flags set. The same field
rules as public registration apply.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
			defer cancel()

			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close(context.WithoutCancel(ctx))

			registration := service.NewRegistrationService(rt.members, rt.hasher, logger.For("registration"))
			return runCreateSuperuser(ctx, cmd.OutOrStdout(), registration, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.role, "role", "admin", "member role")
	cmd.Flags().StringVar(&cfg.name, "name", "", "display name")
	cmd.Flags().StringVar(&cfg.email, "email", "", "login email")
	cmd.Flags().StringVar(&cfg.password, "password", "", "password")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultCommandTimeout, "timeout for database operations")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateSuperuser(ctx context.Context, out io.Writer, creator superuserCreator, cfg *superuserConfig) error {
	member, err := creator.CreateSuperuser(ctx, ports.RegisterInput{
		Role:            cfg.role,
		Name:            cfg.name,
		Email:           cfg.email,
		Password:        cfg.password,
		PasswordConfirm: cfg.password,
	})

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			for _, msg := range verr.Fields[f] {
				_, _ = fmt.Fprintf(out, "%s: %s\n", f, msg)
			}
		}
		return errors.New("superuser not created")
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Superuser %s created (id %s).\n", member.Email, member.ID)
	return nil
}
