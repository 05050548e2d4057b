package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/memberhub/accounts/internal/api/metrics"
	"github.com/memberhub/accounts/internal/core/ports"
	"github.com/memberhub/accounts/internal/infrastructure/crypto"
	"github.com/memberhub/accounts/internal/infrastructure/db/mongo"
	"github.com/memberhub/accounts/internal/pkg/config"
	"github.com/memberhub/accounts/pkg/logger"
)

// runtime holds what every subcommand needs once configuration is loaded.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *gomongo.Client
	db      *gomongo.Database
	members *mongo.MemberRepository
	hasher  ports.PasswordHasher
}

// bootstrap loads configuration, initialises logging and opens the account
// store. Callers must call close when done.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts",
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}

	members := mongo.NewMemberRepository(db)
	if err := members.EnsureIndexes(ctx); err != nil {
		_ = mongo.Disconnect(context.WithoutCancel(ctx), client)
		return nil, fmt.Errorf("ensure member indexes: %w", err)
	}

	return &runtime{
		cfg:     cfg,
		log:     log,
		client:  client,
		db:      db,
		members: members,
		hasher:  metrics.InstrumentHasher(crypto.NewBcryptHasher(cfg.BcryptCost)),
	}, nil
}

func (r *runtime) close(ctx context.Context) {
	if err := mongo.Disconnect(ctx, r.client); err != nil {
		r.log.Warn().Err(err).Msg("mongo disconnect")
	}
}
