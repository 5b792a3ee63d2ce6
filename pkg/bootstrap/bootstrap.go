// Package bootstrap seeds a fresh database with the configured accounts and
// one TagInformation row per registered category. Running it again is a
// no-op for everything that already exists.
package bootstrap

import (
	"context"
	"fmt"

	config "github.com/samanvaya/samanvaya/internal/config/server"
	"github.com/samanvaya/samanvaya/pkg/db/models"
	"github.com/samanvaya/samanvaya/pkg/db/store"
	"github.com/samanvaya/samanvaya/pkg/log"
	"github.com/samanvaya/samanvaya/pkg/policy"
)

type Bootstrapper struct {
	store store.MetadataStore
	cfg   config.BootstrapServerConfig
	log   log.LoggerService
}

func New(s store.MetadataStore, cfg config.BootstrapServerConfig, logger log.LoggerService) *Bootstrapper {
	return &Bootstrapper{
		store: s,
		cfg:   cfg,
		log:   logger,
	}
}

// Run seeds users, then tag information. Writes are audited as the system
// identity.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if err := b.seedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if b.cfg.TagInformation {
		if err := b.seedTagInformation(ctx); err != nil {
			return fmt.Errorf("failed to seed tag information: %w", err)
		}
	}
	return nil
}

func (b *Bootstrapper) seedUsers(ctx context.Context) error {
	for _, user := range b.cfg.Users {
		exists, err := b.store.Users().Exists(ctx, map[string]any{"username": user.Username})
		if err != nil {
			return err
		}
		if exists {
			b.log.Debug("User '%s' already exists", user.Username)
			continue
		}

		role := models.Role(user.Role)
		if role == "" {
			role = models.RoleUser
		}

		created, err := b.store.CreateUser(ctx, policy.System, store.UserInput{
			Username: user.Username,
			Password: user.Password,
			Role:     role,
		})
		if err != nil {
			return fmt.Errorf("user '%s': %w", user.Username, err)
		}
		b.log.Info("Created %s '%s' (id %d)", created.Role, created.Username, created.ID)
	}
	return nil
}

func (b *Bootstrapper) seedTagInformation(ctx context.Context) error {
	collection := b.store.TagInformation()

	exists, err := collection.Exists(ctx, nil)
	if err != nil {
		return err
	}
	if exists {
		b.log.Debug("Tag information already present, skipping")
		return nil
	}

	for _, cat := range b.store.Registry().Categories() {
		_, err := collection.Create(ctx, policy.System, &models.TagInformation{
			Tablename:   cat.Key,
			Name:        cat.Name,
			EnglishName: cat.EnglishName,
			Level:       cat.Level,
			IsVisible:   true,
		})
		if err != nil {
			return fmt.Errorf("category '%s': %w", cat.Key, err)
		}
	}

	b.log.Info("Advertised %d categories", len(b.store.Registry().Categories()))
	return nil
}
