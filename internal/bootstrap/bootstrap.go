// Package bootstrap wires config into the long-lived dependencies shared by
// the api and admin binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"product-catalog-api/internal/core/auth"
	"product-catalog-api/internal/core/cache"
	"product-catalog-api/internal/core/config"
	"product-catalog-api/internal/core/database"
	"product-catalog-api/internal/core/events"
	"product-catalog-api/internal/core/logger"
	"product-catalog-api/internal/core/oauth"
	"product-catalog-api/internal/repo"
)

func Logger(cfg *config.Config) (*zap.Logger, func()) {
	return logger.Build(logger.Options{
		Level:     cfg.Log.Level,
		JSON:      cfg.Log.JSON,
		AddCaller: true,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.Rotate.Enable,
			Filename:   cfg.Log.Rotate.Filename,
			MaxSizeMB:  cfg.Log.Rotate.MaxSizeMB,
			MaxBackups: cfg.Log.Rotate.MaxBackups,
			MaxAgeDays: cfg.Log.Rotate.MaxAgeDays,
			Compress:   cfg.Log.Rotate.Compress,
		},
	})
}

// Database opens the store, migrates it and seeds the closed role set when
// configured to.
func Database(ctx context.Context, cfg *config.Config, l *zap.Logger) (*gorm.DB, *repo.UserRepo, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		return nil, nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, nil, err
		}
		l.Info("automigrate done")
	}

	users := repo.NewUserRepo(db, repo.DefaultPasswordPolicy())
	if cfg.DB.SeedRoles {
		created, err := database.SeedRoles(ctx, users)
		if err != nil {
			return nil, nil, err
		}
		if len(created) > 0 {
			l.Info("roles seeded", zap.Any("roles", created))
		}
	}
	return db, users, nil
}

func JWT(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret:   []byte(cfg.JWT.Secret),
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
}

// StateStore uses redis when an address is configured. The in-process store
// only works with a single api replica.
func StateStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (oauth.StateStore, func(), error) {
	if cfg.Redis.Addr == "" {
		l.Warn("redis not configured, oauth state kept in memory")
		return cache.NewMemory(), func() {}, nil
	}
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, func() { _ = c.Close() }, nil
}

func Providers(ctx context.Context, cfg *config.Config) ([]oauth.Provider, error) {
	out := make([]oauth.Provider, 0, len(cfg.OAuth.Providers))
	for name, p := range cfg.OAuth.Providers {
		switch p.Kind {
		case "github":
			out = append(out, oauth.NewGitHub(oauth.GitHubConfig{
				Name:         name,
				DisplayName:  p.DisplayName,
				ClientID:     p.ClientID,
				ClientSecret: p.ClientSecret,
				RedirectURL:  p.RedirectURL,
				Scopes:       p.Scopes,
			}))
		case "oidc":
			o, err := oauth.NewOIDC(ctx, oauth.OIDCConfig{
				Name:         name,
				DisplayName:  p.DisplayName,
				IssuerURL:    p.IssuerURL,
				ClientID:     p.ClientID,
				ClientSecret: p.ClientSecret,
				RedirectURL:  p.RedirectURL,
				Scopes:       p.Scopes,
			})
			if err != nil {
				return nil, fmt.Errorf("oauth provider %s: %w", name, err)
			}
			out = append(out, o)
		default:
			return nil, fmt.Errorf("oauth provider %s: unknown kind %q", name, p.Kind)
		}
	}
	return out, nil
}

func Publisher(cfg *config.Config) events.Publisher {
	if !cfg.Kafka.Enabled {
		return events.Nop{}
	}
	return events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
