package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"product-catalog-api/internal/bootstrap"
	"product-catalog-api/internal/core/config"
	"product-catalog-api/internal/core/logger"
	"product-catalog-api/internal/core/server"
	"product-catalog-api/internal/repo"
	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := bootstrap.Logger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, users, err := bootstrap.Database(ctx, cfg, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	states, closeStates, err := bootstrap.StateStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("oauth state store", zap.Error(err))
	}
	defer closeStates()
	providers, err := bootstrap.Providers(ctx, cfg)
	if err != nil {
		log.Fatal("oauth providers", zap.Error(err))
	}
	cancel()

	pub := bootstrap.Publisher(cfg)
	defer func() { _ = pub.Close() }()

	jwter := bootstrap.JWT(cfg)
	catalog := repo.NewCatalogRepo(db)
	accounts := service.NewAccountService(users, jwter, service.ExternalLoginOptions{
		Providers:   providers,
		States:      states,
		FrontEndURL: cfg.OAuth.FrontEndURL,
		StateTTL:    time.Duration(cfg.OAuth.StateTTLSec) * time.Second,
	}, log)

	r := router.NewAPIEngine(router.APIDeps{
		Log:          log,
		JWT:          jwter,
		Accounts:     accounts,
		Products:     service.NewProductService(catalog, pub, log),
		Edits:        service.NewEditProductService(catalog, pub, log),
		SecureCookie: cfg.App.Env == "prod",
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("catalog api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.Strings("providers", accounts.Providers()),
	)

	server.Run(srv, log, "catalog api", 10*time.Second)
}
