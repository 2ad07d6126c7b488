package main

import (
	"context"
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
	_, users, err := bootstrap.Database(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}

	r := router.NewAdminEngine(router.AdminDeps{
		Log:   log,
		JWT:   bootstrap.JWT(cfg),
		Admin: service.NewAdminService(users, log),
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)
	server.Run(srv, log, "catalog admin", 10*time.Second)
}
