package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"product-catalog-api/internal/core/auth"
	"product-catalog-api/internal/core/server"
	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/handler"
	mdw "product-catalog-api/internal/transport/http/middleware"
)

// Limits tunes the shared middleware chain.
type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	MaxBody     int64
	Timeout     time.Duration
}

func DefaultLimits() Limits {
	return Limits{RPS: 200, Burst: 400, Concurrency: 300, MaxBody: 4 << 20, Timeout: 10 * time.Second}
}

type APIDeps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Accounts *service.AccountService
	Products *service.ProductService
	Edits    *service.EditProductService
	Limits   Limits
	// SecureCookie marks the external-login session cookie Secure.
	SecureCookie bool
}

func NewAPIEngine(d APIDeps) *gin.Engine {
	r := server.NewRouter(d.Log)
	use(r, d.Log, d.Limits, "api")

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	handler.NewAccount(d.Accounts, d.SecureCookie).Mount(api.Group("/account"))

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT))
	handler.NewProduct(d.Products).Mount(authed.Group("/product"))
	handler.NewEditProduct(d.Edits).Mount(authed.Group("/editproduct"))

	return r
}

func use(r *gin.Engine, l *zap.Logger, lim Limits, name string) {
	if lim == (Limits{}) {
		lim = DefaultLimits()
	}
	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBody),
		mdw.Timeout(lim.Timeout),
		mdw.Metrics(name),
		mdw.AccessLog(l),
	)
}
