package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"product-catalog-api/internal/core/auth"
	"product-catalog-api/internal/core/server"
	"product-catalog-api/internal/domain"
	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/handler"
	mdw "product-catalog-api/internal/transport/http/middleware"
)

type AdminDeps struct {
	Log    *zap.Logger
	JWT    *auth.JWTer
	Admin  *service.AdminService
	Limits Limits
}

func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := server.NewRouter(d.Log)
	use(r, d.Log, d.Limits, "admin")

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleManager))
	handler.NewAdmin(d.Admin).Mount(admin)

	return r
}
