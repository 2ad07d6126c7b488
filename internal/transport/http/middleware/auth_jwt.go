package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"product-catalog-api/internal/core/auth"
	"product-catalog-api/internal/domain"
	"product-catalog-api/internal/transport/http/ez"
	resp "product-catalog-api/internal/transport/http/response"
)

// AuthJWT requires a valid bearer token. With roles given, the token must
// carry at least one of them.
func AuthJWT(j *auth.JWTer, roles ...domain.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if len(roles) > 0 && !claims.HasAnyRole(roles...) {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Set(ez.ClaimsKey, claims)
		c.Next()
	}
}
