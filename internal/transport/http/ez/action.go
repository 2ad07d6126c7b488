package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"product-catalog-api/internal/core/auth"
	"product-catalog-api/internal/domain"
	resp "product-catalog-api/internal/transport/http/response"
)

// ClaimsKey is where the JWT middleware stores *auth.Claims.
const ClaimsKey = "claims"

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"
	BindNone  Binder = "none"
)

// Action is one endpoint with input I and output O.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Roles, when set, requires the caller's token to carry at least one.
	// The group must already run the JWT middleware.
	Roles []domain.RoleName
	// Status is the success status: 200 by default, 201 or 204.
	Status int
	// Location fills the Location header of a 201 response.
	Location func(c *gin.Context, out O) string
	Handler  func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if len(a.Roles) > 0 {
			claims := CurrentClaims(c)
			if claims == nil {
				resp.Abort(c, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !claims.HasAnyRole(a.Roles...) {
				resp.Abort(c, http.StatusForbidden, "forbidden")
				return
			}
		}

		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}

		switch a.Status {
		case http.StatusNoContent:
			c.Status(http.StatusNoContent)
		case http.StatusCreated:
			if a.Location != nil {
				c.Header("Location", a.Location(c, out))
			}
			c.JSON(http.StatusCreated, resp.OK(out))
		default:
			c.JSON(http.StatusOK, resp.OK(out))
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	case BindURI:
		if err := c.ShouldBindUri(in); err != nil {
			return err
		}
		// a URI-bound input may also carry a JSON body
		if c.Request.ContentLength != 0 {
			return c.ShouldBindJSON(in)
		}
		return nil
	default:
		return nil
	}
}

// WriteError maps domain error kinds onto HTTP statuses. Identity rule
// failures are passed through as the response data.
func WriteError(c *gin.Context, err error) {
	var ie domain.IdentityErrors
	switch {
	case errors.As(err, &ie):
		c.JSON(http.StatusBadRequest, resp.ErrorWith(resp.CodeBadRequest, err.Error(), ie))
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, err.Error()))
	case errors.Is(err, domain.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, err.Error()))
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
	}
}

func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// Actor names the caller for logs and events; empty when anonymous.
func Actor(c *gin.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.Subject
	}
	return ""
}
