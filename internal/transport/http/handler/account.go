package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/ez"
	resp "product-catalog-api/internal/transport/http/response"
)

// SessionCookie carries the token issued by an external login; it has no
// expiry so it dies with the browser session.
const SessionCookie = "catalog_session"

type Account struct {
	svc          *service.AccountService
	secureCookie bool
}

func NewAccount(svc *service.AccountService, secureCookie bool) *Account {
	return &Account{svc: svc, secureCookie: secureCookie}
}

type registerIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type registerOut struct {
	Result string `json:"result"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string `json:"token"`
}

// Mount registers the public account routes, including one login and one
// callback route per configured external provider.
func (h *Account) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[registerIn, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (registerOut, error) {
			if err := h.svc.Register(c.Request.Context(), in.Email, in.Password, in.Role); err != nil {
				return registerOut{}, err
			}
			return registerOut{Result: "User registered successfully"}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{Token: tok}, nil
		},
	})

	for _, name := range h.svc.Providers() {
		g.GET("/"+name+"-login", h.challenge(name))
		g.GET("/"+name+"-callback", h.callback(name))
	}
}

func (h *Account) challenge(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, err := h.svc.ExternalChallenge(c.Request.Context(), provider)
		if err != nil {
			ez.WriteError(c, err)
			return
		}
		c.Redirect(http.StatusFound, target)
	}
}

func (h *Account) callback(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if msg := c.Query("error"); msg != "" {
			c.JSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "Error from external provider: "+msg))
			return
		}
		target, token, err := h.svc.ExternalCallback(c.Request.Context(), provider, c.Query("state"), c.Query("code"))
		if err != nil {
			ez.WriteError(c, err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, 0, "/", "", h.secureCookie, true)
		c.Redirect(http.StatusFound, target)
	}
}
