package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog-api/internal/domain"
	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/ez"
)

type Admin struct {
	svc *service.AdminService
}

func NewAdmin(svc *service.AdminService) *Admin { return &Admin{svc: svc} }

type pageIn struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit"  binding:"omitempty,min=1,max=200"`
}

type usersOut struct {
	Items []service.UserWithRoles `json:"items"`
	Total int64                   `json:"total"`
}

type roleIn struct {
	Name string `json:"name" binding:"required"`
}

type assignIn struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"  binding:"required"`
}

// Mount registers the admin routes; g runs the JWT middleware for Manager.
func (h *Admin) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[pageIn, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageIn) (usersOut, error) {
			limit := in.Limit
			if limit == 0 {
				limit = 50
			}
			items, total, err := h.svc.ListUsers(c.Request.Context(), in.Offset, limit)
			if err != nil {
				return usersOut{}, err
			}
			return usersOut{Items: items, Total: total}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Role]{
		Method: http.MethodGet,
		Path:   "/roles",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Role, error) {
			return h.svc.ListRoles(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[roleIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/roles",
		Binder: ez.BindJSON,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *roleIn) (struct{}, error) {
			return struct{}{}, h.svc.CreateRole(c.Request.Context(), in.Name)
		},
	})

	ez.RegisterAction(e, ez.Action[assignIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/users/roles",
		Binder: ez.BindJSON,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *assignIn) (struct{}, error) {
			return struct{}{}, h.svc.AssignRole(c.Request.Context(), in.Email, in.Role)
		},
	})
}
