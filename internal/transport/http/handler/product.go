package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog-api/internal/domain"
	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/ez"
)

var (
	managerOnly       = []domain.RoleName{domain.RoleManager}
	capturerOrManager = []domain.RoleName{domain.RoleCapturer, domain.RoleManager}
)

type Product struct {
	svc *service.ProductService
}

func NewProduct(svc *service.ProductService) *Product { return &Product{svc: svc} }

type productBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type idURI struct {
	ID uint `uri:"id" binding:"required"`
}

type statusIn struct {
	ID     uint   `uri:"id" json:"-" binding:"required"`
	Status string `json:"status"`
}

type updateIn struct {
	ID          uint   `uri:"id" json:"-" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Mount expects g to run the JWT middleware.
func (h *Product) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[productBody, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/AddProduct",
		Binder: ez.BindJSON,
		Roles:  capturerOrManager,
		Status: http.StatusCreated,
		Location: func(c *gin.Context, p *domain.Product) string {
			return fmt.Sprintf("%s/GetProductById/%d", g.BasePath(), p.ID)
		},
		Handler: func(c *gin.Context, in *productBody) (*domain.Product, error) {
			return h.svc.Create(c.Request.Context(), in.Name, in.Description, ez.Actor(c))
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/UpdateProductStatus/:id/status",
		Binder: ez.BindURI,
		Roles:  managerOnly,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *statusIn) (struct{}, error) {
			return struct{}{}, h.svc.UpdateStatus(c.Request.Context(), in.ID, in.Status, ez.Actor(c))
		},
	})

	ez.RegisterAction(e, ez.Action[updateIn, struct{}]{
		Method: http.MethodPut,
		Path:   "/UpdateProduct/:id",
		Binder: ez.BindURI,
		Roles:  capturerOrManager,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *updateIn) (struct{}, error) {
			return struct{}{}, h.svc.UpdateFields(c.Request.Context(), in.ID, in.Name, in.Description, ez.Actor(c))
		},
	})

	h.list(e, "/GetCreatedProducts", domain.StatusCreated, managerOnly)
	h.list(e, "/GetDeletedProducts", domain.StatusDeleted, managerOnly)
	h.list(e, "/GetApprovedProducts", domain.StatusApproved, capturerOrManager)

	ez.RegisterAction(e, ez.Action[idURI, *domain.Product]{
		Method: http.MethodGet,
		Path:   "/GetProductById/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (*domain.Product, error) {
			return h.svc.Get(c.Request.Context(), in.ID)
		},
	})
}

func (h *Product) list(e ez.EZ, path string, status domain.ProductStatus, roles []domain.RoleName) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Product]{
		Method: http.MethodGet,
		Path:   path,
		Binder: ez.BindNone,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Product, error) {
			return h.svc.ListByStatus(c.Request.Context(), status)
		},
	})
}
