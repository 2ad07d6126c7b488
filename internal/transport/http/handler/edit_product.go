package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog-api/internal/domain"
	"product-catalog-api/internal/service"
	"product-catalog-api/internal/transport/http/ez"
)

type EditProduct struct {
	svc *service.EditProductService
}

func NewEditProduct(svc *service.EditProductService) *EditProduct {
	return &EditProduct{svc: svc}
}

type applyIn struct {
	ProductID     uint `json:"productId"     binding:"required"`
	EditProductID uint `json:"editProductId" binding:"required"`
}

type stageIn struct {
	ProductID   uint   `json:"productId" binding:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Mount expects g to run the JWT middleware.
func (h *EditProduct) Mount(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[stageIn, *domain.EditProduct]{
		Method: http.MethodPost,
		Path:   "/AddEditProduct",
		Binder: ez.BindJSON,
		Roles:  capturerOrManager,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *stageIn) (*domain.EditProduct, error) {
			return h.svc.Stage(c.Request.Context(), in.ProductID, in.Name, in.Description, ez.Actor(c))
		},
	})

	ez.RegisterAction(e, ez.Action[applyIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/ApplyUpdateProduct",
		Binder: ez.BindJSON,
		Roles:  managerOnly,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *applyIn) (struct{}, error) {
			return struct{}{}, h.svc.Apply(c.Request.Context(), in.EditProductID, in.ProductID, ez.Actor(c))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.ProductWithEdits]{
		Method: http.MethodGet,
		Path:   "/GetProductsWithEdits",
		Binder: ez.BindNone,
		Roles:  managerOnly,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ProductWithEdits, error) {
			return h.svc.ListProductsWithEdits(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, struct{}]{
		Method: http.MethodDelete,
		Path:   "/DeleteEditProduct/:id",
		Binder: ez.BindURI,
		Roles:  managerOnly,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, in *idURI) (struct{}, error) {
			return struct{}{}, h.svc.Delete(c.Request.Context(), in.ID, ez.Actor(c))
		},
	})
}
