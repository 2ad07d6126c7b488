package domain

import (
	"context"
	"time"
)

type ProductStatus string

const (
	StatusCreated  ProductStatus = "Created"
	StatusApproved ProductStatus = "Approved"
	StatusDeleted  ProductStatus = "Deleted"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusApproved, StatusDeleted:
		return true
	}
	return false
}

// Settable reports whether a status may be written through UpdateStatus.
// Created is only ever assigned on creation.
func (s ProductStatus) Settable() bool { return s == StatusApproved || s == StatusDeleted }

type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProductStatus `gorm:"size:16;index" json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// EditProduct is a staged replacement for a product's name and description.
// It references its product by id only.
type EditProduct struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      *string   `gorm:"size:16" json:"status,omitempty"`
	ProductID   uint      `gorm:"index;not null" json:"productId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (EditProduct) TableName() string { return "edit_products" }

type EditSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProductWithEdits struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	EditProducts []EditSummary `json:"editProducts"`
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Product, error)
	ListByStatus(ctx context.Context, status ProductStatus) ([]Product, error)
	UpdateStatus(ctx context.Context, id uint, status ProductStatus) error
	UpdateFields(ctx context.Context, id uint, name, description string) error
}

type EditProductRepository interface {
	Create(ctx context.Context, e *EditProduct) error
	FindByID(ctx context.Context, id uint) (*EditProduct, error)
	ListAll(ctx context.Context) ([]EditProduct, error)
	DeleteByID(ctx context.Context, id uint) (int64, error)
	DeleteByProductID(ctx context.Context, productID uint) (int64, error)
}

// CatalogStore groups both product tables behind one transaction boundary.
type CatalogStore interface {
	Products() ProductRepository
	Edits() EditProductRepository
	WithTx(ctx context.Context, fn func(tx CatalogStore) error) error
}
