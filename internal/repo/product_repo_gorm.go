package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"product-catalog-api/internal/domain"
)

// CatalogRepo backs products and their staged edits with one *gorm.DB so
// both repositories share a transaction when WithTx is used.
type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func (r *CatalogRepo) Products() domain.ProductRepository   { return &ProductRepo{db: r.db} }
func (r *CatalogRepo) Edits() domain.EditProductRepository { return &EditProductRepo{db: r.db} }

func (r *CatalogRepo) WithTx(ctx context.Context, fn func(tx domain.CatalogStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CatalogRepo{db: tx})
	})
}

type ProductRepo struct{ db *gorm.DB }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	var ps []domain.Product
	if len(ids) == 0 {
		return ps, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) ListByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	ps := make([]domain.Product, 0)
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) UpdateStatus(ctx context.Context, id uint, status domain.ProductStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateFields writes name and description even when they are empty strings.
func (r *ProductRepo) UpdateFields(ctx context.Context, id uint, name, description string) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "description": description}).Error
}

type EditProductRepo struct{ db *gorm.DB }

func (r *EditProductRepo) Create(ctx context.Context, e *domain.EditProduct) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EditProductRepo) FindByID(ctx context.Context, id uint) (*domain.EditProduct, error) {
	var e domain.EditProduct
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EditProductRepo) ListAll(ctx context.Context) ([]domain.EditProduct, error) {
	var es []domain.EditProduct
	err := r.db.WithContext(ctx).Order("product_id, id").Find(&es).Error
	return es, err
}

func (r *EditProductRepo) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.EditProduct{})
	return res.RowsAffected, res.Error
}

func (r *EditProductRepo) DeleteByProductID(ctx context.Context, productID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.EditProduct{})
	return res.RowsAffected, res.Error
}
