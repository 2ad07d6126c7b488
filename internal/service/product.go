package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"product-catalog-api/internal/core/events"
	"product-catalog-api/internal/domain"
)

type ProductService struct {
	store  domain.CatalogStore
	events events.Publisher
	log    *zap.Logger
}

func NewProductService(store domain.CatalogStore, pub events.Publisher, log *zap.Logger) *ProductService {
	return &ProductService{store: store, events: pub, log: log}
}

// Create stores name and description only; the status always starts as Created.
func (s *ProductService) Create(ctx context.Context, name, description, actor string) (*domain.Product, error) {
	p := &domain.Product{Name: name, Description: description, Status: domain.StatusCreated}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info("product created", zap.Uint("product_id", p.ID), zap.String("actor", actor))
	s.publish(ctx, events.Event{Type: events.ProductCreated, ProductID: p.ID, Name: p.Name, Status: string(p.Status), Actor: actor})
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	return p, nil
}

func (s *ProductService) ListByStatus(ctx context.Context, status domain.ProductStatus) ([]domain.Product, error) {
	return s.store.Products().ListByStatus(ctx, status)
}

// UpdateStatus moves any product to Approved or Deleted. The current status
// is not consulted.
func (s *ProductService) UpdateStatus(ctx context.Context, id uint, status string, actor string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	next := domain.ProductStatus(status)
	if !next.Settable() {
		return domain.Validation("Invalid status value.")
	}
	if err := s.store.Products().UpdateStatus(ctx, id, next); err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	statusChanges.WithLabelValues(string(next)).Inc()
	s.log.Info("product status changed",
		zap.Uint("product_id", id),
		zap.String("from", string(p.Status)),
		zap.String("to", string(next)),
		zap.String("actor", actor),
	)
	s.publish(ctx, events.Event{Type: events.ProductStatusChanged, ProductID: id, Status: string(next), Actor: actor})
	return nil
}

// UpdateFields overwrites name and description and leaves status alone.
func (s *ProductService) UpdateFields(ctx context.Context, id uint, name, description, actor string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Products().UpdateFields(ctx, id, name, description); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	s.publish(ctx, events.Event{Type: events.ProductUpdated, ProductID: id, Name: name, Actor: actor})
	return nil
}

func (s *ProductService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", zap.String("type", e.Type), zap.Uint("product_id", e.ProductID), zap.Error(err))
	}
}
