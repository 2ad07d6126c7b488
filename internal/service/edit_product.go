package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"product-catalog-api/internal/core/events"
	"product-catalog-api/internal/domain"
)

type EditProductService struct {
	store  domain.CatalogStore
	events events.Publisher
	log    *zap.Logger
}

func NewEditProductService(store domain.CatalogStore, pub events.Publisher, log *zap.Logger) *EditProductService {
	return &EditProductService{store: store, events: pub, log: log}
}

// Stage records a proposed name/description for an existing product.
func (s *EditProductService) Stage(ctx context.Context, productID uint, name, description, actor string) (*domain.EditProduct, error) {
	p, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("product not found")
	}
	e := &domain.EditProduct{ProductID: productID, Name: name, Description: description}
	if err := s.store.Edits().Create(ctx, e); err != nil {
		return nil, fmt.Errorf("stage edit: %w", err)
	}
	s.publish(ctx, events.Event{Type: events.EditStaged, ProductID: productID, EditID: e.ID, Name: name, Actor: actor})
	return e, nil
}

// Apply copies the edit into its product and removes every staged edit of
// that product. Both writes commit together or not at all.
func (s *EditProductService) Apply(ctx context.Context, editID, productID uint, actor string) error {
	var purged int64
	err := s.store.WithTx(ctx, func(tx domain.CatalogStore) error {
		edit, err := tx.Edits().FindByID(ctx, editID)
		if err != nil {
			return err
		}
		if edit == nil || edit.ProductID != productID {
			return domain.NotFound("edit not found for product")
		}
		p, err := tx.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("product not found")
		}
		if err := tx.Products().UpdateFields(ctx, productID, edit.Name, edit.Description); err != nil {
			return fmt.Errorf("merge edit: %w", err)
		}
		purged, err = tx.Edits().DeleteByProductID(ctx, productID)
		if err != nil {
			return fmt.Errorf("purge edits: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	editsApplied.Inc()
	editsPurged.Add(float64(purged))
	s.log.Info("edit applied",
		zap.Uint("edit_id", editID),
		zap.Uint("product_id", productID),
		zap.Int64("purged", purged),
		zap.String("actor", actor),
	)
	s.publish(ctx, events.Event{Type: events.EditApplied, ProductID: productID, EditID: editID, Purged: purged, Actor: actor})
	return nil
}

// ListProductsWithEdits returns products that have at least one staged edit,
// ordered by product id, each with its edits in staging order.
func (s *EditProductService) ListProductsWithEdits(ctx context.Context) ([]domain.ProductWithEdits, error) {
	edits, err := s.store.Edits().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uint][]domain.EditSummary)
	var ids []uint
	for _, e := range edits {
		if _, seen := byProduct[e.ProductID]; !seen {
			ids = append(ids, e.ProductID)
		}
		byProduct[e.ProductID] = append(byProduct[e.ProductID], domain.EditSummary{
			ID: e.ID, Name: e.Name, Description: e.Description,
		})
	}

	products, err := s.store.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProductWithEdits, 0, len(products))
	for _, p := range products {
		out = append(out, domain.ProductWithEdits{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			EditProducts: byProduct[p.ID],
		})
	}
	return out, nil
}

// Delete discards one staged edit without touching its siblings.
func (s *EditProductService) Delete(ctx context.Context, editID uint, actor string) error {
	edit, err := s.store.Edits().FindByID(ctx, editID)
	if err != nil {
		return err
	}
	if edit == nil {
		return domain.NotFound("edit not found")
	}
	n, err := s.store.Edits().DeleteByID(ctx, editID)
	if err != nil {
		return fmt.Errorf("delete edit: %w", err)
	}
	if n == 0 {
		return domain.NotFound("edit not found")
	}
	s.publish(ctx, events.Event{Type: events.EditDiscarded, ProductID: edit.ProductID, EditID: editID, Actor: actor})
	return nil
}

func (s *EditProductService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", zap.String("type", e.Type), zap.Uint("product_id", e.ProductID), zap.Error(err))
	}
}
