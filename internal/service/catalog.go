package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/cache"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/search"
)

type ProductIndex interface {
	IndexProduct(ctx context.Context, doc search.ProductDoc) error
	Search(ctx context.Context, query string, from, size int) (int64, []search.ProductDoc, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Cache  cache.Cache
	Index  ProductIndex
	Events events.Publisher
}

func productKey(id uuid.UUID) string {
	return "product:" + id.String()
}

func (s *CatalogService) cache() cache.Cache {
	if s.Cache == nil {
		return cache.Nop{}
	}
	return s.Cache
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if len(req.Variations) == 0 {
		return nil, fmt.Errorf("%w: at least one variation required", ErrValidation)
	}

	seen := make(map[string]struct{}, len(req.Variations))
	skus := make([]string, 0, len(req.Variations))
	prod := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Images:      req.Images,
	}
	for _, v := range req.Variations {
		sku := strings.TrimSpace(v.SKU)
		if sku == "" {
			return nil, fmt.Errorf("%w: sku required", ErrValidation)
		}
		if _, dup := seen[sku]; dup {
			return nil, fmt.Errorf("%w: duplicate sku %s", ErrValidation, sku)
		}
		if v.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		if v.StockQuantity < 0 {
			return nil, fmt.Errorf("%w: stockQuantity must be >= 0", ErrValidation)
		}
		seen[sku] = struct{}{}
		skus = append(skus, sku)
		prod.Variations = append(prod.Variations, models.Variation{
			SKU:           sku,
			Price:         v.Price,
			StockQuantity: v.StockQuantity,
			Attributes:    v.Attributes,
			Images:        v.Images,
		})
	}

	taken, err := s.Repo.ExistingSKUs(ctx, skus)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, fmt.Errorf("%w: sku already exists: %s", ErrConflict, strings.Join(taken, ", "))
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: sku already exists", ErrConflict)
		}
		return nil, err
	}

	l := logging.FromContext(ctx)
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, docFor(prod)); err != nil {
			l.Warn("index_product_failed", "product_id", prod.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, prod.ID.String(), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
		"skus":      skus,
	})
	return prod, nil
}

func docFor(p *models.Product) search.ProductDoc {
	return search.ProductDoc{
		ID:          p.ID.String(),
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	l := logging.FromContext(ctx)

	var cached models.Product
	hit, err := s.cache().Get(ctx, productKey(id), &cached)
	if err != nil {
		l.Warn("product_cache_get_failed", "product_id", id, "error", err)
	}
	if hit {
		return &cached, nil
	}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product not found")
	}
	if err := s.cache().Set(ctx, productKey(id), prod); err != nil {
		l.Warn("product_cache_set_failed", "product_id", id, "error", err)
	}
	return prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.ListProducts(ctx, category, offset, limit)
}

// SearchProducts prefers the search cluster and falls back to a database
// scan when no cluster is configured or the cluster fails.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if s.Index != nil {
		total, docs, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.productsInOrder(ctx, docs)
			return total, items, err
		}
		logging.FromContext(ctx).Warn("search_fallback", "reason", "index search failed", "error", err)
	}
	return s.Repo.SearchProducts(ctx, query, offset, limit)
}

func (s *CatalogService) productsInOrder(ctx context.Context, docs []search.ProductDoc) ([]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		if id, err := uuid.Parse(d.ID); err == nil {
			ids = append(ids, id)
		}
	}
	found, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Invalidate drops cached copies of the given products.
func (s *CatalogService) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	if err := s.cache().Delete(ctx, keys...); err != nil {
		logging.FromContext(ctx).Warn("product_cache_delete_failed", "error", err)
	}
}

func publish(ctx context.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
