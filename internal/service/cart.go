package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/events"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &transport.CartView{UserID: userID, Items: []transport.LineView{}, TotalPrice: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	lines := make([]hydrateLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, hydrateLine{l.ProductID, l.SKU, l.Quantity, l.Price, l.TotalPrice})
	}
	items, err := hydrate(ctx, s.Repo, lines)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return &transport.CartView{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      items,
		TotalPrice: total,
		UpdatedAt:  cart.UpdatedAt,
	}, nil
}

// resolveForCart loads the variation behind a cart request and checks the
// requested quantity against its current stock.
func (s *CartService) resolveForCart(ctx context.Context, req transport.CartItemRequest) (*models.Variation, error) {
	if req.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: productId required", ErrValidation)
	}
	if strings.TrimSpace(req.SKU) == "" {
		return nil, fmt.Errorf("%w: sku required", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, notFound(err, "product not found")
	}
	v := prod.VariationBySKU(req.SKU)
	if v == nil {
		return nil, fmt.Errorf("%w: variation %s not found", ErrNotFound, req.SKU)
	}
	if v.StockQuantity < req.Quantity {
		return nil, fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, v.StockQuantity, v.SKU)
	}
	return v, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req transport.CartItemRequest) (*transport.CartView, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	v, err := s.resolveForCart(ctx, req)
	if err != nil {
		return nil, err
	}

	line := models.CartLine{ProductID: req.ProductID, SKU: v.SKU, Quantity: req.Quantity, Price: v.Price}
	if err := s.Repo.AddCartLine(ctx, userID, line); err != nil {
		return nil, err
	}
	s.changed(ctx, userID, "add", req)
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateCartItem(ctx context.Context, userID uuid.UUID, req transport.CartItemRequest) (*transport.CartView, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	v, err := s.resolveForCart(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetCartLineQuantity(ctx, userID, req.ProductID, v.SKU, req.Quantity, v.Price); err != nil {
		return nil, notFound(err, "cart item not found")
	}
	s.changed(ctx, userID, "update", req)
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID uuid.UUID, req transport.CartItemRequest) (*transport.CartView, error) {
	if req.ProductID == uuid.Nil || strings.TrimSpace(req.SKU) == "" {
		return nil, fmt.Errorf("%w: productId and sku required", ErrValidation)
	}

	if err := s.Repo.DeleteCartLine(ctx, userID, req.ProductID, req.SKU); err != nil {
		return nil, notFound(err, "cart item not found")
	}
	s.changed(ctx, userID, "remove", req)
	return s.GetCart(ctx, userID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return err
	}
	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":   "cart_updated",
		"action": "clear",
		"userID": userID,
	})
	return nil
}

func (s *CartService) changed(ctx context.Context, userID uuid.UUID, action string, req transport.CartItemRequest) {
	publish(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":      "cart_updated",
		"action":    action,
		"userID":    userID,
		"productID": req.ProductID,
		"sku":       req.SKU,
		"quantity":  req.Quantity,
	})
}

type hydrateLine struct {
	productID  uuid.UUID
	sku        string
	quantity   int
	price      decimal.Decimal
	totalPrice decimal.Decimal
}

// hydrate joins stored lines with the live catalog.
func hydrate(ctx context.Context, r *repo.GormRepo, lines []hydrateLine) ([]transport.LineView, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.productID]; !ok {
			seen[l.productID] = struct{}{}
			ids = append(ids, l.productID)
		}
	}

	prods, err := r.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(prods))
	for i := range prods {
		byID[prods[i].ID] = &prods[i]
	}

	out := make([]transport.LineView, 0, len(lines))
	for _, l := range lines {
		view := transport.LineView{
			ProductID:  l.productID,
			SKU:        l.sku,
			Quantity:   l.quantity,
			Price:      l.price,
			TotalPrice: l.totalPrice,
		}
		if p, ok := byID[l.productID]; ok {
			view.Product = transport.Summarize(p)
			view.Variation = transport.ViewVariation(p.VariationBySKU(l.sku))
		}
		out = append(out, view)
	}
	return out, nil
}
