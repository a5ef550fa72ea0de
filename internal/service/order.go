package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/notify"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Catalog  *CatalogService
	Events   events.Publisher
	Notifier notify.Notifier
	Now      func() time.Time
}

// pricedLine is an order line together with the variation whose stock it draws on.
type pricedLine struct {
	line        models.OrderLine
	variationID uuid.UUID
}

func validateItems(items []transport.OrderItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i := range items {
		if items[i].ProductID == uuid.Nil {
			return fmt.Errorf("%w: productId required", ErrValidation)
		}
		if strings.TrimSpace(items[i].SKU) == "" {
			return fmt.Errorf("%w: sku required", ErrValidation)
		}
		if items[i].Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}
	return nil
}

// priceItems resolves every item against the current catalog, checks stock
// and freezes the unit price.
func priceItems(ctx context.Context, r *repo.GormRepo, items []transport.OrderItemRequest) ([]pricedLine, decimal.Decimal, error) {
	total := decimal.Zero
	out := make([]pricedLine, 0, len(items))

	for _, it := range items {
		prod, err := r.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, notFound(err, fmt.Sprintf("product %s not found", it.ProductID))
		}
		v := prod.VariationBySKU(it.SKU)
		if v == nil {
			return nil, decimal.Zero, fmt.Errorf("%w: variation %s not found", ErrNotFound, it.SKU)
		}
		if v.StockQuantity < it.Quantity {
			return nil, decimal.Zero, fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, v.StockQuantity, v.SKU)
		}

		lineTotal := domain.LineTotal(v.Price, it.Quantity)
		total = total.Add(lineTotal)
		out = append(out, pricedLine{
			line: models.OrderLine{
				ProductID:  prod.ID,
				SKU:        v.SKU,
				Quantity:   it.Quantity,
				Price:      v.Price,
				TotalPrice: lineTotal,
			},
			variationID: v.ID,
		})
	}
	return out, total, nil
}

func discountError(res domain.DiscountResult) error {
	switch res.Outcome {
	case domain.DiscountInactive:
		return fmt.Errorf("%w: %s", ErrDiscountInactive, res.Message)
	case domain.DiscountOutsideWindow:
		return fmt.Errorf("%w: %s", ErrDiscountExpired, res.Message)
	case domain.DiscountExhausted:
		return fmt.Errorf("%w: %s", ErrDiscountExhausted, res.Message)
	case domain.DiscountBelowMinimum:
		return fmt.Errorf("%w: %s", ErrBelowMinimum, res.Message)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidDiscount, res.Message)
	}
}

// PlaceOrder turns the requested lines into a pending order. Stock, discount
// usage, the order row and cart pruning commit together or not at all.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	payment, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	if strings.TrimSpace(req.ShippingAddress.AddressDetail) == "" {
		return nil, fmt.Errorf("%w: shipping address required", ErrValidation)
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		phone = models.DefaultPhoneNumber
	}
	code := strings.ToUpper(strings.TrimSpace(req.DiscountCode))
	at := clockNow(s.Now)

	order := &models.Order{
		UserID:          userID,
		Status:          domain.StatusPending,
		PhoneNumber:     phone,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   payment,
	}
	var redeemed *models.Discount

	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		priced, total, err := priceItems(ctx, tx, req.Items)
		if err != nil {
			return err
		}

		if code != "" {
			d, err := tx.GetDiscountByCode(ctx, code)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			var rule *domain.DiscountRule
			if d != nil {
				r := d.Rule()
				rule = &r
			}
			res := domain.EvaluateDiscount(rule, total, at)
			if !res.OK() {
				return discountError(res)
			}
			ok, err := tx.RedeemDiscount(ctx, d.ID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: This discount code has reached its usage limit.", ErrDiscountExhausted)
			}
			total = res.NewTotal
			order.DiscountCode = &d.Code
			d.UsedCount++
			redeemed = d
		}

		order.TotalPrice = total
		order.Lines = make([]models.OrderLine, 0, len(priced))
		for _, p := range priced {
			order.Lines = append(order.Lines, p.line)
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		skus := make([]string, 0, len(priced))
		for _, p := range priced {
			ok, err := tx.DecrementStock(ctx, p.variationID, p.line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s sold out while ordering", ErrInsufficientStock, p.line.SKU)
			}
			skus = append(skus, p.line.SKU)
		}

		_, err = tx.PruneCartBySKUs(ctx, userID, skus)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterPlace(ctx, order, redeemed)
	return order, nil
}

func (s *OrderService) afterPlace(ctx context.Context, order *models.Order, redeemed *models.Discount) {
	l := logging.FromContext(ctx).With("order_id", order.ID)

	if s.Catalog != nil {
		s.Catalog.Invalidate(ctx, productIDs(order.Lines)...)
	}

	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), map[string]any{
		"type":       "order_created",
		"orderID":    order.ID,
		"userID":     order.UserID,
		"totalPrice": order.TotalPrice,
		"items":      order.Lines,
	})
	if redeemed != nil {
		publish(ctx, s.Events, events.TopicDiscounts, redeemed.ID.String(), map[string]any{
			"type":      "discount_redeemed",
			"code":      redeemed.Code,
			"orderID":   order.ID,
			"usedCount": redeemed.UsedCount,
		})
	}

	if s.Notifier == nil {
		return
	}
	n := notify.OrderPlaced{
		OrderID:       order.ID.String(),
		UserID:        order.UserID.String(),
		Total:         order.TotalPrice.StringFixed(2),
		PaymentMethod: string(order.PaymentMethod),
	}
	if order.DiscountCode != nil {
		n.DiscountCode = *order.DiscountCode
	}
	for _, ln := range order.Lines {
		n.Lines = append(n.Lines, fmt.Sprintf("%s x%d @ %s", ln.SKU, ln.Quantity, ln.Price.StringFixed(2)))
	}
	if err := s.Notifier.OrderPlaced(ctx, n); err != nil {
		l.Warn("order_notification_failed", "error", err)
	}
}

func productIDs(lines []models.OrderLine) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]uuid.UUID, 0, len(lines))
	for _, ln := range lines {
		if _, ok := seen[ln.ProductID]; !ok {
			seen[ln.ProductID] = struct{}{}
			out = append(out, ln.ProductID)
		}
	}
	return out
}

// UpdateOrder applies an admin patch. New items are re-priced against current
// stock but stock itself is left alone.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, patch transport.OrderPatch) (*models.Order, error) {
	var updated *models.Order

	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.GetOrder(ctx, id)
		if err != nil {
			return notFound(err, "order not found")
		}

		if patch.Status != nil {
			next, ok := domain.ParseOrderStatus(*patch.Status)
			if !ok {
				return fmt.Errorf("%w: unknown status %q", ErrValidation, *patch.Status)
			}
			if !order.Status.CanTransition(next) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
			}
			order.Status = next
		}
		if patch.PaymentMethod != nil {
			pm, ok := domain.ParsePaymentMethod(*patch.PaymentMethod)
			if !ok {
				return fmt.Errorf("%w: unknown payment method %q", ErrValidation, *patch.PaymentMethod)
			}
			order.PaymentMethod = pm
		}
		if patch.ShippingAddress != nil {
			order.ShippingAddress = *patch.ShippingAddress
		}
		if patch.PhoneNumber != nil && strings.TrimSpace(*patch.PhoneNumber) != "" {
			order.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
		}

		replace := len(patch.Items) > 0
		if replace {
			if err := validateItems(patch.Items); err != nil {
				return err
			}
			priced, total, err := priceItems(ctx, tx, patch.Items)
			if err != nil {
				return err
			}
			if order.DiscountCode != nil {
				d, err := tx.GetDiscountByCode(ctx, *order.DiscountCode)
				switch {
				case err == nil:
					total = domain.ApplyPercent(total, d.Amount)
				case !errors.Is(err, gorm.ErrRecordNotFound):
					return err
				}
			}
			order.TotalPrice = total
			order.Lines = order.Lines[:0]
			for _, p := range priced {
				order.Lines = append(order.Lines, p.line)
			}
		}

		if err := tx.SaveOrder(ctx, order, replace); err != nil {
			return err
		}
		updated, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrders, updated.ID.String(), map[string]any{
		"type":       "order_updated",
		"orderID":    updated.ID,
		"status":     updated.Status,
		"totalPrice": updated.TotalPrice,
	})
	return updated, nil
}

// GetOrder returns the order with each line joined to its live catalog entry.
// Only the owner or an admin may read it.
func (s *OrderService) GetOrder(ctx context.Context, id, requester uuid.UUID, admin bool) (*transport.OrderView, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	if !admin && order.UserID != requester {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}

	lines := make([]hydrateLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, hydrateLine{l.ProductID, l.SKU, l.Quantity, l.Price, l.TotalPrice})
	}
	items, err := hydrate(ctx, s.Repo, lines)
	if err != nil {
		return nil, err
	}
	return &transport.OrderView{Order: *order, Items: items}, nil
}

func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, offset, limit)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.Repo.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.DeleteOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), map[string]any{
		"type":    "order_deleted",
		"orderID": order.ID,
		"userID":  order.UserID,
	})
	return order, nil
}
