package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "get_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err, "cannot get cart")
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "cart": cart})
}

type cartMutation func(ctx context.Context, userID uuid.UUID, req transport.CartItemRequest) (*transport.CartView, error)

// mutate runs one of the cart write operations and answers with the
// re-hydrated cart.
func (h *CartHTTP) mutate(c echo.Context, op string, fn cartMutation) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart."+op)

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, op+"_error", err)
	}

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, op+"_error", "invalid body", err)
	}

	cart, err := fn(ctx, userID, req)
	if err != nil {
		return fail(l, op+"_error", err, "cannot update cart")
	}

	l.Info(op+"_success", "product_id", req.ProductID, "sku", req.SKU)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "cart": cart})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	return h.mutate(c, "add_to_cart", h.Svc.AddToCart)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	return h.mutate(c, "update_cart_item", h.Svc.UpdateCartItem)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	return h.mutate(c, "remove_from_cart", h.Svc.RemoveFromCart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "clear_cart_error", err)
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return fail(l, "clear_cart_error", err, "cannot clear cart")
	}

	l.Info("clear_cart_success")
	return c.NoContent(http.StatusNoContent)
}
