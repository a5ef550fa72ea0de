package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type DiscountHTTP struct {
	Svc *service.DiscountService
}

func (h *DiscountHTTP) CreateDiscount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "discount.create_discount")

	var req transport.DiscountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_discount_error", "invalid body", err)
	}

	d, err := h.Svc.CreateDiscount(ctx, req)
	if err != nil {
		return fail(l, "create_discount_error", err, "cannot create discount")
	}

	l.Info("create_discount_success", "code", d.Code)
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Discount created successfully",
		"data":    d,
	})
}

func (h *DiscountHTTP) GetDiscounts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "discount.get_discounts")

	items, err := h.Svc.ListDiscounts(ctx)
	if err != nil {
		return fail(l, "get_discounts_error", err, "cannot get discounts")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Discounts retrieved successfully", "data": items})
}

func (h *DiscountHTTP) GetValidDiscounts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "discount.get_valid_discounts")

	items, err := h.Svc.ListValidDiscounts(ctx)
	if err != nil {
		return fail(l, "get_valid_discounts_error", err, "cannot get discounts")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Valid discounts retrieved successfully", "data": items})
}

func (h *DiscountHTTP) GetDiscountByCode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "discount.get_discount_by_code")

	d, err := h.Svc.GetDiscountByCode(ctx, c.Param("code"))
	if err != nil {
		return fail(l, "get_discount_by_code_error", err, "cannot get discount")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Discount retrieved successfully", "data": d})
}

func (h *DiscountHTTP) UpdateDiscount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "discount.update_discount")

	id, err := parseParamID(c, "id")
	if err != nil {
		return badRequest(l, "update_discount_error", "id is not a uuid", err)
	}

	var req transport.DiscountPatch
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_discount_error", "invalid body", err)
	}

	d, err := h.Svc.UpdateDiscount(ctx, id, req)
	if err != nil {
		return fail(l, "update_discount_error", err, "cannot update discount")
	}

	l.Info("update_discount_success", "code", d.Code)
	return c.JSON(http.StatusOK, map[string]any{"message": "Discount updated successfully", "data": d})
}

// ApplyDiscount previews a code against a cart total. A rejected code is
// still a 200 with success=false.
func (h *DiscountHTTP) ApplyDiscount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "discount.apply_discount")

	var req transport.ApplyDiscountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "apply_discount_error", "invalid body", err)
	}

	res, err := h.Svc.PreviewDiscount(ctx, req.CartTotal, req.DiscountCode)
	if err != nil {
		return fail(l, "apply_discount_error", err, "cannot apply discount")
	}

	return c.JSON(http.StatusOK, res)
}
