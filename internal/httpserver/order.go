package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "create_order_error", err)
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}

	order, err := h.Svc.PlaceOrder(ctx, userID, req)
	if err != nil {
		return fail(l, "create_order_error", err, "cannot create order")
	}

	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalPrice.String())
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"data":    order,
	})
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	id, err := parseParamID(c, "id")
	if err != nil {
		return badRequest(l, "update_order_error", "id is not a uuid", err)
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_error", "invalid body", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, id, req.UpdateData)
	if err != nil {
		return fail(l, "update_order_error", err, "cannot update order")
	}

	l.Info("update_order_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Order updated successfully",
		"data":    order,
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "get_order_error", err)
	}
	id, err := parseParamID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", "id is not a uuid", err)
	}

	order, err := h.Svc.GetOrder(ctx, id, userID, isAdmin(c))
	if err != nil {
		return fail(l, "get_order_error", err, "cannot get order")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Order retrieved successfully",
		"data":    order,
	})
}

func (h *OrderHTTP) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_user_orders")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "get_user_orders_error", err)
	}

	orders, err := h.Svc.ListUserOrders(ctx, userID)
	if err != nil {
		return fail(l, "get_user_orders_error", err, "cannot get orders")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListOrders(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_orders_error", err, "cannot get orders")
	}

	l.Info("get_orders_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseParamID(c, "id")
	if err != nil {
		return badRequest(l, "delete_order_error", "id is not a uuid", err)
	}

	order, err := h.Svc.DeleteOrder(ctx, id)
	if err != nil {
		return fail(l, "delete_order_error", err, "cannot delete order")
	}

	l.Info("delete_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Order deleted successfully",
		"data":    order,
	})
}
