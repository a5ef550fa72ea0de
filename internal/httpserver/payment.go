package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "paypal.create_order")

	var req transport.PayPalOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "paypal_create_order_error", "invalid body", err)
	}

	res, err := h.Svc.CreatePayPalOrder(ctx, req.Amount)
	if err != nil {
		return fail(l, "paypal_create_order_error", err, "cannot create paypal order")
	}

	l.Info("paypal_create_order_success", "paypal_order_id", res.ID)
	return c.JSON(http.StatusOK, res)
}
