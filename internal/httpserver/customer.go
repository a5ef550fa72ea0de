package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create_address")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "create_address_error", err)
	}
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_address_error", "invalid body", err)
	}

	a, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return fail(l, "create_address_error", err, "cannot create address")
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AddressHTTP) GetAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get_addresses")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "get_addresses_error", err)
	}

	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		return fail(l, "get_addresses_error", err, "cannot get addresses")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AddressHTTP) GetAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.get_address")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "get_address_error", err)
	}
	id, err := parseParamID(c, "addressId")
	if err != nil {
		return badRequest(l, "get_address_error", "addressId is not a uuid", err)
	}

	a, err := h.Svc.Get(ctx, userID, id)
	if err != nil {
		return fail(l, "get_address_error", err, "cannot get address")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update_address")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "update_address_error", err)
	}
	id, err := parseParamID(c, "addressId")
	if err != nil {
		return badRequest(l, "update_address_error", "addressId is not a uuid", err)
	}
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_address_error", "invalid body", err)
	}

	a, err := h.Svc.Update(ctx, userID, id, req)
	if err != nil {
		return fail(l, "update_address_error", err, "cannot update address")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AddressHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete_address")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "delete_address_error", err)
	}
	id, err := parseParamID(c, "addressId")
	if err != nil {
		return badRequest(l, "delete_address_error", "addressId is not a uuid", err)
	}

	if err := h.Svc.Delete(ctx, userID, id); err != nil {
		return fail(l, "delete_address_error", err, "cannot delete address")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AddressHTTP) SetDefaultAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.set_default_address")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "set_default_address_error", err)
	}
	id, err := parseParamID(c, "addressId")
	if err != nil {
		return badRequest(l, "set_default_address_error", "addressId is not a uuid", err)
	}

	a, err := h.Svc.SetDefault(ctx, userID, id)
	if err != nil {
		return fail(l, "set_default_address_error", err, "cannot set default address")
	}
	return c.JSON(http.StatusOK, a)
}

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get_wishlist")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "get_wishlist_error", err)
	}

	items, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return fail(l, "get_wishlist_error", err, "cannot get wishlist")
	}
	return c.JSON(http.StatusOK, map[string]any{"wishlist": items})
}

func (h *WishlistHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add_to_wishlist")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "add_to_wishlist_error", err)
	}
	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_wishlist_error", "invalid body", err)
	}

	items, err := h.Svc.Add(ctx, userID, req.ProductID)
	if err != nil {
		return fail(l, "add_to_wishlist_error", err, "cannot add to wishlist")
	}

	l.Info("add_to_wishlist_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, map[string]any{"message": "Product added to wishlist", "wishlist": items})
}

func (h *WishlistHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove_from_wishlist")

	userID, err := GetID(c)
	if err != nil {
		return unauthorized(l, "remove_from_wishlist_error", err)
	}
	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "remove_from_wishlist_error", "invalid body", err)
	}

	items, err := h.Svc.Remove(ctx, userID, req.ProductID)
	if err != nil {
		return fail(l, "remove_from_wishlist_error", err, "cannot remove from wishlist")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Product removed from wishlist", "wishlist": items})
}
