package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	OrderHandler    *OrderHTTP
	DiscountHandler *DiscountHTTP
	AddressHandler  *AddressHTTP
	WishlistHandler *WishlistHTTP
	PaymentHandler  *PaymentHTTP
	JWTSecret       []byte
	Ready           func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewBearerMiddleware(d.JWTSecret)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct, authMW.RequireAdmin)

	cart := e.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.POST("/update", d.CartHandler.UpdateCartItem)
	cart.POST("/remove", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	orders := e.Group("/orders")
	orders.POST("/create", d.OrderHandler.CreateOrder, authMW.RequireAuth)
	orders.GET("/user-order", d.OrderHandler.GetUserOrders, authMW.RequireAuth)
	orders.GET("/:id", d.OrderHandler.GetOrder, authMW.RequireAuth)

	adminOrders := orders.Group("", authMW.RequireAdmin)
	adminOrders.GET("", d.OrderHandler.GetOrders)
	adminOrders.POST("/:id/update", d.OrderHandler.UpdateOrder)
	adminOrders.DELETE("/:id", d.OrderHandler.DeleteOrder)

	discounts := e.Group("/discount")
	discounts.POST("/apply", d.DiscountHandler.ApplyDiscount)
	discounts.GET("/valid", d.DiscountHandler.GetValidDiscounts)
	discounts.GET("/code/:code", d.DiscountHandler.GetDiscountByCode)

	adminDiscounts := discounts.Group("", authMW.RequireAdmin)
	adminDiscounts.GET("", d.DiscountHandler.GetDiscounts)
	adminDiscounts.POST("/create", d.DiscountHandler.CreateDiscount)
	adminDiscounts.POST("/:id/update", d.DiscountHandler.UpdateDiscount)

	addresses := e.Group("/addresses", authMW.RequireAuth)
	addresses.POST("", d.AddressHandler.CreateAddress)
	addresses.GET("", d.AddressHandler.GetAddresses)
	addresses.GET("/:addressId", d.AddressHandler.GetAddress)
	addresses.PUT("/:addressId", d.AddressHandler.UpdateAddress)
	addresses.DELETE("/:addressId", d.AddressHandler.DeleteAddress)
	addresses.POST("/default/:addressId", d.AddressHandler.SetDefaultAddress)

	wishlist := e.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("", d.WishlistHandler.GetWishlist)
	wishlist.POST("/add-to-wishlist", d.WishlistHandler.AddToWishlist)
	wishlist.POST("/remove-from-wishlist", d.WishlistHandler.RemoveFromWishlist)

	e.POST("/paypal/create-order", d.PaymentHandler.CreateOrder, authMW.RequireAuth)
}
