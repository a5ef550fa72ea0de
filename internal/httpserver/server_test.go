package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	e     *echo.Echo
	db    *gorm.DB
	ready error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testutil.NewDB(t)
	r := &repo.GormRepo{DB: gdb}
	catalog := &service.CatalogService{Repo: r}
	env := &testEnv{e: echo.New(), db: gdb}

	Register(env.e, &Deps{
		CatalogHandler:  &CatalogHTTP{Svc: catalog},
		CartHandler:     &CartHTTP{Svc: &service.CartService{Repo: r}},
		OrderHandler:    &OrderHTTP{Svc: &service.OrderService{Repo: r, Catalog: catalog}},
		DiscountHandler: &DiscountHTTP{Svc: &service.DiscountService{Repo: r}},
		AddressHandler:  &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		WishlistHandler: &WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		PaymentHandler:  &PaymentHTTP{Svc: &service.PaymentService{}},
		JWTSecret:       testSecret,
		Ready:           func(context.Context) error { return env.ready },
	})
	return env
}

func token(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(testSecret, userID.String(), role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func (env *testEnv) do(t *testing.T, method, path string, body any, tok string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)

	env.ready = errors.New("db down")
	assert.Equal(t, http.StatusServiceUnavailable, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	user := token(t, userID, tokens.RoleUser)

	shirt := testutil.SeedProduct(t, env.db, "Shirt", "SHIRT-M", "100", 5)
	testutil.SeedDiscount(t, env.db, "SAVE10", "10", 5, time.Now().UTC())

	rec := env.do(t, http.MethodPost, "/cart/add", map[string]any{"productId": shirt.ID, "sku": "SHIRT-M", "quantity": 2}, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	cart := body["cart"].(map[string]any)
	assert.Equal(t, "200", cart["totalPrice"])

	rec = env.do(t, http.MethodPost, "/discount/apply", map[string]any{"cartTotal": 200, "discountCode": "SAVE10"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode(t, rec)
	assert.Equal(t, true, preview["success"])
	assert.Equal(t, "180", preview["newTotal"])

	rec = env.do(t, http.MethodPost, "/orders/create", map[string]any{
		"items":           []map[string]any{{"productId": shirt.ID, "sku": "SHIRT-M", "quantity": 2}},
		"shippingAddress": map[string]any{"province": "Hanoi", "addressDetail": "1 Tran Phu"},
		"paymentMethod":   "cod",
		"discountCode":    "SAVE10",
	}, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "180", order["totalPrice"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 3, testutil.StockOf(t, env.db, "SHIRT-M"))

	rec = env.do(t, http.MethodGet, "/cart", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["cart"].(map[string]any)["items"])

	orderID := order["id"].(string)
	rec = env.do(t, http.MethodGet, "/orders/"+orderID, nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["data"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].(map[string]any)["product"].(map[string]any)["name"])

	rec = env.do(t, http.MethodGet, "/orders/"+orderID, nil, token(t, uuid.New(), tokens.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, "/orders/user-order", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)
}

func TestCreateOrder_ErrorStatuses(t *testing.T) {
	env := newTestEnv(t)
	user := token(t, uuid.New(), tokens.RoleUser)
	shirt := testutil.SeedProduct(t, env.db, "Shirt", "SHIRT-M", "100", 3)

	orderBody := func(productID uuid.UUID, qty int, code string) map[string]any {
		return map[string]any{
			"items":           []map[string]any{{"productId": productID, "sku": "SHIRT-M", "quantity": qty}},
			"shippingAddress": map[string]any{"addressDetail": "1 Tran Phu"},
			"discountCode":    code,
		}
	}

	tests := []struct {
		name   string
		body   any
		tok    string
		status int
	}{
		{name: "no token", body: orderBody(shirt.ID, 1, ""), status: http.StatusUnauthorized},
		{name: "insufficient stock", body: orderBody(shirt.ID, 5, ""), tok: user, status: http.StatusBadRequest},
		{name: "unknown discount", body: orderBody(shirt.ID, 1, "NOPE"), tok: user, status: http.StatusBadRequest},
		{name: "unknown product", body: orderBody(uuid.New(), 1, ""), tok: user, status: http.StatusNotFound},
		{name: "no items", body: map[string]any{"items": []any{}}, tok: user, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := env.do(t, http.MethodPost, "/orders/create", tt.body, tt.tok)
		assert.Equal(t, tt.status, rec.Code, "%s: %s", tt.name, rec.Body.String())
		assert.NotEmpty(t, decode(t, rec)["message"], tt.name)
	}
	assert.Equal(t, 3, testutil.StockOf(t, env.db, "SHIRT-M"))
}

func TestAdminOrderRoutes(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	user := token(t, userID, tokens.RoleUser)
	admin := token(t, uuid.New(), tokens.RoleAdmin)
	shirt := testutil.SeedProduct(t, env.db, "Shirt", "SHIRT-M", "100", 5)

	rec := env.do(t, http.MethodPost, "/orders/create", map[string]any{
		"items":           []map[string]any{{"productId": shirt.ID, "sku": "SHIRT-M", "quantity": 1}},
		"shippingAddress": map[string]any{"addressDetail": "1 Tran Phu"},
	}, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decode(t, rec)["data"].(map[string]any)["id"].(string)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/orders", nil, user).Code)

	rec = env.do(t, http.MethodGet, "/orders?page=1&size=10", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	meta := decode(t, rec)["meta"].(map[string]any)
	assert.EqualValues(t, 1, meta["total"])

	rec = env.do(t, http.MethodPost, "/orders/"+orderID+"/update", map[string]any{"updateData": map[string]any{"status": "delivered"}}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "pending cannot jump to delivered")

	rec = env.do(t, http.MethodPost, "/orders/"+orderID+"/update", map[string]any{"updateData": map[string]any{"status": "shipped"}}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "shipped", decode(t, rec)["data"].(map[string]any)["status"])

	rec = env.do(t, http.MethodDelete, "/orders/"+orderID, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/orders/"+orderID, nil, admin).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, "/orders/not-a-uuid", nil, admin).Code)
}

func TestApplyDiscount_Rejected(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedDiscount(t, env.db, "OLD", "10", 5, time.Now().UTC().Add(-72*time.Hour))

	rec := env.do(t, http.MethodPost, "/discount/apply", map[string]any{"cartTotal": "75.50", "discountCode": "OLD"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "75.5", body["newTotal"])
	assert.Equal(t, "This discount code is not valid at this time.", body["message"])
}

func TestDiscountAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := token(t, uuid.New(), tokens.RoleAdmin)
	now := time.Now().UTC()

	create := map[string]any{
		"code":           "spring",
		"discountAmount": 15,
		"startDate":      now.Add(-time.Hour),
		"endDate":        now.Add(time.Hour),
		"usageLimit":     10,
	}
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/discount/create", create, token(t, uuid.New(), tokens.RoleUser)).Code)

	rec := env.do(t, http.MethodPost, "/discount/create", create, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "SPRING", decode(t, rec)["data"].(map[string]any)["code"])

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/discount/create", create, admin).Code)

	rec = env.do(t, http.MethodGet, "/discount/valid", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/discount/code/spring", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/discount/code/nope", nil, "").Code)
}

func TestCartAndWishlistRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/cart", "/wishlist", "/addresses", "/orders/user-order"} {
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, path, nil, "").Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/cart", nil, "garbage").Code)
}

func TestAddressAndWishlistRoutes(t *testing.T) {
	env := newTestEnv(t)
	user := token(t, uuid.New(), tokens.RoleUser)
	other := token(t, uuid.New(), tokens.RoleUser)
	shirt := testutil.SeedProduct(t, env.db, "Shirt", "SHIRT-M", "100", 5)

	rec := env.do(t, http.MethodPost, "/addresses", map[string]any{"name": "Home", "phoneNumber": "0900", "addressLine": "1 Tran Phu"}, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	addr := decode(t, rec)
	assert.Equal(t, true, addr["isDefault"])
	assert.Equal(t, "Vietnam", addr["country"])
	id := addr["id"].(string)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/addresses/"+id, nil, other).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/addresses/default/"+id, nil, user).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/addresses/"+id, nil, user).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/addresses/"+id, nil, user).Code)

	rec = env.do(t, http.MethodPost, "/wishlist/add-to-wishlist", map[string]any{"productId": shirt.ID}, user)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec)["wishlist"], 1)

	rec = env.do(t, http.MethodPost, "/wishlist/add-to-wishlist", map[string]any{"productId": shirt.ID}, user)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/wishlist/remove-from-wishlist", map[string]any{"productId": shirt.ID}, user)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)
	admin := token(t, uuid.New(), tokens.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/products", map[string]any{
		"name":       "Linen Shirt",
		"category":   "apparel",
		"variations": []map[string]any{{"sku": "LIN-M", "price": "49.90", "stockQuantity": 4}},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["id"].(string)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/products", map[string]any{"name": "x"}, "").Code)

	rec = env.do(t, http.MethodGet, "/products/"+id, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Linen Shirt", decode(t, rec)["name"])

	rec = env.do(t, http.MethodGet, "/products?category=apparel", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = env.do(t, http.MethodGet, "/products/search?q=linen", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/products/"+uuid.NewString(), nil, "").Code)
}

func TestPayPalUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/paypal/create-order", map[string]any{"amount": "10.00"}, token(t, uuid.New(), tokens.RoleUser))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
