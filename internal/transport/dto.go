package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/models"
)

type VariationRequest struct {
	SKU           string             `json:"sku"`
	Price         decimal.Decimal    `json:"price"`
	StockQuantity int                `json:"stockQuantity"`
	Attributes    []models.Attribute `json:"attributes"`
	Images        []string           `json:"images"`
}

type CreateProductRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Brand       string             `json:"brand"`
	Images      []string           `json:"images"`
	Variations  []VariationRequest `json:"variations"`
}

type CartItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	DiscountCode    string                 `json:"discountCode"`
	PhoneNumber     string                 `json:"phoneNumber"`
}

type OrderPatch struct {
	Items           []OrderItemRequest      `json:"items"`
	Status          *string                 `json:"status"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   *string                 `json:"paymentMethod"`
	PhoneNumber     *string                 `json:"phoneNumber"`
}

type UpdateOrderRequest struct {
	UpdateData OrderPatch `json:"updateData"`
}

type DiscountRequest struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
	IsActive       *bool           `json:"isActive"`
	UsageLimit     int             `json:"usageLimit"`
}

type DiscountPatch struct {
	Code           *string          `json:"code"`
	Description    *string          `json:"description"`
	DiscountAmount *decimal.Decimal `json:"discountAmount"`
	StartDate      *time.Time       `json:"startDate"`
	EndDate        *time.Time       `json:"endDate"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount"`
	IsActive       *bool            `json:"isActive"`
	UsageLimit     *int             `json:"usageLimit"`
}

type ApplyDiscountRequest struct {
	CartTotal    decimal.Decimal `json:"cartTotal"`
	DiscountCode string          `json:"discountCode"`
}

type DiscountPreview struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NewTotal       decimal.Decimal `json:"newTotal"`
}

type AddressRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Ward        string `json:"ward"`
	City        string `json:"city"`
	AddressLine string `json:"addressLine"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"isDefault"`
}

type WishlistRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

type PayPalOrderRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ProductSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Brand    string    `json:"brand"`
	Images   []string  `json:"images"`
}

type VariationView struct {
	ID            uuid.UUID          `json:"id"`
	SKU           string             `json:"sku"`
	Price         decimal.Decimal    `json:"price"`
	StockQuantity int                `json:"stockQuantity"`
	Attributes    []models.Attribute `json:"attributes"`
	Images        []string           `json:"images"`
}

// LineView is a cart or order line joined with live catalog data. Product
// and Variation are nil when the catalog entry no longer exists.
type LineView struct {
	ProductID  uuid.UUID       `json:"productId"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Product    *ProductSummary `json:"product"`
	Variation  *VariationView  `json:"variation"`
}

type CartView struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	Items      []LineView      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type OrderView struct {
	models.Order
	Items []LineView `json:"items"`
}

func Summarize(p *models.Product) *ProductSummary {
	if p == nil {
		return nil
	}
	return &ProductSummary{ID: p.ID, Name: p.Name, Category: p.Category, Brand: p.Brand, Images: p.Images}
}

func ViewVariation(v *models.Variation) *VariationView {
	if v == nil {
		return nil
	}
	return &VariationView{
		ID:            v.ID,
		SKU:           v.SKU,
		Price:         v.Price,
		StockQuantity: v.StockQuantity,
		Attributes:    v.Attributes,
		Images:        v.Images,
	}
}
