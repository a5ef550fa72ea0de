package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
)

const DefaultPhoneNumber = "Default"

type ShippingAddress struct {
	Province      string `json:"province"`
	Ward          string `json:"ward"`
	AddressDetail string `json:"addressDetail"`
}

type Order struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"                            json:"id"`
	UserID          uuid.UUID            `gorm:"type:uuid;index;not null"                        json:"userId"`
	Lines           []OrderLine          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"  json:"items"`
	Status          domain.OrderStatus   `gorm:"index;not null"                                  json:"status"`
	TotalPrice      decimal.Decimal      `gorm:"type:numeric(12,2);not null"                     json:"totalPrice"`
	DiscountCode    *string              `                                                       json:"discountCode"`
	PhoneNumber     string               `gorm:"not null"                                        json:"phoneNumber"`
	ShippingAddress ShippingAddress      `gorm:"embedded;embeddedPrefix:shipping_"               json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod `gorm:"not null"                                        json:"paymentMethod"`
	CreatedAt       time.Time            `                                                       json:"createdAt"`
	UpdatedAt       time.Time            `                                                       json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine is frozen at order time; catalog price changes do not reach it.
type OrderLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"      json:"-"`
	Position   int             `gorm:"not null"                      json:"-"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"            json:"productId"`
	SKU        string          `gorm:"not null"                      json:"sku"`
	Quantity   int             `gorm:"not null;check:quantity >= 1"  json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"totalPrice"`
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (OrderLine) TableName() string {
	return "order_lines"
}
