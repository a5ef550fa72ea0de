package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"                              json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"                    json:"userId"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"     json:"items"`
	CreatedAt time.Time  `                                                         json:"createdAt"`
	UpdatedAt time.Time  `                                                         json:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Cart) TableName() string {
	return "carts"
}

type CartLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"                           json:"id"`
	CartID     uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"   json:"-"`
	ProductID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"   json:"productId"`
	SKU        string          `gorm:"uniqueIndex:idx_cart_line;not null"             json:"sku"`
	Quantity   int             `gorm:"not null;check:quantity > 0"                    json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"totalPrice"`
	CreatedAt  time.Time       `                                                      json:"createdAt"`
}

func (l *CartLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (CartLine) TableName() string {
	return "cart_lines"
}
