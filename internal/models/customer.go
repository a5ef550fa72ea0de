package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCountry = "Vietnam"

type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"    json:"userId"`
	Name        string    `gorm:"not null"                    json:"name"`
	PhoneNumber string    `gorm:"not null"                    json:"phoneNumber"`
	Ward        string    `                                   json:"ward"`
	City        string    `                                   json:"city"`
	AddressLine string    `gorm:"not null"                    json:"addressLine"`
	Country     string    `gorm:"not null"                    json:"country"`
	IsDefault   bool      `gorm:"not null"                    json:"isDefault"`
	CreatedAt   time.Time `                                   json:"createdAt"`
	UpdatedAt   time.Time `                                   json:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return nil
}

func (Address) TableName() string {
	return "addresses"
}

type WishlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                         json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wish;not null"      json:"userId"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wish;not null"      json:"productId"`
	CreatedAt time.Time `                                                    json:"createdAt"`
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
