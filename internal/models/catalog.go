package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Attribute struct {
	Name   string   `json:"attributeName"`
	Values []string `json:"values"`
}

type Product struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"                      json:"id"`
	Name        string      `gorm:"not null"                                  json:"name"`
	Description string      `                                                 json:"description"`
	Category    string      `gorm:"index"                                     json:"category"`
	Brand       string      `                                                 json:"brand"`
	Images      []string    `gorm:"serializer:json"                           json:"images"`
	Rating      float64     `gorm:"default:4.5"                               json:"rating"`
	Variations  []Variation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations"`
	CreatedAt   time.Time   `                                                 json:"createdAt"`
	UpdatedAt   time.Time   `                                                 json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

// VariationBySKU returns the product's variation with the given sku, or nil.
func (p *Product) VariationBySKU(sku string) *Variation {
	for i := range p.Variations {
		if p.Variations[i].SKU == sku {
			return &p.Variations[i]
		}
	}
	return nil
}

type Variation struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"                json:"id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;index;not null"            json:"productId"`
	SKU           string          `gorm:"uniqueIndex;not null"                json:"sku"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"         json:"price"`
	StockQuantity int             `gorm:"not null;check:stock_quantity >= 0"  json:"stockQuantity"`
	Attributes    []Attribute     `gorm:"serializer:json"                     json:"attributes"`
	Images        []string        `gorm:"serializer:json"                     json:"images"`
	Version       int             `gorm:"not null;default:1"                  json:"-"`
}

func (v *Variation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (Variation) TableName() string {
	return "product_variations"
}
