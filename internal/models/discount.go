package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
)

type Discount struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	Code           string          `gorm:"uniqueIndex;not null"          json:"code"`
	Description    string          `                                     json:"description"`
	Amount         decimal.Decimal `gorm:"type:numeric(5,2);not null"    json:"discountAmount"`
	StartDate      time.Time       `gorm:"not null"                      json:"startDate"`
	EndDate        time.Time       `gorm:"not null"                      json:"endDate"`
	MinOrderAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"minOrderAmount"`
	IsActive       bool            `gorm:"not null"                      json:"isActive"`
	UsageLimit     int             `gorm:"not null"                      json:"usageLimit"`
	UsedCount      int             `gorm:"not null;default:0"            json:"usedCount"`
	CreatedAt      time.Time       `                                     json:"createdAt"`
	UpdatedAt      time.Time       `                                     json:"updatedAt"`
}

func (d *Discount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Discount) TableName() string {
	return "discounts"
}

func (d *Discount) Rule() domain.DiscountRule {
	return domain.DiscountRule{
		Code:           d.Code,
		Percent:        d.Amount,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		MinOrderAmount: d.MinOrderAmount,
		IsActive:       d.IsActive,
		UsageLimit:     d.UsageLimit,
		UsedCount:      d.UsedCount,
	}
}
