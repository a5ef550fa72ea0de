package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func SeedProduct(t *testing.T, gdb *gorm.DB, name, sku, price string, stock int) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:     name,
		Category: "apparel",
		Brand:    "Acme",
		Images:   []string{"https://img.example/" + sku + ".png"},
		Variations: []models.Variation{{
			SKU:           sku,
			Price:         decimal.RequireFromString(price),
			StockQuantity: stock,
			Attributes:    []models.Attribute{{Name: "size", Values: []string{"M"}}},
		}},
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func SeedDiscount(t *testing.T, gdb *gorm.DB, code, percent string, usageLimit int, now time.Time) *models.Discount {
	t.Helper()

	d := &models.Discount{
		Code:           code,
		Amount:         decimal.RequireFromString(percent),
		StartDate:      now.Add(-24 * time.Hour),
		EndDate:        now.Add(24 * time.Hour),
		MinOrderAmount: decimal.Zero,
		IsActive:       true,
		UsageLimit:     usageLimit,
	}
	require.NoError(t, gdb.Create(d).Error)
	return d
}

func StockOf(t *testing.T, gdb *gorm.DB, sku string) int {
	t.Helper()

	var v models.Variation
	require.NoError(t, gdb.Where("sku = ?", sku).First(&v).Error)
	return v.StockQuantity
}
