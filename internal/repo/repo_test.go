package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

func TestDecrementStock_Guarded(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()
	p := testutil.SeedProduct(t, gdb, "Shirt", "SHIRT-M", "100", 3)
	vid := p.Variations[0].ID

	ok, err := r.DecrementStock(ctx, vid, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.DecrementStock(ctx, vid, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := r.GetVariation(ctx, p.ID, "SHIRT-M")
	require.NoError(t, err)
	assert.Equal(t, 1, v.StockQuantity)
	assert.Equal(t, 2, v.Version)
}

func TestRedeemDiscount_RespectsLimit(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()
	now := time.Now().UTC()

	limited := testutil.SeedDiscount(t, gdb, "TWICE", "5", 2, now)
	unlimited := testutil.SeedDiscount(t, gdb, "ALWAYS", "5", 0, now)

	for i, want := range []bool{true, true, false} {
		ok, err := r.RedeemDiscount(ctx, limited.ID)
		require.NoError(t, err)
		assert.Equal(t, want, ok, "attempt %d", i)
	}
	for i := 0; i < 5; i++ {
		ok, err := r.RedeemDiscount(ctx, unlimited.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	d, err := r.GetDiscountByCode(ctx, " twice ")
	require.NoError(t, err)
	assert.Equal(t, 2, d.UsedCount)
}

func TestWithTx_RollsBack(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()
	p := testutil.SeedProduct(t, gdb, "Shirt", "SHIRT-M", "100", 3)

	boom := errors.New("boom")
	err := r.WithTx(ctx, func(tx *GormRepo) error {
		ok, err := tx.DecrementStock(ctx, p.Variations[0].ID, 3)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, testutil.StockOf(t, gdb, "SHIRT-M"))
}

func TestCartLines(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()
	userID := uuid.New()

	shirt := testutil.SeedProduct(t, gdb, "Shirt", "SHIRT-M", "100", 10)
	hat := testutil.SeedProduct(t, gdb, "Hat", "HAT-L", "20", 10)
	line := func(p *models.Product, qty int, price string) models.CartLine {
		return models.CartLine{ProductID: p.ID, SKU: p.Variations[0].SKU, Quantity: qty, Price: decimal.RequireFromString(price)}
	}

	require.NoError(t, r.AddCartLine(ctx, userID, line(shirt, 1, "100")))
	require.NoError(t, r.AddCartLine(ctx, userID, line(shirt, 2, "90")))
	require.NoError(t, r.AddCartLine(ctx, userID, line(hat, 1, "20")))

	cart, err := r.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)

	var shirtLine models.CartLine
	for _, l := range cart.Lines {
		if l.SKU == "SHIRT-M" {
			shirtLine = l
		}
	}
	assert.Equal(t, 3, shirtLine.Quantity)
	assert.True(t, decimal.NewFromInt(90).Equal(shirtLine.Price))
	assert.True(t, decimal.NewFromInt(270).Equal(shirtLine.TotalPrice), "total %s", shirtLine.TotalPrice)

	err = r.SetCartLineQuantity(ctx, userID, hat.ID, "NOPE", 1, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	n, err := r.PruneCartBySKUs(ctx, userID, []string{"SHIRT-M"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	cart, err = r.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "HAT-L", cart.Lines[0].SKU)

	n, err = r.PruneCartBySKUs(ctx, uuid.New(), []string{"HAT-L"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveOrder_ReplacesLines(t *testing.T) {
	gdb := testutil.NewDB(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()

	order := &models.Order{
		UserID:        uuid.New(),
		Status:        domain.StatusPending,
		TotalPrice:    decimal.NewFromInt(30),
		PhoneNumber:   models.DefaultPhoneNumber,
		PaymentMethod: domain.PaymentCOD,
		Lines: []models.OrderLine{
			{ProductID: uuid.New(), SKU: "A", Quantity: 1, Price: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(10)},
			{ProductID: uuid.New(), SKU: "B", Quantity: 2, Price: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(20)},
		},
	}
	require.NoError(t, r.CreateOrder(ctx, order))

	got, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "A", got.Lines[0].SKU)
	assert.Equal(t, "B", got.Lines[1].SKU)

	got.Lines = []models.OrderLine{{ProductID: uuid.New(), SKU: "C", Quantity: 1, Price: decimal.NewFromInt(5), TotalPrice: decimal.NewFromInt(5)}}
	got.TotalPrice = decimal.NewFromInt(5)
	got.Status = domain.StatusShipped
	require.NoError(t, r.SaveOrder(ctx, got, true))

	again, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, again.Lines, 1)
	assert.Equal(t, "C", again.Lines[0].SKU)
	assert.Equal(t, domain.StatusShipped, again.Status)
	assert.True(t, decimal.NewFromInt(5).Equal(again.TotalPrice))
}
