package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("sku ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) getOrCreateCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartLine merges line into the user's cart, creating the cart on first use.
// An existing (product, sku) line accumulates quantity and takes the new price.
func (r *GormRepo) AddCartLine(ctx context.Context, userID uuid.UUID, line models.CartLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := r.getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.CartLine{}).
			Where("cart_id = ? AND product_id = ? AND sku = ?", cart.ID, line.ProductID, line.SKU).
			Updates(map[string]any{
				"quantity":    gorm.Expr("quantity + ?", line.Quantity),
				"price":       line.Price,
				"total_price": gorm.Expr("(quantity + ?) * CAST(? AS NUMERIC)", line.Quantity, line.Price.String()),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("updated_at", tx.NowFunc()).Error
		}

		line.ID = uuid.Nil
		line.CartID = cart.ID
		line.TotalPrice = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		return tx.Create(&line).Error
	})
}

// SetCartLineQuantity overwrites quantity and price of an existing line.
func (r *GormRepo) SetCartLineQuantity(ctx context.Context, userID, productID uuid.UUID, sku string, qty int, price decimal.Decimal) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		res := tx.Model(&models.CartLine{}).
			Where("cart_id = ? AND product_id = ? AND sku = ?", cart.ID, productID, sku).
			Updates(map[string]any{
				"quantity":    qty,
				"price":       price,
				"total_price": price.Mul(decimal.NewFromInt(int64(qty))),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) DeleteCartLine(ctx context.Context, userID, productID uuid.UUID, sku string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		res := tx.Where("cart_id = ? AND product_id = ? AND sku = ?", cart.ID, productID, sku).Delete(&models.CartLine{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	sub := r.DB.WithContext(ctx).Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)
	return r.DB.WithContext(ctx).Where("cart_id IN (?)", sub).Delete(&models.CartLine{}).Error
}

// PruneCartBySKUs drops every line of the user's cart whose sku was bought.
// A user without a cart is not an error.
func (r *GormRepo) PruneCartBySKUs(ctx context.Context, userID uuid.UUID, skus []string) (int64, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	res := r.DB.WithContext(ctx).Where("cart_id = ? AND sku IN ?", cart.ID, skus).Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}
