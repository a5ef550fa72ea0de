package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func withVariations(db *gorm.DB) *gorm.DB {
	return db.Preload("Variations", func(db *gorm.DB) *gorm.DB {
		return db.Order("sku ASC")
	})
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withVariations(r.DB.WithContext(ctx)).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Product
	if err := withVariations(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := withVariations(q).Order("created_at DESC").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// SearchProducts is the database fallback used when no search cluster is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, text string, offset, limit int) (int64, []models.Product, error) {
	like := "%" + strings.ToLower(text) + "%"
	q := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", like, like, like)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := withVariations(q).Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// ExistingSKUs returns which of skus are already taken.
func (r *GormRepo) ExistingSKUs(ctx context.Context, skus []string) ([]string, error) {
	var taken []string
	if len(skus) == 0 {
		return taken, nil
	}
	err := r.DB.WithContext(ctx).Model(&models.Variation{}).Where("sku IN ?", skus).Pluck("sku", &taken).Error
	return taken, err
}

func (r *GormRepo) GetVariation(ctx context.Context, productID uuid.UUID, sku string) (*models.Variation, error) {
	var v models.Variation
	if err := r.DB.WithContext(ctx).Where("product_id = ? AND sku = ?", productID, sku).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// DecrementStock takes qty units from a variation only if enough remain.
// It reports false when the guard rejected the write.
func (r *GormRepo) DecrementStock(ctx context.Context, variationID uuid.UUID, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Variation{}).
		Where("id = ? AND stock_quantity >= ?", variationID, qty).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"version":        gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
