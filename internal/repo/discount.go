package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateDiscount(ctx context.Context, d *models.Discount) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var items []models.Discount
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListValidDiscounts(ctx context.Context, now time.Time) ([]models.Discount, error) {
	var items []models.Discount
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Where("usage_limit = 0 OR used_count < usage_limit").
		Order("end_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetDiscount(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var d models.Discount
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) GetDiscountByCode(ctx context.Context, code string) (*models.Discount, error) {
	var d models.Discount
	if err := r.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) DiscountCodeTaken(ctx context.Context, code string, except uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Discount{}).
		Where("code = ? AND id <> ?", code, except).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) SaveDiscount(ctx context.Context, d *models.Discount) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(d).Error
}

// RedeemDiscount bumps used_count by one unless the limit has been reached.
// It reports false when the guard rejected the write.
func (r *GormRepo) RedeemDiscount(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Discount{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", id).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
