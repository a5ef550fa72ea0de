package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func numberLines(order *models.Order) {
	for i := range order.Lines {
		order.Lines[i].Position = i
	}
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	numberLines(order)
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withLines(r.DB.WithContext(ctx)).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := withLines(r.DB.WithContext(ctx)).Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := withLines(r.DB.WithContext(ctx)).Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveOrder writes the scalar columns of order. When replaceLines is set the
// stored lines are swapped for order.Lines.
func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order, replaceLines bool) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceLines {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
				return err
			}
			numberLines(order)
			for i := range order.Lines {
				order.Lines[i].ID = uuid.Nil
				order.Lines[i].OrderID = order.ID
			}
			if len(order.Lines) > 0 {
				if err := tx.Create(&order.Lines).Error; err != nil {
					return err
				}
			}
		}
		return tx.Omit(clause.Associations).Save(order).Error
	})
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := withLines(tx).Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Order{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
