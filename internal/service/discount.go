package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

var maxPercent = decimal.NewFromInt(100)

type DiscountService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func validateDiscount(d *models.Discount) error {
	if d.Code == "" {
		return fmt.Errorf("%w: code required", ErrValidation)
	}
	if !d.Amount.IsPositive() || d.Amount.GreaterThan(maxPercent) {
		return fmt.Errorf("%w: discountAmount must be in (0, 100]", ErrValidation)
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate required", ErrValidation)
	}
	if !d.StartDate.Before(d.EndDate) {
		return fmt.Errorf("%w: startDate must be before endDate", ErrValidation)
	}
	if d.MinOrderAmount.IsNegative() {
		return fmt.Errorf("%w: minOrderAmount must be >= 0", ErrValidation)
	}
	if d.UsageLimit < 0 {
		return fmt.Errorf("%w: usageLimit must be >= 0", ErrValidation)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *DiscountService) CreateDiscount(ctx context.Context, req transport.DiscountRequest) (*models.Discount, error) {
	d := &models.Discount{
		Code:           normalizeCode(req.Code),
		Description:    req.Description,
		Amount:         req.DiscountAmount,
		StartDate:      req.StartDate.UTC(),
		EndDate:        req.EndDate.UTC(),
		MinOrderAmount: req.MinOrderAmount,
		IsActive:       true,
		UsageLimit:     req.UsageLimit,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	if err := validateDiscount(d); err != nil {
		return nil, err
	}

	taken, err := s.Repo.DiscountCodeTaken(ctx, d.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: discount code %s already exists", ErrConflict, d.Code)
	}
	if err := s.Repo.CreateDiscount(ctx, d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: discount code %s already exists", ErrConflict, d.Code)
		}
		return nil, err
	}
	return d, nil
}

func (s *DiscountService) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	return s.Repo.ListDiscounts(ctx)
}

func (s *DiscountService) ListValidDiscounts(ctx context.Context) ([]models.Discount, error) {
	return s.Repo.ListValidDiscounts(ctx, clockNow(s.Now))
}

func (s *DiscountService) GetDiscountByCode(ctx context.Context, code string) (*models.Discount, error) {
	d, err := s.Repo.GetDiscountByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, "discount not found")
	}
	return d, nil
}

func (s *DiscountService) UpdateDiscount(ctx context.Context, id uuid.UUID, patch transport.DiscountPatch) (*models.Discount, error) {
	d, err := s.Repo.GetDiscount(ctx, id)
	if err != nil {
		return nil, notFound(err, "discount not found")
	}

	if patch.Code != nil {
		d.Code = normalizeCode(*patch.Code)
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.DiscountAmount != nil {
		d.Amount = *patch.DiscountAmount
	}
	if patch.StartDate != nil {
		d.StartDate = patch.StartDate.UTC()
	}
	if patch.EndDate != nil {
		d.EndDate = patch.EndDate.UTC()
	}
	if patch.MinOrderAmount != nil {
		d.MinOrderAmount = *patch.MinOrderAmount
	}
	if patch.IsActive != nil {
		d.IsActive = *patch.IsActive
	}
	if patch.UsageLimit != nil {
		d.UsageLimit = *patch.UsageLimit
	}
	if err := validateDiscount(d); err != nil {
		return nil, err
	}

	if patch.Code != nil {
		taken, err := s.Repo.DiscountCodeTaken(ctx, d.Code, d.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: discount code %s already exists", ErrConflict, d.Code)
		}
	}
	if err := s.Repo.SaveDiscount(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// PreviewDiscount evaluates code against cartTotal without redeeming it.
// A rejected code is reported in the result, not as an error.
func (s *DiscountService) PreviewDiscount(ctx context.Context, cartTotal decimal.Decimal, code string) (*transport.DiscountPreview, error) {
	if cartTotal.IsNegative() {
		return nil, fmt.Errorf("%w: cartTotal must be >= 0", ErrValidation)
	}

	var rule *domain.DiscountRule
	if c := normalizeCode(code); c != "" {
		d, err := s.Repo.GetDiscountByCode(ctx, c)
		switch {
		case err == nil:
			r := d.Rule()
			rule = &r
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	res := domain.EvaluateDiscount(rule, cartTotal, clockNow(s.Now))
	return &transport.DiscountPreview{
		Success:        res.OK(),
		Message:        res.Message,
		DiscountAmount: res.Amount,
		NewTotal:       res.NewTotal,
	}, nil
}
