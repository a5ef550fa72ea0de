package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrConflict          = errors.New("conflict")           // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 400
	ErrInvalidDiscount   = errors.New("invalid discount")   // 400
	ErrDiscountExpired   = errors.New("discount expired")   // 400
	ErrDiscountExhausted = errors.New("discount exhausted") // 400
	ErrBelowMinimum      = errors.New("below minimum order amount")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnavailable       = errors.New("unavailable") // 503

	ErrDiscountInactive = fmt.Errorf("%w: inactive", ErrInvalidDiscount)
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func clockNow(clock func() time.Time) time.Time {
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}
