package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountRule struct {
	Code           string
	Percent        decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	MinOrderAmount decimal.Decimal
	IsActive       bool
	UsageLimit     int
	UsedCount      int
}

// Exhausted is true once the usage counter has reached a non-zero limit.
func (r DiscountRule) Exhausted() bool {
	return r.UsageLimit > 0 && r.UsedCount >= r.UsageLimit
}

func (r DiscountRule) InWindow(now time.Time) bool {
	return !now.Before(r.StartDate) && !now.After(r.EndDate)
}

type DiscountOutcome int

const (
	DiscountApplied DiscountOutcome = iota
	DiscountUnknown
	DiscountInactive
	DiscountOutsideWindow
	DiscountExhausted
	DiscountBelowMinimum
)

type DiscountResult struct {
	Outcome  DiscountOutcome
	Message  string
	Amount   decimal.Decimal
	NewTotal decimal.Decimal
}

func (r DiscountResult) OK() bool { return r.Outcome == DiscountApplied }

// EvaluateDiscount checks rule against an order total at instant now.
// A nil rule means the code does not exist. On any failure NewTotal equals
// total and Amount is zero.
func EvaluateDiscount(rule *DiscountRule, total decimal.Decimal, now time.Time) DiscountResult {
	fail := func(o DiscountOutcome, msg string) DiscountResult {
		return DiscountResult{Outcome: o, Message: msg, Amount: decimal.Zero, NewTotal: total}
	}

	switch {
	case rule == nil:
		return fail(DiscountUnknown, "Invalid discount code.")
	case !rule.IsActive:
		return fail(DiscountInactive, "This discount code is no longer active.")
	case !rule.InWindow(now):
		return fail(DiscountOutsideWindow, "This discount code is not valid at this time.")
	case rule.Exhausted():
		return fail(DiscountExhausted, "This discount code has reached its usage limit.")
	case total.LessThan(rule.MinOrderAmount):
		return fail(DiscountBelowMinimum, fmt.Sprintf("The minimum order amount for this discount is %s.", rule.MinOrderAmount.String()))
	}

	newTotal := ApplyPercent(total, rule.Percent)
	return DiscountResult{
		Outcome:  DiscountApplied,
		Message:  "Discount applied successfully.",
		Amount:   total.Sub(newTotal),
		NewTotal: newTotal,
	}
}
