package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ApplyPercent takes pct percent off total, floored at zero and rounded to cents.
func ApplyPercent(total, pct decimal.Decimal) decimal.Decimal {
	out := total.Sub(total.Mul(pct).Div(hundred))
	if out.IsNegative() {
		return decimal.Zero
	}
	return out.Round(2)
}
