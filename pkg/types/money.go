package types

import "github.com/shopspring/decimal"

// Money renders a decimal amount as a JSON number rounded to cents.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// MoneyPtr is Money for optional amounts.
func MoneyPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := Money(*d)
	return &v
}

// MinorUnits converts an amount to cents, truncating anything below a cent.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Truncate(0).IntPart()
}
