package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	if got := Money(decimal.RequireFromString("19.999")); got != 20 {
		t.Fatalf("expected rounding to 20, got %v", got)
	}
	if got := Money(decimal.RequireFromString("45.50")); got != 45.5 {
		t.Fatalf("expected 45.5, got %v", got)
	}
	if MoneyPtr(nil) != nil {
		t.Fatal("expected nil for nil amount")
	}
}

func TestMinorUnitsTruncates(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{
		"45.50":  4550,
		"0.999":  99,
		"120":    12000,
		"10.005": 1000,
	}
	for in, want := range cases {
		if got := MinorUnits(decimal.RequireFromString(in)); got != want {
			t.Fatalf("MinorUnits(%s) = %d, want %d", in, got, want)
		}
	}
}
