package pricing

import (
	"github.com/aldousari/sooqfresh-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

const gramsPerKilogram = 1000

// UnitGrams returns how many grams one unit represents.
func UnitGrams(unit enums.Unit) float64 {
	if unit == enums.UnitKilogram {
		return gramsPerKilogram
	}
	return 1
}

// ToGrams normalizes a quantity in the given unit to grams. All price
// comparisons happen in gram space so offers listed in kg and gram compete
// directly.
func ToGrams(quantity float64, unit enums.Unit) float64 {
	return quantity * UnitGrams(unit)
}

// Round2 rounds a computed amount to 2 decimal places for presentation.
// Intermediate math stays in full float precision; rounding happens only at
// the edges.
func Round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
