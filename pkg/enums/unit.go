package enums

import "fmt"

// Unit is the unit of sale for produce quantities. All pricing math converts
// through grams; 1 kg = 1000 g.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "gram"
)

var validUnits = []Unit{
	UnitKilogram,
	UnitGram,
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known Unit.
func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnit converts raw input into a Unit.
func ParseUnit(value string) (Unit, error) {
	for _, candidate := range validUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit %q", value)
}
