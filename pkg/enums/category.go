package enums

import "fmt"

// ProduceCategory classifies catalog items.
type ProduceCategory string

const (
	ProduceCategoryFruit     ProduceCategory = "fruit"
	ProduceCategoryVegetable ProduceCategory = "vegetable"
)

var validProduceCategories = []ProduceCategory{
	ProduceCategoryFruit,
	ProduceCategoryVegetable,
}

// String implements fmt.Stringer.
func (c ProduceCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProduceCategory.
func (c ProduceCategory) IsValid() bool {
	for _, candidate := range validProduceCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProduceCategory converts raw input into a ProduceCategory.
func ParseProduceCategory(value string) (ProduceCategory, error) {
	for _, candidate := range validProduceCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid produce category %q", value)
}
