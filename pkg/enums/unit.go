package enums

import (
	"fmt"
	"strings"
)

// UnitOfMeasurement describes how a product is sold.
type UnitOfMeasurement string

const (
	UnitPiece      UnitOfMeasurement = "piece"
	UnitKilogram   UnitOfMeasurement = "kg"
	UnitGram       UnitOfMeasurement = "g"
	UnitLitre      UnitOfMeasurement = "l"
	UnitMillilitre UnitOfMeasurement = "ml"
	UnitPack       UnitOfMeasurement = "pack"
)

var validUnits = []UnitOfMeasurement{
	UnitPiece,
	UnitKilogram,
	UnitGram,
	UnitLitre,
	UnitMillilitre,
	UnitPack,
}

// String implements fmt.Stringer.
func (u UnitOfMeasurement) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnitOfMeasurement.
func (u UnitOfMeasurement) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnitOfMeasurement converts raw input into a UnitOfMeasurement.
func ParseUnitOfMeasurement(value string) (UnitOfMeasurement, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validUnits {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit of measurement %q", value)
}
