package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatAmount converts an amount in base units into display units with the
// given number of decimals, trimming trailing zeros (1500000, 6 -> "1.5")
func FormatAmount(amount uint64, decimals int32) string {
	value := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals)
	return value.String()
}

// ParseAmount converts a display amount into base units
func ParseAmount(value string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: must not be negative", value)
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", value, decimals)
	}

	units := scaled.BigInt()
	if !units.IsUint64() {
		return 0, fmt.Errorf("invalid amount %q: out of range", value)
	}
	return units.Uint64(), nil
}

// FormatShortNotation formats a number using short notation (e.g., 50k instead of 50000)
func FormatShortNotation(value uint64) string {
	switch {
	case value >= 1_000_000_000_000:
		return fmt.Sprintf("%.2fT", float64(value)/1_000_000_000_000)
	case value >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(value)/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(value)/1_000_000)
	case value >= 10_000:
		// No decimal places between 10k and 1M
		return fmt.Sprintf("%dk", value/1_000)
	case value >= 1_000:
		return fmt.Sprintf("%.1fk", float64(value)/1_000)
	default:
		return fmt.Sprintf("%d", value)
	}
}
