package rpc

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseUnits converts a human-readable decimal amount into integer base
// units, so ParseUnits("1.5", 18) yields 1500000000000000000. Anything
// below one base unit is truncated toward zero.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("negative decimals: %d", decimals)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return value.Shift(decimals).BigInt(), nil
}

// FormatUnits renders integer base units as a decimal string, the
// inverse of ParseUnits.
func FormatUnits(amount *big.Int, decimals int32) (string, error) {
	if decimals < 0 {
		return "", fmt.Errorf("negative decimals: %d", decimals)
	}
	if amount == nil {
		return "0", nil
	}
	return decimal.NewFromBigInt(amount, -decimals).String(), nil
}
