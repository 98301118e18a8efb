package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeRawBalance divides a raw on-chain balance string by 10^decimals
// and returns the human-scale decimal string. Arbitrary precision is required
// here: raw balances routinely exceed the float64 safe-integer range.
// Example: raw="1500000000000000000", decimals=18 => "1.5".
func NormalizeRawBalance(raw string, decimals int32) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty raw balance")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid raw balance %q: %w", raw, err)
	}
	return d.Shift(-decimals).String(), nil
}
