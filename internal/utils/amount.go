package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const LAMPORTS_PER_SOL = 1_000_000_000

var lamportsPerSol = decimal.NewFromInt(LAMPORTS_PER_SOL)

// ParseAmount accepts either an integer base-unit amount ("1000000000") or a
// decimal amount in whole units ("1.0"), which is scaled by 1e9. Digits
// beyond the ninth decimal place are truncated.
func ParseAmount(amount string) (uint64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, fmt.Errorf("amount is empty")
	}

	if !strings.Contains(amount, ".") {
		lamports, err := strconv.ParseUint(amount, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		return lamports, nil
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid amount %q: negative", amount)
	}

	scaled := d.Mul(lamportsPerSol).Truncate(0)
	if !scaled.BigInt().IsUint64() {
		return 0, fmt.Errorf("invalid amount %q: out of range", amount)
	}

	return scaled.BigInt().Uint64(), nil
}
