package valueobjects

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// TokenDecimals is the decimal precision requested for every asset created.
	TokenDecimals uint8 = 9

	// InitialSupply is issued once at initialization: 100,000,000 whole tokens
	// in base units.
	InitialSupply uint64 = 100_000_000 * 1_000_000_000
)

// FormatAmount renders base units as a whole-token decimal string.
func FormatAmount(amount uint64, decimals uint8) string {
	value := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return value.StringFixed(int32(decimals))
}
