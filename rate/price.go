package rate

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krazyTry/carbon-go/shared"
)

// FromPrice converts a marginal price (target units per source unit) into a
// compressed rate. Rates store the square root of the price scaled by 2^48;
// the trade formulas square them back.
func FromPrice(price decimal.Decimal) (uint64, error) {
	if price.Sign() < 0 {
		return 0, shared.ErrInvalidPrice
	}
	if price.Sign() == 0 {
		return 0, nil
	}
	sqrt := new(big.Float).SetPrec(200).Sqrt(price.BigFloat().SetPrec(200))
	scaled := new(big.Float).SetPrec(200).Mul(sqrt, new(big.Float).SetInt(ONE))
	value, _ := scaled.Int(nil)
	return Compress(value)
}

// ToPrice is the inverse of FromPrice up to the codec's resolution.
func ToPrice(compressed uint64) decimal.Decimal {
	sqrt := decimal.NewFromBigInt(Expand(compressed), 0).
		Div(decimal.NewFromBigInt(ONE, 0))
	return sqrt.Mul(sqrt)
}
