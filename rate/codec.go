package rate

import (
	"math/big"

	"github.com/krazyTry/carbon-go/shared"
)

const mantissaBits = shared.RateResolution

const mantissaMask = uint64(1)<<mantissaBits - 1

// ONE is the expanded-rate scaling factor, 2^48.
var ONE = new(big.Int).Lsh(big.NewInt(1), shared.RateResolution)

// Expand reconstructs a rate from its compressed form:
// (compressed mod 2^48) << (compressed div 2^48).
func Expand(compressed uint64) *big.Int {
	mantissa := new(big.Int).SetUint64(compressed & mantissaMask)
	return mantissa.Lsh(mantissa, uint(compressed>>mantissaBits))
}

// IsValid reports whether the exponent field does not overflow the mantissa
// width, i.e. 2^48 >> (compressed div 2^48) > 0.
func IsValid(compressed uint64) bool {
	return compressed>>mantissaBits <= mantissaBits
}

// Compress encodes a rate as a 48-bit mantissa and the smallest exponent that
// fits it. Low bits beyond the mantissa are dropped, so the encoding is lossy;
// the loss occurs once, at creation time.
func Compress(value *big.Int) (uint64, error) {
	if value == nil || value.Sign() < 0 {
		return 0, shared.ErrInvalidRate
	}
	if value.Sign() == 0 {
		return 0, nil
	}
	exponent := 0
	if bits := value.BitLen(); bits > mantissaBits {
		exponent = bits - mantissaBits
	}
	if exponent > mantissaBits {
		return 0, shared.ErrInvalidRate
	}
	mantissa := new(big.Int).Rsh(value, uint(exponent))
	return uint64(exponent)<<mantissaBits | mantissa.Uint64(), nil
}
