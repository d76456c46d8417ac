package mathex

import (
	"math/big"

	"github.com/krazyTry/carbon-go/shared"
)

var (
	big1       = big.NewInt(1)
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big1, 256), big1)
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big1, 128), big1)
)

// MulDivF returns floor(x*y/d) for 256-bit operands, computed with a full
// 512-bit intermediate product.
func MulDivF(x, y, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, shared.ErrDivisionByZero
	}
	q := new(big.Int).Mul(x, y)
	q.Div(q, d)
	if q.Cmp(maxUint256) > 0 {
		return nil, shared.ErrOverflow
	}
	return q, nil
}

// MulDivC returns ceil(x*y/d) under the same bounds as MulDivF.
func MulDivC(x, y, d *big.Int) (*big.Int, error) {
	if d.Sign() == 0 {
		return nil, shared.ErrDivisionByZero
	}
	q := new(big.Int).Mul(x, y)
	q.Add(q, new(big.Int).Sub(d, big1))
	q.Div(q, d)
	if q.Cmp(maxUint256) > 0 {
		return nil, shared.ErrOverflow
	}
	return q, nil
}

// Mul512 returns the 512-bit product of x and y split into 256-bit halves.
func Mul512(x, y *big.Int) (hi, lo *big.Int) {
	p := new(big.Int).Mul(x, y)
	lo = new(big.Int).And(p, maxUint256)
	hi = new(big.Int).Rsh(p, 256)
	return hi, lo
}

// MinFactor returns the smallest factor f such that MulDivC(x, y, f) fits in
// 256 bits: the high half of the 512-bit product, plus one.
func MinFactor(x, y *big.Int) *big.Int {
	hi, _ := Mul512(x, y)
	return hi.Add(hi, big1)
}

// ToUint128 performs the explicit 128-bit downcast required of callers.
func ToUint128(v *big.Int) (*big.Int, error) {
	if v.Sign() < 0 || v.Cmp(maxUint128) > 0 {
		return nil, shared.ErrOverflow
	}
	return v, nil
}

// FitsUint128 reports whether v is a valid 128-bit unsigned value.
func FitsUint128(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(maxUint128) <= 0
}

func Max(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
