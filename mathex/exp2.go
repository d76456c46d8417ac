package mathex

import (
	"math/big"

	"github.com/krazyTry/carbon-go/shared"
)

// Q128 is the fixed-point unit used by Exp2.
var Q128 = new(big.Int).Lsh(big1, 128)

// ln(2) in Q128 fixed point.
var ln2Q128, _ = new(big.Int).SetString("B17217F7D1CF79ABC9E3B39803F2F6AF", 16)

// Exp2 returns 2^(n/d) in Q128 fixed point. The integer part of n/d must be
// below shared.MaxExpDecayLives; beyond that the corresponding decay is not
// numerically meaningful and callers saturate instead.
func Exp2(n, d uint64) (*big.Int, error) {
	if d == 0 {
		return nil, shared.ErrDivisionByZero
	}
	lives := n / d
	if lives >= shared.MaxExpDecayLives {
		return nil, shared.ErrOverflow
	}

	// 2^(n/d) = 2^lives * e^(rem/d * ln2), rem/d in [0, 1).
	x := new(big.Int).Mul(new(big.Int).SetUint64(n%d), ln2Q128)
	x.Div(x, new(big.Int).SetUint64(d))

	res := new(big.Int).Set(Q128)
	term := new(big.Int).Set(Q128)
	for k := int64(1); k <= 40; k++ {
		term.Mul(term, x)
		term.Div(term, Q128)
		term.Div(term, big.NewInt(k))
		if term.Sign() == 0 {
			break
		}
		res.Add(res, term)
	}
	return res.Lsh(res, uint(lives)), nil
}
