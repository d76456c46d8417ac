package math

import (
	"math/big"

	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/rate"
	"github.com/krazyTry/carbon-go/shared"
)

var one2 = new(big.Int).Mul(rate.ONE, rate.ONE)

// TradeTargetAmount returns the amount of the other token released for x
// units deposited against an order with liquidity y, capacity z and expanded
// rates A, B:
//
//	x*(A*y+B*z)^2 / (A*x*(A*y+B*z) + (z*ONE)^2), rounded down.
//
// Divisions round in the protocol's favor; the MinFactor scaling shrinks the
// operands just enough to keep the final MulDiv within 256 bits.
func TradeTargetAmount(x, y, z, A, B *big.Int) (*big.Int, error) {
	if A.Sign() == 0 {
		if B.Sign() == 0 {
			return nil, shared.ErrOrderDisabled
		}
		return mathex.MulDivF(x, new(big.Int).Mul(B, B), one2)
	}

	temp1 := new(big.Int).Mul(z, rate.ONE)
	temp2 := new(big.Int).Add(new(big.Int).Mul(y, A), new(big.Int).Mul(z, B))
	temp3 := new(big.Int).Mul(temp2, x)

	factor := mathex.Max(mathex.MinFactor(temp1, temp1), mathex.MinFactor(temp3, A))
	temp4, err := mathex.MulDivC(temp1, temp1, factor)
	if err != nil {
		return nil, err
	}
	temp5, err := mathex.MulDivC(temp3, A, factor)
	if err != nil {
		return nil, err
	}
	return mathex.MulDivF(temp2, new(big.Int).Div(temp3, factor), new(big.Int).Add(temp4, temp5))
}

// TradeSourceAmount returns the input required for a desired output of x
// units from the same order:
//
//	x*(z*ONE)^2 / ((A*y+B*z)*(A*y+B*z-A*x)), rounded up.
func TradeSourceAmount(x, y, z, A, B *big.Int) (*big.Int, error) {
	if A.Sign() == 0 {
		if B.Sign() == 0 {
			return nil, shared.ErrOrderDisabled
		}
		return mathex.MulDivC(x, one2, new(big.Int).Mul(B, B))
	}

	temp1 := new(big.Int).Mul(z, rate.ONE)
	temp2 := new(big.Int).Add(new(big.Int).Mul(y, A), new(big.Int).Mul(z, B))
	temp3 := new(big.Int).Sub(temp2, new(big.Int).Mul(x, A))
	if temp3.Sign() < 0 {
		return nil, shared.ErrInsufficientLiquidity
	}

	factor := mathex.Max(mathex.MinFactor(temp1, temp1), mathex.MinFactor(temp2, temp3))
	temp4, err := mathex.MulDivC(temp1, temp1, factor)
	if err != nil {
		return nil, err
	}
	temp5, err := mathex.MulDivF(temp2, temp3, factor)
	if err != nil {
		return nil, err
	}
	return mathex.MulDivC(x, temp4, temp5)
}

// ExpandRates returns the order's rates in expanded form.
func ExpandRates(o shared.Order) (A, B *big.Int) {
	return rate.Expand(o.A), rate.Expand(o.B)
}
