package decay

import (
	"math/big"

	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/shared"
)

// Linear returns initial +/- step * floor(elapsed/interval), saturating at
// zero instead of wrapping.
func Linear(initial *big.Int, elapsed uint64, step *big.Int, interval uint32, increasing bool) (*big.Int, error) {
	if interval == 0 {
		return nil, shared.ErrDivisionByZero
	}
	periods := new(big.Int).SetUint64(elapsed / uint64(interval))
	delta := new(big.Int).Mul(step, periods)
	out := new(big.Int).Set(initial)
	if increasing {
		return out.Add(out, delta), nil
	}
	out.Sub(out, delta)
	if out.Sign() < 0 {
		out.SetInt64(0)
	}
	return out, nil
}

// Exp returns initial * 2^-(elapsed/halfLife). The value is monotonically
// non-increasing in elapsed and equals initial at elapsed zero. Once
// elapsed/halfLife reaches the saturation threshold the result is pinned to
// zero, the theoretical floor.
func Exp(initial *big.Int, elapsed uint64, halfLife uint32) (*big.Int, error) {
	if halfLife == 0 {
		return nil, shared.ErrDivisionByZero
	}
	if elapsed/uint64(halfLife) >= shared.MaxExpDecayLives {
		return big.NewInt(0), nil
	}
	exp2, err := mathex.Exp2(elapsed, uint64(halfLife))
	if err != nil {
		return nil, err
	}
	return mathex.MulDivF(initial, mathex.Q128, exp2)
}

// Grow returns initial * 2^(elapsed/halfLife), the increasing counterpart of
// Exp, rounded up so a growing price never undershoots.
func Grow(initial *big.Int, elapsed uint64, halfLife uint32) (*big.Int, error) {
	if halfLife == 0 {
		return nil, shared.ErrDivisionByZero
	}
	if elapsed/uint64(halfLife) >= shared.MaxExpDecayLives {
		return nil, shared.ErrOverflow
	}
	exp2, err := mathex.Exp2(elapsed, uint64(halfLife))
	if err != nil {
		return nil, err
	}
	return mathex.MulDivC(initial, exp2, mathex.Q128)
}

// PriceAt applies a gradient curve to the initial price's source leg and
// clamps it against the end bound: min for an increasing leg, max for a
// decreasing one. A dutch-auction curve decreases the source leg; the plain
// variant increases it.
func PriceAt(initial, end shared.Price, elapsed uint64, curve shared.GradientCurve) (shared.Price, error) {
	if !initial.Valid() || end.SourceAmount == nil {
		return shared.Price{}, shared.ErrInvalidPrice
	}

	var (
		source *big.Int
		err    error
		down   bool
	)
	switch c := curve.(type) {
	case shared.LinearCurve:
		down = c.IsDutchAuction
		source, err = Linear(initial.SourceAmount, elapsed, c.IncreaseAmount, c.IncreaseInterval, !down)
	case shared.ExponentialCurve:
		down = c.IsDutchAuction
		if down {
			source, err = Exp(initial.SourceAmount, elapsed, c.HalfLife)
		} else {
			source, err = Grow(initial.SourceAmount, elapsed, c.HalfLife)
		}
	default:
		return shared.Price{}, shared.ErrInvalidPrice
	}
	if err != nil {
		return shared.Price{}, err
	}

	if down {
		source = mathex.Max(source, end.SourceAmount)
	} else {
		source = mathex.Min(source, end.SourceAmount)
	}
	return shared.Price{
		SourceAmount: new(big.Int).Set(source),
		TargetAmount: new(big.Int).Set(initial.TargetAmount),
	}, nil
}

// ValidateBounds checks that the end price sits weakly inside the initial
// price in the direction the curve moves.
func ValidateBounds(initial, end shared.Price, curve shared.GradientCurve) error {
	if !initial.Valid() || end.SourceAmount == nil || end.TargetAmount == nil {
		return shared.ErrInvalidPrice
	}
	if end.TargetAmount.Cmp(initial.TargetAmount) != 0 {
		return shared.ErrInvalidPrice
	}

	var down bool
	switch c := curve.(type) {
	case shared.LinearCurve:
		if c.IncreaseAmount == nil || c.IncreaseAmount.Sign() < 0 {
			return shared.ErrInvalidPrice
		}
		down = c.IsDutchAuction
	case shared.ExponentialCurve:
		down = c.IsDutchAuction
	default:
		return shared.ErrInvalidPrice
	}

	if down && end.SourceAmount.Cmp(initial.SourceAmount) > 0 {
		return shared.ErrInvalidPrice
	}
	if !down && end.SourceAmount.Cmp(initial.SourceAmount) < 0 {
		return shared.ErrInvalidPrice
	}
	return nil
}
