package strategies

import (
	"github.com/holiman/uint256"

	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/shared"
)

// PackedOrders is the bit-exact persisted layout of a strategy's two orders:
//
//	word0 = y0 | y1<<128
//	word1 = z0 | A0<<128 | B0<<192
//	word2 = z1 | A1<<128 | B1<<192 | inverted<<255
type PackedOrders [3]uint256.Int

var (
	u256One = uint256.NewInt(1)
	mask64  = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(u256One, 64), 1)
	mask128 = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(u256One, 128), 1)
	invFlag = new(uint256.Int).Lsh(u256One, 255)
)

// Pack encodes both orders plus the inversion flag. B1 shares its word with
// the inversion flag, so rates of 63 bits or wider cannot be packed; valid
// compressed rates stay far below that.
func Pack(orders [2]shared.Order, inverted bool) (PackedOrders, error) {
	for i := range orders {
		if !mathex.FitsUint128(orders[i].Y) || !mathex.FitsUint128(orders[i].Z) {
			return PackedOrders{}, shared.ErrOverflow
		}
	}
	if orders[1].B >= 1<<63 {
		return PackedOrders{}, shared.ErrOverflow
	}

	y0, _ := uint256.FromBig(orders[0].Y)
	y1, _ := uint256.FromBig(orders[1].Y)
	z0, _ := uint256.FromBig(orders[0].Z)
	z1, _ := uint256.FromBig(orders[1].Z)

	var p PackedOrders
	p[0].Or(y0, new(uint256.Int).Lsh(y1, 128))

	p[1].Set(z0)
	p[1].Or(&p[1], new(uint256.Int).Lsh(uint256.NewInt(orders[0].A), 128))
	p[1].Or(&p[1], new(uint256.Int).Lsh(uint256.NewInt(orders[0].B), 192))

	p[2].Set(z1)
	p[2].Or(&p[2], new(uint256.Int).Lsh(uint256.NewInt(orders[1].A), 128))
	p[2].Or(&p[2], new(uint256.Int).Lsh(uint256.NewInt(orders[1].B), 192))
	if inverted {
		p[2].Or(&p[2], invFlag)
	}
	return p, nil
}

// Unpack is the exact inverse of Pack. All-zero words are the non-existent
// sentinel and never a live strategy.
func Unpack(p PackedOrders) ([2]shared.Order, bool, error) {
	if p[0].IsZero() && p[1].IsZero() && p[2].IsZero() {
		return [2]shared.Order{}, false, shared.ErrStrategyDoesNotExist
	}

	inverted := new(uint256.Int).Rsh(&p[2], 255).Uint64() == 1
	word2 := new(uint256.Int).And(&p[2], new(uint256.Int).Not(invFlag))

	orders := [2]shared.Order{
		{
			Y: new(uint256.Int).And(&p[0], mask128).ToBig(),
			Z: new(uint256.Int).And(&p[1], mask128).ToBig(),
			A: new(uint256.Int).And(new(uint256.Int).Rsh(&p[1], 128), mask64).Uint64(),
			B: new(uint256.Int).Rsh(&p[1], 192).Uint64(),
		},
		{
			Y: new(uint256.Int).Rsh(&p[0], 128).ToBig(),
			Z: new(uint256.Int).And(word2, mask128).ToBig(),
			A: new(uint256.Int).And(new(uint256.Int).Rsh(word2, 128), mask64).Uint64(),
			B: new(uint256.Int).Rsh(word2, 192).Uint64(),
		},
	}
	return orders, inverted, nil
}

// ChangedWords reports which words differ between two packings. Persisting
// only dirty words keeps storage churn minimal.
func ChangedWords(before, after PackedOrders) [3]bool {
	var changed [3]bool
	for i := range before {
		changed[i] = !before[i].Eq(&after[i])
	}
	return changed
}
