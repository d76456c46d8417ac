package shared

import (
	"fmt"
	"math/big"
)

// Token is an opaque asset identifier supplied by the host environment.
type Token string

// Account identifies a caller or funds owner in the host environment.
type Account string

type TradeBy uint8

const (
	BySourceAmount TradeBy = 0
	ByTargetAmount TradeBy = 1
)

// StrategyKind distinguishes the two strategy families sharing one id space.
type StrategyKind uint8

const (
	KindStatic   StrategyKind = 0
	KindGradient StrategyKind = 1
)

// Order is one side of a strategy.
//
// Y is the current liquidity sellable from this side, Z the capacity Y is
// scaled against so the marginal rate reaches the high bound exactly when
// Y == Z. A and B are compressed rates: A the high-low rate difference,
// B the low rate.
type Order struct {
	Y *big.Int
	Z *big.Int
	A uint64
	B uint64
}

func (o Order) Clone() Order {
	return Order{
		Y: new(big.Int).Set(o.Y),
		Z: new(big.Int).Set(o.Z),
		A: o.A,
		B: o.B,
	}
}

// Equal compares field by field. Used by the optimistic-concurrency check.
func (o Order) Equal(other Order) bool {
	return o.Y.Cmp(other.Y) == 0 &&
		o.Z.Cmp(other.Z) == 0 &&
		o.A == other.A &&
		o.B == other.B
}

// Disabled reports whether the order can never trade (zero-width curve at
// rate zero).
func (o Order) Disabled() bool {
	return o.A == 0 && o.B == 0
}

// Pair is an ordered token pair in canonical storage order.
type Pair struct {
	Token0 Token
	Token1 Token
}

// StrategyID identifies a strategy. Serialized form places the pair id in the
// high 128 bits and the per-pair index in the low bits.
type StrategyID struct {
	PairID uint64
	Index  uint64
}

func (id StrategyID) IsZero() bool {
	return id.PairID == 0 && id.Index == 0
}

// Big returns the wire form pairID<<128 | index.
func (id StrategyID) Big() *big.Int {
	v := new(big.Int).SetUint64(id.PairID)
	v.Lsh(v, 128)
	return v.Or(v, new(big.Int).SetUint64(id.Index))
}

func (id StrategyID) String() string {
	return fmt.Sprintf("%d-%d", id.PairID, id.Index)
}

// StrategyIDFromBig parses the wire form produced by Big.
func StrategyIDFromBig(v *big.Int) (StrategyID, error) {
	if v.Sign() < 0 || v.BitLen() > 192 {
		return StrategyID{}, ErrStrategyDoesNotExist
	}
	low := new(big.Int).And(v, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
	if low.BitLen() > 64 {
		return StrategyID{}, ErrStrategyDoesNotExist
	}
	return StrategyID{
		PairID: new(big.Int).Rsh(v, 128).Uint64(),
		Index:  low.Uint64(),
	}, nil
}

// Strategy is a full liquidity-provider position.
type Strategy struct {
	ID             StrategyID
	Kind           StrategyKind
	Owner          Account
	Tokens         Pair
	Orders         [2]Order
	TokensInverted bool
}

// TradeAction is one step of a trade batch: a strategy and the amount traded
// against it, interpreted by source or by target per the batch mode.
type TradeAction struct {
	ID     StrategyID
	Amount *big.Int
}

// TradeTotals is the fee-inclusive outcome of a trade batch from the
// trader's perspective.
type TradeTotals struct {
	SourceAmount *big.Int
	TargetAmount *big.Int
}

// Price is a source/target amount pair: SourceAmount units of the source
// token buy TargetAmount units of the target token.
type Price struct {
	SourceAmount *big.Int
	TargetAmount *big.Int
}

func (p Price) Clone() Price {
	return Price{
		SourceAmount: new(big.Int).Set(p.SourceAmount),
		TargetAmount: new(big.Int).Set(p.TargetAmount),
	}
}

func (p Price) Valid() bool {
	return p.SourceAmount != nil && p.TargetAmount != nil &&
		p.SourceAmount.Sign() > 0 && p.TargetAmount.Sign() > 0
}

// GradientCurve is the pricing variant of a gradient order.
type GradientCurve interface {
	isGradientCurve()
}

// LinearCurve moves the price by IncreaseAmount once per IncreaseInterval
// seconds. IsDutchAuction selects the decreasing direction.
type LinearCurve struct {
	IncreaseAmount   *big.Int
	IncreaseInterval uint32
	IsDutchAuction   bool
}

func (LinearCurve) isGradientCurve() {}

// ExponentialCurve halves (or doubles) the price every HalfLife seconds.
type ExponentialCurve struct {
	HalfLife       uint32
	IsDutchAuction bool
}

func (ExponentialCurve) isGradientCurve() {}

// GradientOrder is a one-sided, time-priced order.
type GradientOrder struct {
	InitialPrice     Price
	EndPrice         Price
	SourceAmount     *big.Int
	TargetAmount     *big.Int
	TradingStartTime int64
	Expiry           int64
	TokensInverted   bool
	Curve            GradientCurve
}

// ProtocolConfig carries the mutable trading parameters. It is passed into
// services explicitly rather than read from ambient state.
type ProtocolConfig struct {
	// TradingFeePPM is the default fee applied to trade totals.
	TradingFeePPM uint32
	// PairFeePPM overrides the default per pair id. A zero entry means
	// "explicitly free", an absent entry means "use the default".
	PairFeePPM map[uint64]uint32
}

// FeePPM resolves the fee for a pair.
func (c *ProtocolConfig) FeePPM(pairID uint64) uint32 {
	if c == nil {
		return 0
	}
	if fee, ok := c.PairFeePPM[pairID]; ok {
		return fee
	}
	return c.TradingFeePPM
}
