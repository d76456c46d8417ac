package gradient

import (
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krazyTry/carbon-go/decay"
	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/shared"
	"github.com/krazyTry/carbon-go/strategies"
)

// Gradient manages the time-priced strategy family. Ids are drawn from the
// same ledger as the static family, so one id space covers both.
type Gradient struct {
	mu sync.Mutex

	log     *zap.Logger
	clock   shared.Clock
	vault   shared.Vault
	voucher shared.Voucher
	ledger  *strategies.Strategies

	records map[shared.StrategyID]*record
}

// record tracks the tokens alongside the order: tokens[0] is received
// (source), tokens[1] is the inventory being sold (target).
type record struct {
	tokens [2]shared.Token
	order  shared.GradientOrder
}

type Option func(*Gradient)

func WithLogger(log *zap.Logger) Option {
	return func(g *Gradient) {
		g.log = log
	}
}

func WithClock(clock shared.Clock) Option {
	return func(g *Gradient) {
		g.clock = clock
	}
}

func New(vault shared.Vault, voucher shared.Voucher, ledger *strategies.Strategies, opts ...Option) *Gradient {
	g := &Gradient{
		log:     zap.NewNop(),
		clock:   func() int64 { return time.Now().Unix() },
		vault:   vault,
		voucher: voucher,
		ledger:  ledger,
		records: make(map[shared.StrategyID]*record),
	}
	for _, fn := range opts {
		fn(g)
	}
	return g
}

// Create stores a gradient order selling targetToken for sourceToken and
// funds its inventory.
func (g *Gradient) Create(caller shared.Account, sourceToken, targetToken shared.Token, order shared.GradientOrder) (shared.StrategyID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if caller == "" || sourceToken == "" || targetToken == "" || sourceToken == targetToken {
		return shared.StrategyID{}, shared.ErrInvalidAddress
	}
	if order.TargetAmount == nil || order.TargetAmount.Sign() <= 0 || !mathex.FitsUint128(order.TargetAmount) {
		return shared.StrategyID{}, shared.ErrInvalidAmount
	}
	if err := decay.ValidateBounds(order.InitialPrice, order.EndPrice, order.Curve); err != nil {
		return shared.StrategyID{}, err
	}
	if order.Expiry != 0 && order.Expiry <= order.TradingStartTime {
		return shared.StrategyID{}, shared.ErrInvalidExpiry
	}

	id, inverted, err := g.ledger.ReserveID(sourceToken, targetToken)
	if err != nil {
		return shared.StrategyID{}, err
	}

	stored := order
	stored.TokensInverted = inverted
	stored.InitialPrice = order.InitialPrice.Clone()
	stored.EndPrice = order.EndPrice.Clone()
	stored.TargetAmount = new(big.Int).Set(order.TargetAmount)
	stored.SourceAmount = new(big.Int)
	if order.SourceAmount != nil {
		stored.SourceAmount.Set(order.SourceAmount)
	}
	g.records[id] = &record{tokens: [2]shared.Token{sourceToken, targetToken}, order: stored}

	if err := g.voucher.Mint(caller, id); err != nil {
		delete(g.records, id)
		g.ledger.ReleaseID(id)
		return shared.StrategyID{}, err
	}
	if err := g.vault.TransferIn(targetToken, caller, stored.TargetAmount); err != nil {
		delete(g.records, id)
		g.ledger.ReleaseID(id)
		_ = g.voucher.Burn(id)
		return shared.StrategyID{}, err
	}

	g.log.Info("gradient strategy created", zap.String("id", id.String()))
	return id, nil
}

// Order returns a copy of the stored order.
func (g *Gradient) Order(id shared.StrategyID) (shared.GradientOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[id]
	if !ok {
		return shared.GradientOrder{}, shared.ErrStrategyDoesNotExist
	}
	out := rec.order
	out.InitialPrice = rec.order.InitialPrice.Clone()
	out.EndPrice = rec.order.EndPrice.Clone()
	out.SourceAmount = new(big.Int).Set(rec.order.SourceAmount)
	out.TargetAmount = new(big.Int).Set(rec.order.TargetAmount)
	return out, nil
}

// CurrentPrice evaluates the order's curve at the current time.
func (g *Gradient) CurrentPrice(id shared.StrategyID) (shared.Price, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.records[id]
	if !ok {
		return shared.Price{}, shared.ErrStrategyDoesNotExist
	}
	now := g.clock()
	if now < rec.order.TradingStartTime {
		return shared.Price{}, shared.ErrTradingNotStarted
	}
	return decay.PriceAt(rec.order.InitialPrice, rec.order.EndPrice, uint64(now-rec.order.TradingStartTime), rec.order.Curve)
}

// Trade buys amount units of the order's inventory at the current decayed
// price. maxInput bounds the source amount the caller will pay; nil disables
// the check.
func (g *Gradient) Trade(caller shared.Account, id shared.StrategyID, amount, maxInput *big.Int) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[id]
	if !ok {
		return nil, shared.ErrStrategyDoesNotExist
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, shared.ErrInvalidTradeActionAmount
	}

	now := g.clock()
	if now < rec.order.TradingStartTime {
		return nil, shared.ErrTradingNotStarted
	}
	if rec.order.Expiry != 0 && now >= rec.order.Expiry {
		return nil, shared.ErrOrderExpired
	}
	if amount.Cmp(rec.order.TargetAmount) > 0 {
		return nil, shared.ErrInsufficientLiquidity
	}

	price, err := decay.PriceAt(rec.order.InitialPrice, rec.order.EndPrice, uint64(now-rec.order.TradingStartTime), rec.order.Curve)
	if err != nil {
		return nil, err
	}
	required, err := mathex.MulDivC(amount, price.SourceAmount, price.TargetAmount)
	if err != nil {
		return nil, err
	}
	if required.Sign() == 0 {
		return nil, shared.ErrInvalidTrade
	}
	if maxInput != nil && required.Cmp(maxInput) > 0 {
		return nil, shared.ErrGreaterThanMaxInput
	}

	rec.order.TargetAmount.Sub(rec.order.TargetAmount, amount)
	rec.order.SourceAmount.Add(rec.order.SourceAmount, required)

	rollback := func() {
		rec.order.TargetAmount.Add(rec.order.TargetAmount, amount)
		rec.order.SourceAmount.Sub(rec.order.SourceAmount, required)
	}
	if err := g.vault.TransferIn(rec.tokens[0], caller, required); err != nil {
		rollback()
		return nil, err
	}
	if err := g.vault.TransferOut(rec.tokens[1], caller, amount); err != nil {
		rollback()
		_ = g.vault.TransferOut(rec.tokens[0], caller, required)
		return nil, err
	}

	g.log.Info("gradient trade executed",
		zap.String("id", id.String()),
		zap.String("amount", amount.String()),
		zap.String("paid", required.String()),
	)
	return required, nil
}

// Delete returns the unsold inventory and the accumulated proceeds to the
// owner, burns the voucher and frees the id.
func (g *Gradient) Delete(caller shared.Account, id shared.StrategyID) (*big.Int, *big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[id]
	if !ok {
		return nil, nil, shared.ErrStrategyDoesNotExist
	}
	owner, err := g.voucher.OwnerOf(id)
	if err != nil {
		return nil, nil, err
	}
	if owner != caller {
		return nil, nil, shared.ErrAccessDenied
	}

	proceeds := new(big.Int).Set(rec.order.SourceAmount)
	inventory := new(big.Int).Set(rec.order.TargetAmount)
	delete(g.records, id)

	if err := g.voucher.Burn(id); err != nil {
		g.records[id] = rec
		return nil, nil, err
	}
	restore := func() {
		g.records[id] = rec
		_ = g.voucher.Mint(owner, id)
	}
	if proceeds.Sign() > 0 {
		if err := g.vault.TransferOut(rec.tokens[0], caller, proceeds); err != nil {
			restore()
			return nil, nil, err
		}
	}
	if inventory.Sign() > 0 {
		if err := g.vault.TransferOut(rec.tokens[1], caller, inventory); err != nil {
			restore()
			if proceeds.Sign() > 0 {
				_ = g.vault.TransferIn(rec.tokens[0], caller, proceeds)
			}
			return nil, nil, err
		}
	}
	// The id is freed only once the record is unrecoverable.
	g.ledger.ReleaseID(id)

	g.log.Info("gradient strategy deleted", zap.String("id", id.String()))
	return proceeds, inventory, nil
}
