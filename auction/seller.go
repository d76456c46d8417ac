package auction

import (
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krazyTry/carbon-go/decay"
	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/shared"
)

// Config carries the global auction parameters shared by every token the
// seller offers.
type Config struct {
	// MarketPriceMultiplier scales the enabled price above market so the
	// decay starts from a premium.
	MarketPriceMultiplier uint32
	// PriceDecayHalfLife drives the exponential decay while the auction is
	// fresh; SlowPriceDecayHalfLife takes over after the first reset.
	PriceDecayHalfLife     uint32
	SlowPriceDecayHalfLife uint32
	// SaleInitial is the per-period sale allowance, SaleMin the threshold
	// under which the auction resets.
	SaleInitial *big.Int
	SaleMin     *big.Int
}

func (c Config) validate() error {
	if c.MarketPriceMultiplier == 0 || c.PriceDecayHalfLife == 0 || c.SlowPriceDecayHalfLife == 0 {
		return shared.ErrInvalidPrice
	}
	if c.SaleInitial == nil || c.SaleInitial.Sign() <= 0 || c.SaleMin == nil || c.SaleMin.Sign() < 0 {
		return shared.ErrInvalidAmount
	}
	return nil
}

// tokenState is the per-token auction record. A zero tradingStartTime means
// trading is disabled for the token; it is a sentinel, not a timestamp.
type tokenState struct {
	tradingStartTime int64
	initialPrice     shared.Price
	halfLife         uint32
	sale             *big.Int
}

// Seller is the dutch-auction engine behind the protocol-owned-liquidity and
// fee-vortex sellers: price decays over time, not over volume, and the
// auction resets itself instead of decaying to zero and stalling.
type Seller struct {
	mu sync.Mutex

	log     *zap.Logger
	clock   shared.Clock
	vault   shared.Vault
	balance shared.BalanceSource
	admin   shared.Account

	// quote is the token the seller receives on every trade.
	quote  shared.Token
	cfg    Config
	states map[shared.Token]*tokenState
}

type Option func(*Seller)

func WithLogger(log *zap.Logger) Option {
	return func(s *Seller) {
		s.log = log
	}
}

func WithClock(clock shared.Clock) Option {
	return func(s *Seller) {
		s.clock = clock
	}
}

func New(vault shared.Vault, balance shared.BalanceSource, admin shared.Account, quote shared.Token, cfg Config, opts ...Option) (*Seller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Seller{
		log:     zap.NewNop(),
		clock:   func() int64 { return time.Now().Unix() },
		vault:   vault,
		balance: balance,
		admin:   admin,
		quote:   quote,
		cfg: Config{
			MarketPriceMultiplier:  cfg.MarketPriceMultiplier,
			PriceDecayHalfLife:     cfg.PriceDecayHalfLife,
			SlowPriceDecayHalfLife: cfg.SlowPriceDecayHalfLife,
			SaleInitial:            new(big.Int).Set(cfg.SaleInitial),
			SaleMin:                new(big.Int).Set(cfg.SaleMin),
		},
		states: make(map[shared.Token]*tokenState),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s, nil
}

// NewPOL builds a protocol-owned-liquidity seller: a high starting premium
// with a fast decay.
func NewPOL(vault shared.Vault, balance shared.BalanceSource, admin shared.Account, quote shared.Token, saleInitial, saleMin *big.Int, opts ...Option) (*Seller, error) {
	return New(vault, balance, admin, quote, Config{
		MarketPriceMultiplier:  2,
		PriceDecayHalfLife:     10 * 24 * 60 * 60,
		SlowPriceDecayHalfLife: 2 * 10 * 24 * 60 * 60,
		SaleInitial:            saleInitial,
		SaleMin:                saleMin,
	}, opts...)
}

// NewVortex builds a fee-vortex seller: a smaller premium with a faster
// turnover of accumulated fees.
func NewVortex(vault shared.Vault, balance shared.BalanceSource, admin shared.Account, quote shared.Token, saleInitial, saleMin *big.Int, opts ...Option) (*Seller, error) {
	return New(vault, balance, admin, quote, Config{
		MarketPriceMultiplier:  2,
		PriceDecayHalfLife:     12 * 60 * 60,
		SlowPriceDecayHalfLife: 2 * 24 * 60 * 60,
		SaleInitial:            saleInitial,
		SaleMin:                saleMin,
	}, opts...)
}

// Enable opens trading for a token at the given market price. Admin only.
func (s *Seller) Enable(caller shared.Account, token shared.Token, price shared.Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != s.admin {
		return shared.ErrAccessDenied
	}
	if token == "" || token == s.quote {
		return shared.ErrInvalidAddress
	}
	if !price.Valid() {
		return shared.ErrInvalidPrice
	}

	// The market multiplier is applied once here; resets rescale from the
	// decayed level instead of compounding it.
	premium := shared.Price{
		SourceAmount: new(big.Int).Mul(price.SourceAmount, new(big.Int).SetUint64(uint64(s.cfg.MarketPriceMultiplier))),
		TargetAmount: new(big.Int).Set(price.TargetAmount),
	}
	s.states[token] = &tokenState{
		tradingStartTime: s.clock(),
		initialPrice:     premium,
		halfLife:         s.cfg.PriceDecayHalfLife,
		sale:             mathex.Min(new(big.Int).Set(s.cfg.SaleInitial), s.balance.BalanceOf(token)),
	}
	s.log.Info("auction enabled", zap.String("token", string(token)))
	return nil
}

// Disable stops trading for a token. Admin only.
func (s *Seller) Disable(caller shared.Account, token shared.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if caller != s.admin {
		return shared.ErrAccessDenied
	}
	delete(s.states, token)
	return nil
}

// TradingEnabled reports whether the token currently auctions.
func (s *Seller) TradingEnabled(token shared.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[token]
	return ok && st.tradingStartTime != 0
}

// AvailableSaleAmount reports the remaining per-period allowance.
func (s *Seller) AvailableSaleAmount(token shared.Token) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[token]
	if !ok || st.tradingStartTime == 0 {
		return nil, shared.ErrTradingDisabled
	}
	return new(big.Int).Set(st.sale), nil
}

// maybeResetLocked restarts the auction period once price decay has fully
// saturated: without it the price reaches zero, every trade fails and the
// allowance never depletes, so the depletion reset can never fire. The decay
// restarts from the stored premium with the slow half-life and a topped-up
// allowance.
func (s *Seller) maybeResetLocked(token shared.Token, st *tokenState, now int64) {
	elapsed := uint64(0)
	if now > st.tradingStartTime {
		elapsed = uint64(now - st.tradingStartTime)
	}
	if elapsed/uint64(st.halfLife) < shared.MaxExpDecayLives {
		return
	}
	st.sale = mathex.Min(new(big.Int).Set(s.cfg.SaleInitial), s.balance.BalanceOf(token))
	st.tradingStartTime = now
	st.halfLife = s.cfg.SlowPriceDecayHalfLife
	s.log.Info("auction reset",
		zap.String("token", string(token)),
		zap.String("reason", "price decay saturated"),
	)
}

func (s *Seller) currentPriceLocked(st *tokenState, now int64) (shared.Price, error) {
	elapsed := uint64(0)
	if now > st.tradingStartTime {
		elapsed = uint64(now - st.tradingStartTime)
	}
	source, err := decay.Exp(st.initialPrice.SourceAmount, elapsed, st.halfLife)
	if err != nil {
		return shared.Price{}, err
	}
	return shared.Price{
		SourceAmount: source,
		TargetAmount: new(big.Int).Set(st.initialPrice.TargetAmount),
	}, nil
}

// CurrentPrice returns the live price: the enabled price scaled by the
// market multiplier, exponentially decayed since the trading start.
func (s *Seller) CurrentPrice(token shared.Token) (shared.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[token]
	if !ok || st.tradingStartTime == 0 {
		return shared.Price{}, shared.ErrTradingDisabled
	}
	now := s.clock()
	s.maybeResetLocked(token, st, now)
	return s.currentPriceLocked(st, now)
}

// Trade buys amount units of token at the live price, paying in the quote
// token. Draining the allowance below the configured minimum triggers one
// reset: the allowance tops back up to min(balance, initial), the price
// doubles from its decayed level, the timer restarts and the slower decay
// half-life takes over. A second reset trigger is time: once decay fully
// saturates the period restarts from the stored premium.
func (s *Seller) Trade(caller shared.Account, token shared.Token, amount, maxInput *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[token]
	if !ok || st.tradingStartTime == 0 {
		return nil, shared.ErrTradingDisabled
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, shared.ErrInvalidTrade
	}

	now := s.clock()
	s.maybeResetLocked(token, st, now)
	price, err := s.currentPriceLocked(st, now)
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
	if amount.Cmp(st.sale) > 0 {
		return nil, shared.ErrInsufficientAmountForTrading
	}

	prev := tokenState{
		tradingStartTime: st.tradingStartTime,
		initialPrice:     st.initialPrice.Clone(),
		halfLife:         st.halfLife,
		sale:             new(big.Int).Set(st.sale),
	}

	st.sale.Sub(st.sale, amount)
	reset := st.sale.Cmp(s.cfg.SaleMin) < 0
	if reset {
		st.sale = mathex.Min(new(big.Int).Set(s.cfg.SaleInitial), s.balance.BalanceOf(token))
		st.initialPrice = shared.Price{
			SourceAmount: new(big.Int).Lsh(price.SourceAmount, 1),
			TargetAmount: new(big.Int).Set(price.TargetAmount),
		}
		st.tradingStartTime = now
		st.halfLife = s.cfg.SlowPriceDecayHalfLife
	}

	if err := s.vault.TransferIn(s.quote, caller, required); err != nil {
		*st = prev
		return nil, err
	}
	if err := s.vault.TransferOut(token, caller, amount); err != nil {
		*st = prev
		_ = s.vault.TransferOut(s.quote, caller, required)
		return nil, err
	}

	s.log.Info("auction trade",
		zap.String("token", string(token)),
		zap.String("amount", amount.String()),
		zap.String("paid", required.String()),
		zap.Bool("reset", reset),
	)
	return required, nil
}
