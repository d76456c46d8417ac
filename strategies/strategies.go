package strategies

import (
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/rate"
	"github.com/krazyTry/carbon-go/shared"
)

// Strategies owns the strategy ledger: it maps strategy ids to order state,
// applies trade deltas and enforces the curve invariants. Entry points run to
// completion one at a time; ledger state is fully updated before any vault
// transfer is issued.
type Strategies struct {
	mu sync.Mutex

	log     *zap.Logger
	clock   shared.Clock
	vault   shared.Vault
	voucher shared.Voucher
	cfg     *shared.ProtocolConfig

	pairs    *Pairs
	records  map[shared.StrategyID]*record
	kinds    map[shared.StrategyID]shared.StrategyKind
	counters map[uint64]uint64
	accrued  map[shared.Token]*big.Int
}

// record stores orders in canonical pair order: orders[0] belongs to
// Pair.Token0. inverted remembers whether the creator supplied the tokens
// the other way around.
type record struct {
	pairID   uint64
	pair     shared.Pair
	inverted bool
	orders   [2]shared.Order
}

type Option func(*Strategies)

func WithLogger(log *zap.Logger) Option {
	return func(s *Strategies) {
		s.log = log
	}
}

func WithClock(clock shared.Clock) Option {
	return func(s *Strategies) {
		s.clock = clock
	}
}

func New(vault shared.Vault, voucher shared.Voucher, cfg *shared.ProtocolConfig, opts ...Option) *Strategies {
	s := &Strategies{
		log:      zap.NewNop(),
		clock:    func() int64 { return time.Now().Unix() },
		vault:    vault,
		voucher:  voucher,
		cfg:      cfg,
		pairs:    NewPairs(),
		records:  make(map[shared.StrategyID]*record),
		kinds:    make(map[shared.StrategyID]shared.StrategyKind),
		counters: make(map[uint64]uint64),
		accrued:  make(map[shared.Token]*big.Int),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

// Pairs exposes the pair registry shared with the gradient family.
func (s *Strategies) Pairs() *Pairs {
	return s.pairs
}

func validateOrder(o shared.Order) error {
	if o.Y == nil || o.Z == nil || o.Y.Sign() < 0 || o.Z.Sign() < 0 {
		return shared.ErrInvalidAmount
	}
	if !mathex.FitsUint128(o.Y) || !mathex.FitsUint128(o.Z) {
		return shared.ErrOverflow
	}
	if o.Z.Cmp(o.Y) < 0 {
		return shared.ErrInsufficientCapacity
	}
	if !rate.IsValid(o.A) || !rate.IsValid(o.B) {
		return shared.ErrInvalidRate
	}
	return nil
}

// reserveLocked allocates the next id of the pair and marks its kind.
func (s *Strategies) reserveLocked(pairID uint64, kind shared.StrategyKind) shared.StrategyID {
	s.counters[pairID]++
	id := shared.StrategyID{PairID: pairID, Index: s.counters[pairID]}
	s.kinds[id] = kind
	return id
}

// ReserveID allocates a strategy id for the gradient family so both families
// share one id space. The pair is registered on first use.
func (s *Strategies) ReserveID(token0, token1 shared.Token) (shared.StrategyID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairID, inverted, err := s.pairs.GetOrCreate(token0, token1)
	if err != nil {
		return shared.StrategyID{}, false, err
	}
	return s.reserveLocked(pairID, shared.KindGradient), inverted, nil
}

// ReleaseID drops a reserved id after the owning record is gone.
func (s *Strategies) ReleaseID(id shared.StrategyID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kinds, id)
}

// Kind reports which family an id belongs to.
func (s *Strategies) Kind(id shared.StrategyID) (shared.StrategyKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kind, ok := s.kinds[id]
	if !ok {
		return 0, shared.ErrStrategyDoesNotExist
	}
	return kind, nil
}

// Create validates and stores a new strategy, mints its ownership voucher and
// pulls the initial liquidity in. Orders are supplied in (token0, token1)
// order and re-indexed to canonical pair order internally.
func (s *Strategies) Create(caller shared.Account, token0, token1 shared.Token, orders [2]shared.Order) (shared.StrategyID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller == "" {
		return shared.StrategyID{}, shared.ErrInvalidAddress
	}
	for i := range orders {
		if err := validateOrder(orders[i]); err != nil {
			return shared.StrategyID{}, err
		}
	}

	pairID, inverted, err := s.pairs.GetOrCreate(token0, token1)
	if err != nil {
		return shared.StrategyID{}, err
	}
	pair, _ := s.pairs.ByID(pairID)

	stored := [2]shared.Order{orders[0].Clone(), orders[1].Clone()}
	if inverted {
		stored[0], stored[1] = stored[1], stored[0]
	}

	id := s.reserveLocked(pairID, shared.KindStatic)
	s.records[id] = &record{pairID: pairID, pair: pair, inverted: inverted, orders: stored}

	if err := s.voucher.Mint(caller, id); err != nil {
		delete(s.records, id)
		delete(s.kinds, id)
		s.counters[pairID]--
		return shared.StrategyID{}, err
	}

	// Ledger state is final; move funds last.
	tokens := []shared.Token{pair.Token0, pair.Token1}
	for i, token := range tokens {
		if stored[i].Y.Sign() == 0 {
			continue
		}
		if err := s.vault.TransferIn(token, caller, stored[i].Y); err != nil {
			delete(s.records, id)
			delete(s.kinds, id)
			s.counters[pairID]--
			_ = s.voucher.Burn(id)
			if i == 1 && stored[0].Y.Sign() > 0 {
				_ = s.vault.TransferOut(tokens[0], caller, stored[0].Y)
			}
			return shared.StrategyID{}, err
		}
	}

	s.log.Info("strategy created",
		zap.String("id", id.String()),
		zap.String("token0", string(pair.Token0)),
		zap.String("token1", string(pair.Token1)),
	)
	return id, nil
}

// Strategy returns a copy of the stored strategy, owner included.
func (s *Strategies) Strategy(id shared.StrategyID) (shared.Strategy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return shared.Strategy{}, shared.ErrStrategyDoesNotExist
	}
	owner, err := s.voucher.OwnerOf(id)
	if err != nil {
		return shared.Strategy{}, err
	}
	return shared.Strategy{
		ID:             id,
		Kind:           shared.KindStatic,
		Owner:          owner,
		Tokens:         rec.pair,
		Orders:         [2]shared.Order{rec.orders[0].Clone(), rec.orders[1].Clone()},
		TokensInverted: rec.inverted,
	}, nil
}

// Packed returns the three-word persisted encoding of a strategy.
func (s *Strategies) Packed(id shared.StrategyID) (PackedOrders, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return PackedOrders{}, shared.ErrStrategyDoesNotExist
	}
	return Pack(rec.orders, rec.inverted)
}

// Accrued reports the protocol fees collected in a token so far.
func (s *Strategies) Accrued(token shared.Token) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.accrued[token]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

// Update replaces a strategy's orders under an optimistic-concurrency check:
// the caller supplies the orders it believes are current (in canonical
// order, as returned by Strategy) and the call fails with ErrOutdated on any
// mismatch. Only liquidity deltas are settled.
func (s *Strategies) Update(caller shared.Account, id shared.StrategyID, current, updated [2]shared.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return shared.ErrStrategyDoesNotExist
	}
	owner, err := s.voucher.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return shared.ErrAccessDenied
	}
	for i := range rec.orders {
		if !rec.orders[i].Equal(current[i]) {
			return shared.ErrOutdated
		}
	}
	for i := range updated {
		if err := validateOrder(updated[i]); err != nil {
			return err
		}
	}

	prev := rec.orders
	rec.orders = [2]shared.Order{updated[0].Clone(), updated[1].Clone()}

	tokens := []shared.Token{rec.pair.Token0, rec.pair.Token1}
	deltas := [2]*big.Int{
		new(big.Int).Sub(rec.orders[0].Y, prev[0].Y),
		new(big.Int).Sub(rec.orders[1].Y, prev[1].Y),
	}
	settle := func(token shared.Token, delta *big.Int) error {
		if delta.Sign() > 0 {
			return s.vault.TransferIn(token, caller, delta)
		}
		return s.vault.TransferOut(token, caller, new(big.Int).Neg(delta))
	}
	for i, token := range tokens {
		if deltas[i].Sign() == 0 {
			continue
		}
		if err := settle(token, deltas[i]); err != nil {
			rec.orders = prev
			if i == 1 && deltas[0].Sign() != 0 {
				_ = settle(tokens[0], new(big.Int).Neg(deltas[0]))
			}
			return err
		}
	}

	s.log.Info("strategy updated", zap.String("id", id.String()))
	return nil
}

// Delete returns the remaining liquidity of both orders to the owner, clears
// the record and burns the voucher.
func (s *Strategies) Delete(caller shared.Account, id shared.StrategyID) ([2]*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return [2]*big.Int{}, shared.ErrStrategyDoesNotExist
	}
	owner, err := s.voucher.OwnerOf(id)
	if err != nil {
		return [2]*big.Int{}, err
	}
	if owner != caller {
		return [2]*big.Int{}, shared.ErrAccessDenied
	}

	returned := [2]*big.Int{
		new(big.Int).Set(rec.orders[0].Y),
		new(big.Int).Set(rec.orders[1].Y),
	}
	delete(s.records, id)
	delete(s.kinds, id)

	restore := func() {
		s.records[id] = rec
		s.kinds[id] = shared.KindStatic
	}
	if err := s.voucher.Burn(id); err != nil {
		restore()
		return [2]*big.Int{}, err
	}

	tokens := []shared.Token{rec.pair.Token0, rec.pair.Token1}
	for i, token := range tokens {
		if returned[i].Sign() == 0 {
			continue
		}
		if err := s.vault.TransferOut(token, caller, returned[i]); err != nil {
			restore()
			_ = s.voucher.Mint(owner, id)
			if i == 1 && returned[0].Sign() > 0 {
				_ = s.vault.TransferIn(tokens[0], caller, returned[0])
			}
			return [2]*big.Int{}, err
		}
	}

	s.log.Info("strategy deleted", zap.String("id", id.String()))
	return returned, nil
}
