package strategies

import (
	"github.com/krazyTry/carbon-go/shared"
)

// Pairs assigns monotonically increasing ids to canonical token pairs.
// Canonical order is lexicographic; callers learn through the inverted flag
// whether their token order was swapped. Pair id 0 is reserved so that the
// zero StrategyID is never valid.
type Pairs struct {
	byTokens map[shared.Pair]uint64
	byID     map[uint64]shared.Pair
	next     uint64
}

func NewPairs() *Pairs {
	return &Pairs{
		byTokens: make(map[shared.Pair]uint64),
		byID:     make(map[uint64]shared.Pair),
		next:     1,
	}
}

func canonical(token0, token1 shared.Token) (shared.Pair, bool) {
	if token1 < token0 {
		return shared.Pair{Token0: token1, Token1: token0}, true
	}
	return shared.Pair{Token0: token0, Token1: token1}, false
}

func validTokens(token0, token1 shared.Token) error {
	if token0 == "" || token1 == "" {
		return shared.ErrInvalidAddress
	}
	if token0 == token1 {
		return shared.ErrInvalidAddress
	}
	return nil
}

// GetOrCreate returns the pair id for the token pair, registering it on first
// use, plus whether the supplied order was inverted relative to canonical.
func (p *Pairs) GetOrCreate(token0, token1 shared.Token) (uint64, bool, error) {
	if err := validTokens(token0, token1); err != nil {
		return 0, false, err
	}
	pair, inverted := canonical(token0, token1)
	if id, ok := p.byTokens[pair]; ok {
		return id, inverted, nil
	}
	id := p.next
	p.next++
	p.byTokens[pair] = id
	p.byID[id] = pair
	return id, inverted, nil
}

// Lookup resolves an existing pair.
func (p *Pairs) Lookup(token0, token1 shared.Token) (uint64, bool, error) {
	if err := validTokens(token0, token1); err != nil {
		return 0, false, err
	}
	pair, inverted := canonical(token0, token1)
	id, ok := p.byTokens[pair]
	if !ok {
		return 0, false, shared.ErrPairDoesNotExist
	}
	return id, inverted, nil
}

// ByID resolves a pair id back to its canonical tokens.
func (p *Pairs) ByID(id uint64) (shared.Pair, error) {
	pair, ok := p.byID[id]
	if !ok {
		return shared.Pair{}, shared.ErrPairDoesNotExist
	}
	return pair, nil
}
