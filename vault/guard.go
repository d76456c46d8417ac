package vault

import (
	"math/big"

	"github.com/krazyTry/carbon-go/shared"
)

// Guarded wraps a Vault with a call-depth guard. Ledger state is always
// fully updated before a transfer is issued, so the guard is the second
// line of defense against a host whose transfer step can re-enter the
// engine.
type Guarded struct {
	inner shared.Vault
	depth int
}

func NewGuarded(inner shared.Vault) *Guarded {
	return &Guarded{inner: inner}
}

func (g *Guarded) enter() error {
	if g.depth != 0 {
		return shared.ErrReentrancy
	}
	g.depth++
	return nil
}

func (g *Guarded) exit() {
	g.depth--
}

func (g *Guarded) TransferIn(token shared.Token, from shared.Account, amount *big.Int) error {
	if err := g.enter(); err != nil {
		return err
	}
	defer g.exit()
	return g.inner.TransferIn(token, from, amount)
}

func (g *Guarded) TransferOut(token shared.Token, to shared.Account, amount *big.Int) error {
	if err := g.enter(); err != nil {
		return err
	}
	defer g.exit()
	return g.inner.TransferOut(token, to, amount)
}
