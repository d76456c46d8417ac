package shared

import "math/big"

// Vault is the funds-movement port. The engine mutates its own state before
// calling either method and trusts the host for token semantics.
type Vault interface {
	TransferIn(token Token, from Account, amount *big.Int) error
	TransferOut(token Token, to Account, amount *big.Int) error
}

// BalanceSource reports the engine's own holdings of a token. Used by the
// auction sellers to bound reset top-ups.
type BalanceSource interface {
	BalanceOf(token Token) *big.Int
}

// Voucher is the ownership-ticket port: an NFT-like ledger external to the
// engine.
type Voucher interface {
	Mint(owner Account, id StrategyID) error
	Burn(id StrategyID) error
	OwnerOf(id StrategyID) (Account, error)
}

// Clock supplies the current unix time. The host provides it per service.
type Clock func() int64
