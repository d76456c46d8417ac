package carbon

import (
	"github.com/krazyTry/carbon-go/auction"
	"github.com/krazyTry/carbon-go/gradient"
	"github.com/krazyTry/carbon-go/shared"
	"github.com/krazyTry/carbon-go/strategies"
)

// NewStrategies creates the strategy ledger.
//
// Example:
//
//	ledger := carbon.NewStrategies(vault, vouchers, cfg)
//
//	id, _ := ledger.Create(owner, tokenA, tokenB, orders)
//
//	totals, _ := ledger.Trade(trader, tokenA, tokenB, actions, shared.BySourceAmount, minReturn, deadline)
var NewStrategies = strategies.New

// NewGradient creates the time-priced strategy family on top of an existing
// ledger so both families share one id space.
var NewGradient = gradient.New

// NewPOL creates the protocol-owned-liquidity dutch-auction seller.
var NewPOL = auction.NewPOL

// NewVortex creates the fee-vortex dutch-auction seller.
var NewVortex = auction.NewVortex

// Order is one side of a strategy.
type Order = shared.Order

// Price is a source/target amount pair.
type Price = shared.Price

// TradeAction is one step of a trade batch.
type TradeAction = shared.TradeAction
