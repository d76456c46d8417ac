package shared

import "errors"

// Arithmetic-domain errors.
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("overflow")
)

// Input validation errors.
var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidRate     = errors.New("invalid rate")
	ErrInvalidFee      = errors.New("invalid fee")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidExpiry   = errors.New("invalid expiry")
	ErrDeadlineExpired = errors.New("deadline expired")

	ErrInvalidTradeActionStrategyID = errors.New("invalid trade action strategy id")
	ErrInvalidTradeActionAmount     = errors.New("invalid trade action amount")
)

// State-consistency errors.
var (
	ErrStrategyDoesNotExist = errors.New("strategy does not exist")
	ErrPairDoesNotExist     = errors.New("pair does not exist")
	ErrOutdated             = errors.New("outdated")
	ErrAccessDenied         = errors.New("access denied")
)

// Economic-constraint errors.
var (
	ErrOrderDisabled                = errors.New("order disabled")
	ErrInsufficientLiquidity        = errors.New("insufficient liquidity")
	ErrInsufficientCapacity         = errors.New("insufficient capacity")
	ErrGreaterThanMaxInput          = errors.New("greater than max input")
	ErrLowerThanMinReturn           = errors.New("lower than min return")
	ErrInsufficientAmountForTrading = errors.New("insufficient amount for trading")
)

// Auction/gradient errors.
var (
	ErrTradingDisabled   = errors.New("trading disabled")
	ErrTradingNotStarted = errors.New("trading not started")
	ErrOrderExpired      = errors.New("order expired")
	ErrInvalidTrade      = errors.New("invalid trade")
)

// Boundary errors.
var (
	ErrReentrancy = errors.New("reentrancy")
)
