package strategies

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/krazyTry/carbon-go/mathex"
	"github.com/krazyTry/carbon-go/shared"
	tradeMath "github.com/krazyTry/carbon-go/strategies/math"
)

var ppm = big.NewInt(shared.PPMResolution)

// Trade executes a batch of trade actions from sourceToken into targetToken.
// Actions apply in caller order and each action sees the cumulative state
// left by the previous ones. The batch is all-or-nothing: any violation
// rejects it with no state change.
//
// limit is the caller's slippage bound: a maximum source input when trading
// by target amount, a minimum target return when trading by source amount.
// A nil limit disables the check. deadline is a unix timestamp; zero
// disables it.
func (s *Strategies) Trade(
	caller shared.Account,
	sourceToken, targetToken shared.Token,
	actions []shared.TradeAction,
	tradeBy shared.TradeBy,
	limit *big.Int,
	deadline int64,
) (shared.TradeTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var none shared.TradeTotals
	if caller == "" {
		return none, shared.ErrInvalidAddress
	}
	if deadline != 0 && s.clock() > deadline {
		return none, shared.ErrDeadlineExpired
	}
	if len(actions) == 0 {
		return none, shared.ErrInvalidTradeActionAmount
	}

	pairID, _, err := s.pairs.Lookup(sourceToken, targetToken)
	if err != nil {
		return none, err
	}
	pair, _ := s.pairs.ByID(pairID)

	targetIdx := 1
	if pair.Token0 == targetToken {
		targetIdx = 0
	}
	sourceIdx := 1 - targetIdx

	// Stage all mutations; commit only after the whole batch and the fee and
	// slippage checks pass.
	staged := make(map[shared.StrategyID][2]shared.Order)
	totalSource := new(big.Int)
	totalTarget := new(big.Int)

	for _, action := range actions {
		if action.Amount == nil || action.Amount.Sign() <= 0 {
			return none, shared.ErrInvalidTradeActionAmount
		}
		rec, ok := s.records[action.ID]
		if !ok {
			return none, shared.ErrStrategyDoesNotExist
		}
		if rec.pairID != pairID {
			return none, shared.ErrInvalidTradeActionStrategyID
		}

		orders, ok := staged[action.ID]
		if !ok {
			orders = [2]shared.Order{rec.orders[0].Clone(), rec.orders[1].Clone()}
		}
		target := &orders[targetIdx]
		source := &orders[sourceIdx]
		A, B := tradeMath.ExpandRates(*target)

		var sourceAmount, targetAmount *big.Int
		switch tradeBy {
		case shared.ByTargetAmount:
			targetAmount = new(big.Int).Set(action.Amount)
			if targetAmount.Cmp(target.Y) > 0 {
				return none, shared.ErrInsufficientLiquidity
			}
			sourceAmount, err = tradeMath.TradeSourceAmount(targetAmount, target.Y, target.Z, A, B)
		default:
			sourceAmount = new(big.Int).Set(action.Amount)
			targetAmount, err = tradeMath.TradeTargetAmount(sourceAmount, target.Y, target.Z, A, B)
		}
		if err != nil {
			return none, err
		}
		if targetAmount.Cmp(target.Y) > 0 {
			return none, shared.ErrInsufficientLiquidity
		}

		// Update rule: target side pays out, source side absorbs, capacity
		// self-expands when the marginal rate reaches the high bound.
		target.Y.Sub(target.Y, targetAmount)
		source.Y.Add(source.Y, sourceAmount)
		if _, err := mathex.ToUint128(source.Y); err != nil {
			return none, err
		}
		if source.Z.Cmp(source.Y) < 0 {
			source.Z.Set(source.Y)
		}
		staged[action.ID] = orders

		totalSource.Add(totalSource, sourceAmount)
		totalTarget.Add(totalTarget, targetAmount)
	}

	fee := s.cfg.FeePPM(pairID)
	if fee >= shared.PPMResolution {
		return none, shared.ErrInvalidFee
	}
	feePPM := new(big.Int).SetUint64(uint64(fee))
	netPPM := new(big.Int).Sub(ppm, feePPM)

	traderSource := new(big.Int).Set(totalSource)
	traderTarget := new(big.Int).Set(totalTarget)
	feeAmount := new(big.Int)
	feeToken := targetToken
	if tradeBy == shared.ByTargetAmount {
		// Inflate the required input; the surplus is the protocol's.
		traderSource, err = mathex.MulDivC(totalSource, ppm, netPPM)
		if err != nil {
			return none, err
		}
		feeAmount.Sub(traderSource, totalSource)
		feeToken = sourceToken
	} else {
		// Deflate the return; the difference is the protocol's.
		traderTarget, err = mathex.MulDivF(totalTarget, netPPM, ppm)
		if err != nil {
			return none, err
		}
		feeAmount.Sub(totalTarget, traderTarget)
	}

	if limit != nil {
		if tradeBy == shared.ByTargetAmount && traderSource.Cmp(limit) > 0 {
			return none, shared.ErrGreaterThanMaxInput
		}
		if tradeBy == shared.BySourceAmount && traderTarget.Cmp(limit) < 0 {
			return none, shared.ErrLowerThanMinReturn
		}
	}

	// Commit.
	prev := make(map[shared.StrategyID][2]shared.Order, len(staged))
	for id, orders := range staged {
		prev[id] = s.records[id].orders
		s.records[id].orders = orders
	}
	if feeAmount.Sign() > 0 {
		if _, ok := s.accrued[feeToken]; !ok {
			s.accrued[feeToken] = new(big.Int)
		}
		s.accrued[feeToken].Add(s.accrued[feeToken], feeAmount)
	}

	rollback := func() {
		for id, orders := range prev {
			s.records[id].orders = orders
		}
		if feeAmount.Sign() > 0 {
			s.accrued[feeToken].Sub(s.accrued[feeToken], feeAmount)
		}
	}

	if err := s.vault.TransferIn(sourceToken, caller, traderSource); err != nil {
		rollback()
		return none, err
	}
	if err := s.vault.TransferOut(targetToken, caller, traderTarget); err != nil {
		rollback()
		_ = s.vault.TransferOut(sourceToken, caller, traderSource)
		return none, err
	}

	s.log.Info("trade executed",
		zap.String("source", string(sourceToken)),
		zap.String("target", string(targetToken)),
		zap.Int("actions", len(actions)),
		zap.String("sourceAmount", traderSource.String()),
		zap.String("targetAmount", traderTarget.String()),
	)
	return shared.TradeTotals{SourceAmount: traderSource, TargetAmount: traderTarget}, nil
}
