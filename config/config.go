package config

import (
	"errors"
	"math/big"

	"github.com/tidwall/gjson"

	"github.com/krazyTry/carbon-go/auction"
	"github.com/krazyTry/carbon-go/shared"
)

var ErrInvalidDocument = errors.New("invalid config document")

// Document is the parsed protocol configuration: the trading fee surface for
// the strategy ledger plus the auction sellers' parameters.
type Document struct {
	Protocol shared.ProtocolConfig
	Auction  auction.Config
}

// Parse reads a configuration document of the form:
//
//	{
//	  "tradingFeePPM": 2000,
//	  "pairFees": [{"pairId": 1, "feePPM": 500}],
//	  "auction": {
//	    "marketPriceMultiplier": 2,
//	    "priceDecayHalfLife": 43200,
//	    "slowPriceDecayHalfLife": 172800,
//	    "saleAmountInitial": "100000000000000000000",
//	    "saleAmountMin": "1000000000000000000"
//	  }
//	}
//
// Absent fields keep their zero values; fee fields are validated against the
// PPM unit.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}
	root := gjson.ParseBytes(data)

	doc := &Document{
		Protocol: shared.ProtocolConfig{
			PairFeePPM: make(map[uint64]uint32),
		},
	}

	fee := root.Get("tradingFeePPM").Uint()
	if fee >= shared.PPMResolution {
		return nil, shared.ErrInvalidFee
	}
	doc.Protocol.TradingFeePPM = uint32(fee)

	var err error
	root.Get("pairFees").ForEach(func(_, entry gjson.Result) bool {
		pairFee := entry.Get("feePPM").Uint()
		if pairFee >= shared.PPMResolution {
			err = shared.ErrInvalidFee
			return false
		}
		doc.Protocol.PairFeePPM[entry.Get("pairId").Uint()] = uint32(pairFee)
		return true
	})
	if err != nil {
		return nil, err
	}

	a := root.Get("auction")
	if a.Exists() {
		doc.Auction = auction.Config{
			MarketPriceMultiplier:  uint32(a.Get("marketPriceMultiplier").Uint()),
			PriceDecayHalfLife:     uint32(a.Get("priceDecayHalfLife").Uint()),
			SlowPriceDecayHalfLife: uint32(a.Get("slowPriceDecayHalfLife").Uint()),
			SaleInitial:            bigField(a.Get("saleAmountInitial")),
			SaleMin:                bigField(a.Get("saleAmountMin")),
		}
	}
	return doc, nil
}

func bigField(r gjson.Result) *big.Int {
	if !r.Exists() {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(r.String(), 10)
	if !ok {
		return new(big.Int)
	}
	return v
}
