package kucoin

import (
	"strings"

	"nakula/pkg/core"
)

// assetAliases maps legacy or venue-specific tickers to canonical ones.
var assetAliases = map[string]core.Asset{
	"BCHSV": "BSV",
	"XRB":   "NANO",
	"WAX":   "WAXP",
	"LOKI":  "OXEN",
	"GALAX": "GALA",
}

// unsupportedAssets enumerates instrument types deliberately excluded from
// accounting, mostly leveraged tokens. Balances in them are dropped
// without a warning.
var unsupportedAssets = map[string]struct{}{
	"ADA3L":   {},
	"ADA3S":   {},
	"BNB3L":   {},
	"BNB3S":   {},
	"BTC3L":   {},
	"BTC3S":   {},
	"DOGE3L":  {},
	"DOGE3S":  {},
	"DOT3L":   {},
	"DOT3S":   {},
	"EOS3L":   {},
	"EOS3S":   {},
	"ETH3L":   {},
	"ETH3S":   {},
	"LINK3L":  {},
	"LINK3S":  {},
	"LTC3L":   {},
	"LTC3S":   {},
	"SUSHI3L": {},
	"SUSHI3S": {},
	"UNI3L":   {},
	"UNI3S":   {},
	"VET3L":   {},
	"VET3S":   {},
	"XRP3L":   {},
	"XRP3S":   {},
}

// knownAssets is the set of canonical tickers the bundled resolver
// recognizes. Callers with a full asset database can swap in their own
// core.AssetResolver instead.
var knownAssets = map[string]struct{}{
	"AAVE": {}, "ADA": {}, "ALGO": {}, "ANKR": {}, "ATOM": {}, "AVAX": {},
	"BAL": {}, "BAT": {}, "BCH": {}, "BNB": {}, "BSV": {}, "BTC": {},
	"CHZ": {}, "COMP": {}, "CRV": {}, "DASH": {}, "DOGE": {}, "DOT": {},
	"ENJ": {}, "EOS": {}, "ETC": {}, "ETH": {}, "FIL": {}, "FTM": {},
	"GALA": {}, "GRT": {}, "ICX": {}, "KCS": {}, "KNC": {}, "LINK": {},
	"LRC": {}, "LTC": {}, "LUNA": {}, "MANA": {}, "MATIC": {}, "MKR": {},
	"NANO": {}, "NEAR": {}, "NEO": {}, "OCEAN": {}, "OMG": {}, "ONE": {},
	"ONT": {}, "OXEN": {}, "QTUM": {}, "REN": {}, "RSR": {}, "SAND": {},
	"SHIB": {}, "SNX": {}, "SOL": {}, "STORJ": {}, "SUSHI": {}, "TRX": {},
	"UNI": {}, "USDC": {}, "USDT": {}, "VET": {}, "WAXP": {}, "XLM": {},
	"XMR": {}, "XRP": {}, "XTZ": {}, "YFI": {}, "ZEC": {}, "ZIL": {},
}

// Resolver is the bundled core.AssetResolver for KuCoin symbols. It
// applies the alias table, rejects unsupported instruments, and reports
// everything outside the known set as unknown.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// FromVenue implements core.AssetResolver.
func (r *Resolver) FromVenue(symbol string) (core.Asset, error) {
	upper := strings.ToUpper(symbol)

	if _, ok := unsupportedAssets[upper]; ok {
		return "", core.NewUnsupportedAssetError(venueName, symbol)
	}
	if alias, ok := assetAliases[upper]; ok {
		return alias, nil
	}
	if _, ok := knownAssets[upper]; ok {
		return core.Asset(upper), nil
	}
	return "", core.NewUnknownAssetError(venueName, symbol)
}
