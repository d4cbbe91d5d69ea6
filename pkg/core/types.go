package core

import (
	"github.com/cockroachdb/apd/v3"
)

// Asset is a canonical asset identifier (e.g. "BTC", "ETH").
// Venue-specific tickers are translated into this form by an AssetResolver
// before any record leaves the connector.
type Asset string

// String returns the canonical ticker.
func (a Asset) String() string {
	return string(a)
}

// TradePair is a canonical base/quote pair joined with an underscore
// (e.g. "KCS_USDT"). Both legs are canonical Asset symbols.
type TradePair string

// NewTradePair builds a TradePair from canonical base and quote assets.
func NewTradePair(base, quote Asset) TradePair {
	return TradePair(string(base) + "_" + string(quote))
}

// Timestamp is a unix timestamp in whole seconds. Millisecond wire values
// are truncated, never rounded.
type Timestamp int64

// TradeType represents the direction of a historical trade (buy or sell).
type TradeType int

const (
	// TradeTypeBuy indicates the base asset was bought.
	TradeTypeBuy TradeType = iota
	// TradeTypeSell indicates the base asset was sold.
	TradeTypeSell
)

// String returns the string representation of the trade type ("buy" or "sell").
func (t TradeType) String() string {
	return [...]string{"buy", "sell"}[t]
}

// MarshalJSON implements json.Marshaler for TradeType.
func (t TradeType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for TradeType.
// It accepts both lowercase and uppercase formats.
func (t *TradeType) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"buy"`, `"BUY"`:
		*t = TradeTypeBuy
	case `"sell"`, `"SELL"`:
		*t = TradeTypeSell
	}
	return nil
}

// MovementCategory discriminates deposits from withdrawals.
type MovementCategory int

const (
	// MovementDeposit is an external transfer into the venue.
	MovementDeposit MovementCategory = iota
	// MovementWithdrawal is an external transfer out of the venue.
	MovementWithdrawal
)

// String returns the string representation of the category.
func (c MovementCategory) String() string {
	return [...]string{"deposit", "withdrawal"}[c]
}

// MarshalJSON implements json.Marshaler for MovementCategory.
func (c MovementCategory) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// SkipReason explains why a raw record was excluded from the canonical
// result set. It is a control outcome, not an error.
type SkipReason int

const (
	// SkipNone marks an accepted record.
	SkipNone SkipReason = iota
	// SkipBeforeTimestampRange marks a record older than the requested window.
	SkipBeforeTimestampRange
	// SkipAfterTimestampRange marks a record newer than the requested window.
	SkipAfterTimestampRange
	// SkipInnerMovement marks a transfer between the venue's own sub-accounts.
	SkipInnerMovement
)

// String returns the string representation of the skip reason.
func (s SkipReason) String() string {
	return [...]string{
		"none",
		"before_timestamp_range",
		"after_timestamp_range",
		"inner_movement",
	}[s]
}

// Trade is a canonical historical trade. Amount, Rate and Fee are exact
// decimals and always non-negative.
type Trade struct {
	// Timestamp is when the trade executed, in unix seconds.
	Timestamp Timestamp `json:"timestamp"`
	// Pair is the canonical base/quote pair.
	Pair TradePair `json:"pair"`
	// Type indicates whether the base asset was bought or sold.
	Type TradeType `json:"type"`
	// Amount is the traded base quantity.
	Amount apd.Decimal `json:"amount"`
	// Rate is the price per unit of base in quote.
	Rate apd.Decimal `json:"rate"`
	// Fee is the charged trading fee, possibly zero.
	Fee apd.Decimal `json:"fee"`
	// FeeAsset is the asset the fee was charged in.
	FeeAsset Asset `json:"fee_asset"`
	// Link is the venue-unique trade identifier.
	Link string `json:"link"`
	// Notes carries free-text annotations.
	Notes string `json:"notes"`
}

// AssetMovement is a canonical deposit or withdrawal.
//
// Link is empty for deposits and holds the venue's internal record id for
// withdrawals; the asymmetry is a venue convention. TransactionID is the
// on-chain wallet transaction id in both cases.
type AssetMovement struct {
	// Timestamp is when the movement was created, in unix seconds.
	Timestamp Timestamp `json:"timestamp"`
	// Category discriminates deposit from withdrawal.
	Category MovementCategory `json:"category"`
	// Address is the destination or source address, may be empty.
	Address string `json:"address"`
	// TransactionID is the wallet transaction id.
	TransactionID string `json:"transaction_id"`
	// Asset is the moved asset.
	Asset Asset `json:"asset"`
	// Amount is the moved quantity.
	Amount apd.Decimal `json:"amount"`
	// FeeAsset is the asset the transfer fee was charged in.
	FeeAsset Asset `json:"fee_asset"`
	// Fee is the transfer fee, possibly zero.
	Fee apd.Decimal `json:"fee"`
	// Link is the venue record id for withdrawals, empty for deposits.
	Link string `json:"link"`
}

// Balance is the aggregated holding of one asset across all venue purses.
type Balance struct {
	// Amount is the summed quantity over every purse holding the asset.
	Amount apd.Decimal `json:"amount"`
	// UsdValue is Amount multiplied by the USD price at query time.
	UsdValue apd.Decimal `json:"usd_value"`
	// PriceUnknown is set when no USD price could be determined; UsdValue
	// is zero in that case but the balance is still reported.
	PriceUnknown bool `json:"price_unknown,omitempty"`
}
