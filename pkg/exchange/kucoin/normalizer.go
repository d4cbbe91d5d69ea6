package kucoin

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
)

// decCtx is the arithmetic context for balance summation.
var decCtx = apd.BaseContext.WithPrecision(50)

// wireDecimal is an exact decimal that unmarshals from both quoted and
// bare JSON numbers. KuCoin mixes the two in the same payload.
type wireDecimal struct {
	apd.Decimal
}

// UnmarshalJSON implements json.Unmarshaler for wireDecimal.
func (d *wireDecimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		d.Decimal = apd.Decimal{}
		return nil
	}
	if err := d.Decimal.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return nil
}

// rawAccount is one account purse entry from /api/v1/accounts.
type rawAccount struct {
	ID        string      `json:"id"`
	Currency  string      `json:"currency"`
	Type      string      `json:"type"`
	Balance   wireDecimal `json:"balance"`
	Available wireDecimal `json:"available"`
	Holds     wireDecimal `json:"holds"`
}

// rawFill is one trade fill from /api/v1/fills.
type rawFill struct {
	Symbol         string      `json:"symbol"`
	TradeID        string      `json:"tradeId"`
	OrderID        string      `json:"orderId"`
	CounterOrderID string      `json:"counterOrderId"`
	Side           string      `json:"side"`
	Liquidity      string      `json:"liquidity"`
	ForceTaker     bool        `json:"forceTaker"`
	Price          wireDecimal `json:"price"`
	Size           wireDecimal `json:"size"`
	Funds          wireDecimal `json:"funds"`
	Fee            wireDecimal `json:"fee"`
	FeeRate        wireDecimal `json:"feeRate"`
	FeeCurrency    string      `json:"feeCurrency"`
	Stop           string      `json:"stop"`
	TradeType      string      `json:"tradeType"`
	Type           string      `json:"type"`
	CreatedAt      int64       `json:"createdAt"`
}

// rawMovement is one deposit or withdrawal record. The two endpoints share
// a shape except that withdrawals carry an internal id field; the movement
// category is decided by the endpoint queried, not by the record.
type rawMovement struct {
	ID         string      `json:"id"`
	Address    string      `json:"address"`
	Memo       string      `json:"memo"`
	Currency   string      `json:"currency"`
	Amount     wireDecimal `json:"amount"`
	Fee        wireDecimal `json:"fee"`
	WalletTxID string      `json:"walletTxId"`
	IsInner    bool        `json:"isInner"`
	Status     string      `json:"status"`
	Remark     string      `json:"remark"`
	CreatedAt  int64       `json:"createdAt"`
	UpdatedAt  int64       `json:"updatedAt"`
}

// Normalizer converts raw KuCoin records to canonical core types. Symbol
// resolution goes through the configured core.AssetResolver.
type Normalizer struct {
	resolver core.AssetResolver
}

// NewNormalizer creates a Normalizer backed by the given resolver.
func NewNormalizer(resolver core.AssetResolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// pairFromSymbol rewrites a venue "BASE-QUOTE" symbol to a canonical pair,
// resolving each leg independently. Resolution failures are hard errors
// because a trade cannot be partially represented.
func (n *Normalizer) pairFromSymbol(symbol string) (core.TradePair, error) {
	base, quote, ok := strings.Cut(symbol, "-")
	if !ok {
		return "", core.NewDecodeError(venueName, fmt.Sprintf("invalid pair symbol %q", symbol))
	}
	baseAsset, err := n.resolver.FromVenue(base)
	if err != nil {
		return "", err
	}
	quoteAsset, err := n.resolver.FromVenue(quote)
	if err != nil {
		return "", err
	}
	return core.NewTradePair(baseAsset, quoteAsset), nil
}

// DeserializeTrade classifies one raw fill against the inclusive
// [start, end] window. Records outside the window come back with a skip
// reason and no trade; accepted records become canonical trades with the
// venue tradeId as link. Millisecond timestamps are truncated to seconds.
func (n *Normalizer) DeserializeTrade(raw *rawFill, start, end core.Timestamp) (*core.Trade, core.SkipReason, error) {
	ts := core.Timestamp(raw.CreatedAt / 1000)
	if ts < start {
		return nil, core.SkipBeforeTimestampRange, nil
	}
	if ts > end {
		return nil, core.SkipAfterTimestampRange, nil
	}

	pair, err := n.pairFromSymbol(raw.Symbol)
	if err != nil {
		return nil, core.SkipNone, err
	}
	feeAsset, err := n.resolver.FromVenue(raw.FeeCurrency)
	if err != nil {
		return nil, core.SkipNone, err
	}

	var side core.TradeType
	switch raw.Side {
	case "buy":
		side = core.TradeTypeBuy
	case "sell":
		side = core.TradeTypeSell
	default:
		return nil, core.SkipNone, core.NewDecodeError(venueName, fmt.Sprintf("invalid trade side %q", raw.Side))
	}

	return &core.Trade{
		Timestamp: ts,
		Pair:      pair,
		Type:      side,
		Amount:    raw.Size.Decimal,
		Rate:      raw.Price.Decimal,
		Fee:       raw.Fee.Decimal,
		FeeAsset:  feeAsset,
		Link:      raw.TradeID,
		Notes:     "",
	}, core.SkipNone, nil
}

// DeserializeMovement classifies one raw deposit or withdrawal record.
// Intra-venue transfers are skipped before any timestamp check. For
// deposits the link stays empty; for withdrawals it carries the venue's
// internal record id. The fee is always charged in the moved asset.
func (n *Normalizer) DeserializeMovement(raw *rawMovement, category core.MovementCategory, start, end core.Timestamp) (*core.AssetMovement, core.SkipReason, error) {
	if raw.IsInner {
		return nil, core.SkipInnerMovement, nil
	}

	ts := core.Timestamp(raw.CreatedAt / 1000)
	if ts < start {
		return nil, core.SkipBeforeTimestampRange, nil
	}
	if ts > end {
		return nil, core.SkipAfterTimestampRange, nil
	}

	asset, err := n.resolver.FromVenue(raw.Currency)
	if err != nil {
		return nil, core.SkipNone, err
	}

	link := ""
	if category == core.MovementWithdrawal {
		link = raw.ID
	}

	return &core.AssetMovement{
		Timestamp:     ts,
		Category:      category,
		Address:       raw.Address,
		TransactionID: raw.WalletTxID,
		Asset:         asset,
		Amount:        raw.Amount.Decimal,
		FeeAsset:      asset,
		Fee:           raw.Fee.Decimal,
		Link:          link,
	}, core.SkipNone, nil
}

// resolvedBalance is one (asset, amount) contribution from a single purse.
type resolvedBalance struct {
	asset  core.Asset
	amount apd.Decimal
}

// sumBalances folds per-purse contributions into one exact total per
// asset. It is pure so the summation is testable without I/O.
func sumBalances(entries []resolvedBalance) map[core.Asset]*apd.Decimal {
	totals := make(map[core.Asset]*apd.Decimal)
	for i := range entries {
		e := &entries[i]
		total, ok := totals[e.asset]
		if !ok {
			total = new(apd.Decimal)
			totals[e.asset] = total
		}
		// BaseContext addition is exact at this precision for wire values.
		_, _ = decCtx.Add(total, total, &e.amount)
	}
	return totals
}

// ResolveAccounts resolves every purse entry's symbol and sums amounts per
// canonical asset. Unsupported symbols are dropped silently, unknown ones
// with one warning per distinct symbol; zero totals are excluded. The
// returned slice lists the distinct dropped symbols in encounter order.
func (n *Normalizer) ResolveAccounts(accounts []rawAccount, sink core.MessageSink) (map[core.Asset]*apd.Decimal, []string) {
	var (
		entries []resolvedBalance
		dropped []string
		warned  = make(map[string]struct{})
	)
	for i := range accounts {
		acc := &accounts[i]
		asset, err := n.resolver.FromVenue(acc.Currency)
		if err != nil {
			if core.IsUnknownAsset(err) {
				if _, ok := warned[acc.Currency]; !ok {
					warned[acc.Currency] = struct{}{}
					dropped = append(dropped, acc.Currency)
					sink.Warn(fmt.Sprintf(
						"Found unknown kucoin asset %s. Ignoring its balance query result.",
						acc.Currency,
					))
				}
			}
			// Unsupported symbols are enumerated instrument types,
			// dropped without a warning.
			continue
		}
		entries = append(entries, resolvedBalance{asset: asset, amount: acc.Balance.Decimal})
	}

	totals := sumBalances(entries)
	for asset, total := range totals {
		if total.IsZero() {
			delete(totals, asset)
		}
	}
	return totals, dropped
}
