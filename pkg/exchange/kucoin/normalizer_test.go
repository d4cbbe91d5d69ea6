package kucoin

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func mustDecimal(t *testing.T, s string) apd.Decimal {
	t.Helper()
	var d apd.Decimal
	_, _, err := d.SetString(s)
	require.NoError(t, err)
	return d
}

const rawFillBuyJSON = `{
	"symbol": "KCS-USDT",
	"tradeId": "601da9faf1297d0007efd712",
	"orderId": "601da9fa0c92050006bd83be",
	"counterOrderId": "601bad620c9205000642300f",
	"side": "buy",
	"liquidity": "taker",
	"forceTaker": true,
	"price": 1000,
	"size": "0.2",
	"funds": 200,
	"fee": "0.14",
	"feeRate": "0.0007",
	"feeCurrency": "USDT",
	"stop": "",
	"tradeType": "TRADE",
	"type": "market",
	"createdAt": 1612556794259
}`

func decodeFill(t *testing.T, data string) *rawFill {
	t.Helper()
	var raw rawFill
	require.NoError(t, sonic.Unmarshal([]byte(data), &raw))
	return &raw
}

func TestWireDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted", `"0.2"`, "0.2"},
		{"bare integer", `1000`, "1000"},
		{"bare float", `0.01`, "0.01"},
		{"quoted long", `"0.034238204"`, "0.034238204"},
		{"null", `null`, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d wireDecimal
			require.NoError(t, d.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d wireDecimal
	assert.Error(t, d.UnmarshalJSON([]byte(`"not a number"`)))
}

func TestDeserializeTradeBuy(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeFill(t, rawFillBuyJSON)

	trade, reason, err := n.DeserializeTrade(raw, 0, 1612556794)
	require.NoError(t, err)
	require.Equal(t, core.SkipNone, reason)
	require.NotNil(t, trade)

	assert.Equal(t, core.Timestamp(1612556794), trade.Timestamp)
	assert.Equal(t, core.TradePair("KCS_USDT"), trade.Pair)
	assert.Equal(t, core.TradeTypeBuy, trade.Type)
	assert.Equal(t, "0.2", trade.Amount.String())
	assert.Equal(t, "1000", trade.Rate.String())
	assert.Equal(t, "0.14", trade.Fee.String())
	assert.Equal(t, core.Asset("USDT"), trade.FeeAsset)
	assert.Equal(t, "601da9faf1297d0007efd712", trade.Link)
	assert.Empty(t, trade.Notes)
}

func TestDeserializeTradeSellAliasedPair(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeFill(t, `{
		"symbol": "BCHSV-USDT",
		"tradeId": "601da995e0ee8b00063a075c",
		"orderId": "601da9950c92050006bd45c5",
		"side": "sell",
		"liquidity": "taker",
		"forceTaker": true,
		"price": "37624.4",
		"size": "0.0013",
		"funds": "48.91172",
		"fee": "0.034238204",
		"feeRate": "0.0007",
		"feeCurrency": "USDT",
		"tradeType": "TRADE",
		"type": "market",
		"createdAt": 1612556794259
	}`)

	trade, reason, err := n.DeserializeTrade(raw, 0, 1612556794)
	require.NoError(t, err)
	require.Equal(t, core.SkipNone, reason)
	require.NotNil(t, trade)

	assert.Equal(t, core.TradePair("BSV_USDT"), trade.Pair)
	assert.Equal(t, core.TradeTypeSell, trade.Type)
	assert.Equal(t, "0.0013", trade.Amount.String())
	assert.Equal(t, "37624.4", trade.Rate.String())
	assert.Equal(t, "0.034238204", trade.Fee.String())
	assert.Equal(t, "601da995e0ee8b00063a075c", trade.Link)
}

func TestDeserializeTradeSkipped(t *testing.T) {
	tests := []struct {
		name   string
		start  core.Timestamp
		end    core.Timestamp
		reason core.SkipReason
	}{
		{"newer than window", 0, 1612556793, core.SkipAfterTimestampRange},
		{"older than window", 1612556795, 1612556800, core.SkipBeforeTimestampRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(NewResolver())
			raw := decodeFill(t, rawFillBuyJSON)

			trade, reason, err := n.DeserializeTrade(raw, tt.start, tt.end)
			require.NoError(t, err)
			assert.Nil(t, trade)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestDeserializeTradeBoundaryAccepted(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeFill(t, rawFillBuyJSON)

	// createdAt truncates to 1612556794; both window edges are inclusive.
	trade, reason, err := n.DeserializeTrade(raw, 1612556794, 1612556794)
	require.NoError(t, err)
	assert.Equal(t, core.SkipNone, reason)
	require.NotNil(t, trade)
	assert.Equal(t, core.Timestamp(1612556794), trade.Timestamp)
}

func TestDeserializeTradeUnresolvableAsset(t *testing.T) {
	n := NewNormalizer(NewResolver())

	raw := decodeFill(t, rawFillBuyJSON)
	raw.Symbol = "UNEXISTINGSYMBOL-USDT"
	trade, _, err := n.DeserializeTrade(raw, 0, 1612556794)
	assert.Nil(t, trade)
	assert.True(t, core.IsUnknownAsset(err))

	raw = decodeFill(t, rawFillBuyJSON)
	raw.Symbol = "BTC3L-USDT"
	trade, _, err = n.DeserializeTrade(raw, 0, 1612556794)
	assert.Nil(t, trade)
	assert.True(t, core.IsUnsupportedAsset(err))
}

func TestDeserializeTradeInvalidSide(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeFill(t, rawFillBuyJSON)
	raw.Side = "hold"

	trade, _, err := n.DeserializeTrade(raw, 0, 1612556794)
	assert.Nil(t, trade)
	assert.True(t, core.IsDecodeError(err))
}

const rawMovementJSON = `{
	"id": "5c2dc64e03aa675aa263f1ac",
	"address": "0x5bedb060b8eb8d823e2414d82acce78d38be7fe9",
	"memo": "",
	"currency": "ETH",
	"amount": 1,
	"fee": 0.01,
	"walletTxId": "3e2414d82acce78d38be7fe9",
	"isInner": false,
	"status": "SUCCESS",
	"remark": "test",
	"createdAt": 1612556794259,
	"updatedAt": 1612556795000
}`

func decodeMovement(t *testing.T, data string) *rawMovement {
	t.Helper()
	var raw rawMovement
	require.NoError(t, sonic.Unmarshal([]byte(data), &raw))
	return &raw
}

func TestDeserializeMovementDeposit(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeMovement(t, rawMovementJSON)

	movement, reason, err := n.DeserializeMovement(raw, core.MovementDeposit, 0, 1612556794)
	require.NoError(t, err)
	require.Equal(t, core.SkipNone, reason)
	require.NotNil(t, movement)

	assert.Equal(t, core.Timestamp(1612556794), movement.Timestamp)
	assert.Equal(t, core.MovementDeposit, movement.Category)
	assert.Equal(t, "0x5bedb060b8eb8d823e2414d82acce78d38be7fe9", movement.Address)
	assert.Equal(t, "3e2414d82acce78d38be7fe9", movement.TransactionID)
	assert.Equal(t, core.Asset("ETH"), movement.Asset)
	assert.Equal(t, "1", movement.Amount.String())
	assert.Equal(t, core.Asset("ETH"), movement.FeeAsset)
	assert.Equal(t, "0.01", movement.Fee.String())
	assert.Empty(t, movement.Link)
}

func TestDeserializeMovementWithdrawal(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeMovement(t, rawMovementJSON)

	movement, reason, err := n.DeserializeMovement(raw, core.MovementWithdrawal, 0, 1612556794)
	require.NoError(t, err)
	require.Equal(t, core.SkipNone, reason)
	require.NotNil(t, movement)

	assert.Equal(t, core.MovementWithdrawal, movement.Category)
	assert.Equal(t, "3e2414d82acce78d38be7fe9", movement.TransactionID)
	assert.Equal(t, "5c2dc64e03aa675aa263f1ac", movement.Link)
}

func TestDeserializeMovementInnerSkippedRegardlessOfWindow(t *testing.T) {
	n := NewNormalizer(NewResolver())
	raw := decodeMovement(t, rawMovementJSON)
	raw.IsInner = true

	// The window excludes the record; the inner check still wins.
	movement, reason, err := n.DeserializeMovement(raw, core.MovementDeposit, 0, 1000)
	require.NoError(t, err)
	assert.Nil(t, movement)
	assert.Equal(t, core.SkipInnerMovement, reason)
}

func TestDeserializeMovementSkippedByWindow(t *testing.T) {
	tests := []struct {
		name   string
		start  core.Timestamp
		end    core.Timestamp
		reason core.SkipReason
	}{
		{"newer than window", 0, 1612556793, core.SkipAfterTimestampRange},
		{"older than window", 1612556795, 1612556800, core.SkipBeforeTimestampRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(NewResolver())
			raw := decodeMovement(t, rawMovementJSON)

			movement, reason, err := n.DeserializeMovement(raw, core.MovementDeposit, tt.start, tt.end)
			require.NoError(t, err)
			assert.Nil(t, movement)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

const rawAccountsJSON = `[
	{"currency": "UNEXISTINGSYMBOL", "type": "main", "balance": "999", "available": "999", "holds": "0"},
	{"currency": "BCHSV", "type": "main", "balance": "1", "available": "1", "holds": "0"},
	{"currency": "BTC", "type": "main", "balance": "2.52", "available": "2.52", "holds": "0"},
	{"currency": "ETH", "type": "main", "balance": "47.33", "available": "47.33", "holds": "0"},
	{"currency": "USDT", "type": "main", "balance": "34500", "available": "34500", "holds": "0"},
	{"currency": "USDT", "type": "margin", "balance": "10000", "available": "10000", "holds": "0"},
	{"currency": "BTC", "type": "trade", "balance": "0.09018067", "available": "0.09018067", "holds": "0"},
	{"currency": "USDT", "type": "trade", "balance": "597.26244755", "available": "597.26244755", "holds": "0"},
	{"currency": "KCS", "type": "trade", "balance": "0.2", "available": "0.2", "holds": "0"},
	{"currency": "ETH", "type": "trade", "balance": "0.10934995", "available": "0.10934995", "holds": "0"},
	{"currency": "BTC3L", "type": "trade", "balance": "5", "available": "5", "holds": "0"},
	{"currency": "XLM", "type": "trade", "balance": "0", "available": "0", "holds": "0"}
]`

func TestResolveAccounts(t *testing.T) {
	var accounts []rawAccount
	require.NoError(t, sonic.Unmarshal([]byte(rawAccountsJSON), &accounts))

	n := NewNormalizer(NewResolver())
	sink := core.NewCollector()

	totals, dropped := n.ResolveAccounts(accounts, sink)

	// Purses of the same asset are summed exactly; the aliased BCHSV purse
	// lands under BSV, the unsupported leveraged token and the zero XLM
	// purse are gone.
	require.Len(t, totals, 5)
	assert.Equal(t, "2.61018067", totals["BTC"].String())
	assert.Equal(t, "47.43934995", totals["ETH"].String())
	assert.Equal(t, "45097.26244755", totals["USDT"].String())
	assert.Equal(t, "0.2", totals["KCS"].String())
	assert.Equal(t, "1", totals["BSV"].String())

	assert.Equal(t, []string{"UNEXISTINGSYMBOL"}, dropped)
	warnings := sink.ConsumeWarnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "UNEXISTINGSYMBOL")
	assert.Empty(t, sink.ConsumeErrors())
}

func TestResolveAccountsWarnsOncePerSymbol(t *testing.T) {
	accounts := []rawAccount{
		{Currency: "WHATEVER"},
		{Currency: "WHATEVER"},
		{Currency: "SOMETHINGELSE"},
	}

	n := NewNormalizer(NewResolver())
	sink := core.NewCollector()

	totals, dropped := n.ResolveAccounts(accounts, sink)
	assert.Empty(t, totals)
	assert.Equal(t, []string{"WHATEVER", "SOMETHINGELSE"}, dropped)
	assert.Len(t, sink.ConsumeWarnings(), 2)
}

func TestSumBalances(t *testing.T) {
	entries := []resolvedBalance{
		{asset: "BTC", amount: mustDecimal(t, "2.52")},
		{asset: "BTC", amount: mustDecimal(t, "0.09018067")},
		{asset: "ETH", amount: mustDecimal(t, "47.33")},
	}

	totals := sumBalances(entries)
	require.Len(t, totals, 2)
	assert.Equal(t, "2.61018067", totals["BTC"].String())
	assert.Equal(t, "47.33", totals["ETH"].String())
}
