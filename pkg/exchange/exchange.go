// Package exchange defines the connector interface and a registry for
// wiring multiple venues into one accounting pipeline.
package exchange

import (
	"context"

	"nakula/pkg/core"
)

// Connector is the narrow query surface an accounting consumer needs from
// a venue: current balances and the historical event stream, normalized
// and temporally bounded. Implementations are not required to be safe for
// concurrent callers; use one instance per goroutine.
type Connector interface {
	Name() string
	Close() error

	// QueryBalances returns one aggregated balance per canonical asset.
	// The returned message is non-empty only when entries were dropped.
	QueryBalances(ctx context.Context) (map[core.Asset]core.Balance, string, error)

	// QueryTradeHistory returns trades inside the inclusive unix-second
	// window, in the order the venue returned them.
	QueryTradeHistory(ctx context.Context, start, end core.Timestamp) ([]core.Trade, error)

	// QueryDepositsWithdrawals returns deposits and withdrawals inside the
	// inclusive unix-second window, deposits first.
	QueryDepositsWithdrawals(ctx context.Context, start, end core.Timestamp) ([]core.AssetMovement, error)
}
