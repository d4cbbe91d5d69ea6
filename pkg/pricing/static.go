// Package pricing provides core.PriceOracle implementations.
package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
)

// Static is a PriceOracle with fixed per-asset USD prices. It is meant for
// tests, examples and offline runs; assets without a price produce an
// error so callers fall back to their unknown-valuation handling.
// It is safe for concurrent use.
type Static struct {
	mu     sync.RWMutex
	prices map[core.Asset]apd.Decimal
}

// NewStatic creates a Static oracle from the given price table. A nil
// table is valid and prices nothing.
func NewStatic(prices map[core.Asset]apd.Decimal) *Static {
	table := make(map[core.Asset]apd.Decimal, len(prices))
	for asset, price := range prices {
		table[asset] = price
	}
	return &Static{prices: table}
}

// SetPrice sets or replaces the USD price for an asset.
func (s *Static) SetPrice(asset core.Asset, price apd.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[asset] = price
}

// USDPrice implements core.PriceOracle.
func (s *Static) USDPrice(_ context.Context, asset core.Asset) (apd.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[asset]
	if !ok {
		return apd.Decimal{}, fmt.Errorf("no USD price for asset %s", asset)
	}
	return price, nil
}
