package core

import (
	"context"
	"sync"

	"github.com/cockroachdb/apd/v3"
)

// AssetResolver maps a venue-specific currency symbol to a canonical Asset.
//
// Implementations distinguish two failure kinds: an unknown symbol (absent
// from the asset database, IsUnknownAsset) and an unsupported one (known but
// deliberately excluded, IsUnsupportedAsset).
type AssetResolver interface {
	FromVenue(symbol string) (Asset, error)
}

// PriceOracle values an asset in USD at query time.
type PriceOracle interface {
	// USDPrice returns the current USD price for one unit of the asset.
	USDPrice(ctx context.Context, asset Asset) (apd.Decimal, error)
}

// MessageSink records user-visible warnings and errors emitted while
// querying. The connector decides what to report; the sink decides where
// it goes.
type MessageSink interface {
	Warn(msg string)
	Error(msg string)
}

// NopSink discards every message.
type NopSink struct{}

// Warn implements MessageSink.
func (NopSink) Warn(string) {}

// Error implements MessageSink.
func (NopSink) Error(string) {}

// Collector is a MessageSink that buffers messages until consumed.
// It is safe for concurrent use.
type Collector struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Warn records a warning message.
func (c *Collector) Warn(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, msg)
}

// Error records an error message.
func (c *Collector) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
}

// ConsumeWarnings returns all buffered warnings and clears the buffer.
func (c *Collector) ConsumeWarnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.warnings
	c.warnings = nil
	return out
}

// ConsumeErrors returns all buffered errors and clears the buffer.
func (c *Collector) ConsumeErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.errors
	c.errors = nil
	return out
}
