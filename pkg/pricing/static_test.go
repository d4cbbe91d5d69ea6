package pricing

import (
	"context"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func dec(t *testing.T, s string) apd.Decimal {
	t.Helper()
	var d apd.Decimal
	_, _, err := d.SetString(s)
	require.NoError(t, err)
	return d
}

func TestStaticUSDPrice(t *testing.T) {
	oracle := NewStatic(map[core.Asset]apd.Decimal{
		"BTC": dec(t, "50000"),
		"ETH": dec(t, "2500.5"),
	})

	price, err := oracle.USDPrice(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, "50000", price.String())

	price, err = oracle.USDPrice(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, "2500.5", price.String())
}

func TestStaticUnknownAsset(t *testing.T) {
	oracle := NewStatic(nil)

	_, err := oracle.USDPrice(context.Background(), "BTC")
	assert.Error(t, err)
}

func TestStaticSetPrice(t *testing.T) {
	oracle := NewStatic(nil)
	oracle.SetPrice("DOGE", dec(t, "0.1"))

	price, err := oracle.USDPrice(context.Background(), "DOGE")
	require.NoError(t, err)
	assert.Equal(t, "0.1", price.String())
}
