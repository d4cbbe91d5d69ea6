package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectorError_Error(t *testing.T) {
	err := NewRemoteError("kucoin", 502, "bad gateway")
	assert.Equal(t, "[kucoin] REMOTE (502): bad gateway", err.Error())

	err = NewDecodeError("kucoin", "invalid JSON")
	assert.Equal(t, "[kucoin] DECODE: invalid JSON", err.Error())
}

func TestErrorKindHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"remote", NewRemoteError("kucoin", 500, "boom"), IsRemoteError},
		{"decode", NewDecodeError("kucoin", "boom"), IsDecodeError},
		{"unknown asset", NewUnknownAssetError("kucoin", "WTF"), IsUnknownAsset},
		{"unsupported asset", NewUnsupportedAssetError("kucoin", "BTC3L"), IsUnsupportedAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(errors.New("plain")))
		})
	}
}

func TestErrorKindHelpers_Wrapped(t *testing.T) {
	err := fmt.Errorf("query trades: %w", NewRemoteError("kucoin", 429, "rate limited"))
	assert.True(t, IsRemoteError(err))
	assert.False(t, IsDecodeError(err))
}

func TestIsAssetError(t *testing.T) {
	assert.True(t, IsAssetError(NewUnknownAssetError("kucoin", "AAA")))
	assert.True(t, IsAssetError(NewUnsupportedAssetError("kucoin", "BBB")))
	assert.False(t, IsAssetError(NewRemoteError("kucoin", 500, "boom")))
}

func TestUnknownAssetError_Symbol(t *testing.T) {
	err := NewUnknownAssetError("kucoin", "UNEXISTINGSYMBOL")

	var ce *ConnectorError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "UNEXISTINGSYMBOL", ce.Symbol)
}
