// Package kucoin implements the Connector interface for the KuCoin
// cryptocurrency exchange. It queries the signed REST API under rate
// limits and normalizes balances, trades, deposits and withdrawals into
// the canonical domain model.
//
// KuCoin API Documentation: https://docs.kucoin.com
package kucoin
