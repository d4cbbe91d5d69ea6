package core

import (
	"resty.dev/v3"
)

// Protocol defines the venue-specific wire layer: request building per case
// and request signing. Parsing of the returned envelopes stays with the
// connector since pagination shape is part of its query loop.
type Protocol interface {
	// Name returns the venue identifier (e.g. "kucoin").
	Name() string

	// BaseURL returns the API base URL for the given environment.
	// Sandbox mode returns the test environment URL when available.
	BaseURL(sandbox bool) string

	// BuildRequest constructs an HTTP request for the specified case.
	// The params map contains case-specific query parameters.
	BuildRequest(c Case, params Params) (*Request, error)

	// SignRequest adds authentication headers and signature to the request.
	SignRequest(req *resty.Request, method, path string, creds Credentials) error
}
