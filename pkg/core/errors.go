package core

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a connector error.
type ErrorType int

// Error type constants categorize errors for proper handling upstream.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRemote indicates a venue-side failure: network errors,
	// non-2xx status codes, or exhausted retries.
	ErrorTypeRemote
	// ErrorTypeDecode indicates the venue returned a malformed body.
	ErrorTypeDecode
	// ErrorTypeRateLimit indicates the venue rejected the request with
	// a too-many-requests status.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates invalid or expired credentials.
	ErrorTypeAuthentication
	// ErrorTypeUnknownAsset indicates a venue symbol absent from the
	// asset database.
	ErrorTypeUnknownAsset
	// ErrorTypeUnsupportedAsset indicates a venue symbol that is known
	// but deliberately excluded (e.g. a leveraged token).
	ErrorTypeUnsupportedAsset
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"REMOTE",
		"DECODE",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"UNKNOWN_ASSET",
		"UNSUPPORTED_ASSET",
	}[t]
}

// Sentinel errors for common conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed connector.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when no API credentials are configured.
	ErrNoCredentials = errors.New("no credentials configured")
)

// ConnectorError is a structured error raised while querying a venue.
type ConnectorError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code, when one was received.
	StatusCode int `json:"status_code,omitempty"`
	// Venue identifies which venue produced this error.
	Venue string `json:"venue"`
	// Symbol is the offending venue symbol for asset errors.
	Symbol string `json:"symbol,omitempty"`
	// Message is the human-readable error description.
	Message string `json:"message"`
}

// Error implements the error interface for ConnectorError.
func (e *ConnectorError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] %s (%d): %s", e.Venue, e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Venue, e.Type, e.Message)
}

// NewRemoteError creates a ConnectorError of the remote kind.
func NewRemoteError(venue string, statusCode int, message string) *ConnectorError {
	return &ConnectorError{
		Type:       ErrorTypeRemote,
		StatusCode: statusCode,
		Venue:      venue,
		Message:    message,
	}
}

// NewDecodeError creates a ConnectorError for a malformed response body.
func NewDecodeError(venue string, message string) *ConnectorError {
	return &ConnectorError{
		Type:    ErrorTypeDecode,
		Venue:   venue,
		Message: message,
	}
}

// NewUnknownAssetError creates a ConnectorError for a symbol absent from
// the asset database.
func NewUnknownAssetError(venue, symbol string) *ConnectorError {
	return &ConnectorError{
		Type:    ErrorTypeUnknownAsset,
		Venue:   venue,
		Symbol:  symbol,
		Message: fmt.Sprintf("unknown asset %s", symbol),
	}
}

// NewUnsupportedAssetError creates a ConnectorError for a deliberately
// excluded symbol.
func NewUnsupportedAssetError(venue, symbol string) *ConnectorError {
	return &ConnectorError{
		Type:    ErrorTypeUnsupportedAsset,
		Venue:   venue,
		Symbol:  symbol,
		Message: fmt.Sprintf("unsupported asset %s", symbol),
	}
}

func isErrorType(err error, t ErrorType) bool {
	var ce *ConnectorError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}

// IsRemoteError returns true if the error is a venue-side failure.
func IsRemoteError(err error) bool {
	return isErrorType(err, ErrorTypeRemote)
}

// IsDecodeError returns true if the error is a malformed-body failure.
func IsDecodeError(err error) bool {
	return isErrorType(err, ErrorTypeDecode)
}

// IsUnknownAsset returns true if the error marks a symbol absent from the
// asset database.
func IsUnknownAsset(err error) bool {
	return isErrorType(err, ErrorTypeUnknownAsset)
}

// IsUnsupportedAsset returns true if the error marks a deliberately
// excluded symbol.
func IsUnsupportedAsset(err error) bool {
	return isErrorType(err, ErrorTypeUnsupportedAsset)
}

// IsAssetError returns true for either kind of asset resolution failure.
func IsAssetError(err error) bool {
	return IsUnknownAsset(err) || IsUnsupportedAsset(err)
}
