package kucoin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"nakula/internal/circuitbreaker"
	httpclient "nakula/internal/http"
	"nakula/internal/ratelimit"
	"nakula/pkg/core"
	"nakula/pkg/exchange"
	"nakula/pkg/pricing"
)

const venueName = "kucoin"

// Kucoin implements exchange.Connector for the KuCoin spot REST API. It
// pages through the venue's endpoints under a client-side rate limit,
// retries too-many-requests responses with a fixed backoff, and hands raw
// records to the normalizer.
type Kucoin struct {
	config         *core.Config
	httpClient     *httpclient.Client
	rateLimiter    *ratelimit.Limiter
	circuitBreaker *circuitbreaker.Breaker
	protocol       *Protocol
	normalizer     *Normalizer
	oracle         core.PriceOracle
	sink           core.MessageSink
	logger         zerolog.Logger
}

// Option is a functional option for configuring the connector.
type Option func(*Options)

// Options holds configuration options for the connector.
type Options struct {
	Logger   zerolog.Logger
	Resolver core.AssetResolver
	Oracle   core.PriceOracle
	Sink     core.MessageSink
	BaseURL  string
}

// WithLogger returns an option that sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithResolver returns an option that replaces the bundled asset resolver,
// e.g. with one backed by a full asset database.
func WithResolver(r core.AssetResolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// WithOracle returns an option that sets the USD price oracle.
func WithOracle(p core.PriceOracle) Option {
	return func(o *Options) {
		o.Oracle = p
	}
}

// WithSink returns an option that sets the warning/error message sink.
func WithSink(s core.MessageSink) Option {
	return func(o *Options) {
		o.Sink = s
	}
}

// WithBaseURL returns an option that overrides the REST base URL. Intended
// for tests pointing the connector at a local server.
func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.BaseURL = u
	}
}

// New creates a Kucoin connector with the given configuration and options.
// It initializes the HTTP client, rate limiter, and circuit breaker based
// on the config; credentials may be absent until a query needs signing.
func New(config *core.Config, opts ...Option) (*Kucoin, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Resolver == nil {
		options.Resolver = NewResolver()
	}
	if options.Oracle == nil {
		options.Oracle = pricing.NewStatic(nil)
	}
	if options.Sink == nil {
		options.Sink = core.NopSink{}
	}

	protocol := NewProtocol()
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = protocol.BaseURL(config.Sandbox)
	}

	httpClient, err := httpclient.NewClient(&httpclient.Config{
		BaseURL: baseURL,
		Timeout: config.Timeout,
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	var cb *circuitbreaker.Breaker
	if config.CircuitBreakerEnabled {
		cb = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	return &Kucoin{
		config:         config,
		httpClient:     httpClient,
		rateLimiter:    ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod),
		circuitBreaker: cb,
		protocol:       protocol,
		normalizer:     NewNormalizer(options.Resolver),
		oracle:         options.Oracle,
		sink:           options.Sink,
		logger:         options.Logger.With().Str("venue", venueName).Logger(),
	}, nil
}

// Register creates a connector and registers it in the container under its
// venue name.
func Register(container *exchange.Container, config *core.Config, opts ...Option) (*Kucoin, error) {
	k, err := New(config, opts...)
	if err != nil {
		return nil, err
	}
	container.Register(k.Name(), k)
	return k, nil
}

// Name returns the venue identifier "kucoin".
func (k *Kucoin) Name() string {
	return venueName
}

// Close releases resources used by the connector.
func (k *Kucoin) Close() error {
	if k.httpClient != nil {
		return k.httpClient.Close()
	}
	return nil
}

// apiQuery issues one signed request for the given case, waiting on the
// case's rate-limit bucket before every attempt. Too-many-requests
// responses are retried RetryAttempts times with a fixed RetryDelay sleep;
// when retries run out, the failure is reported through the message sink
// and the last response is returned with a nil error so the caller's page
// loop decides termination. Network failures are remote errors.
func (k *Kucoin) apiQuery(ctx context.Context, c core.Case, params core.Params) (*resty.Response, error) {
	req, err := k.protocol.BuildRequest(c, params)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	for key, value := range req.Query {
		values.Set(key, fmt.Sprint(value))
	}
	encoded := values.Encode()
	// The signature covers the request URI including the query string, so
	// the signed endpoint and the dispatched query must encode identically.
	endpoint := req.Path
	if encoded != "" {
		endpoint += "?" + encoded
	}

	retriesLeft := k.config.RetryAttempts
	for {
		if err := k.rateLimiter.WaitBucket(ctx, c.String()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		if k.circuitBreaker != nil && !k.circuitBreaker.Allow() {
			return nil, core.NewRemoteError(venueName, 0, "circuit breaker open")
		}

		restyReq := k.httpClient.Request().SetContext(ctx)
		restyReq.SetQueryString(encoded)
		for key, value := range req.Headers {
			restyReq.SetHeader(key, value)
		}
		if req.RequireAuth {
			if k.config.Credentials == nil {
				return nil, core.ErrNoCredentials
			}
			if err := k.protocol.SignRequest(restyReq, req.Method, endpoint, *k.config.Credentials); err != nil {
				return nil, fmt.Errorf("sign request: %w", err)
			}
		}

		resp, err := restyReq.Execute(req.Method, req.Path)
		if k.circuitBreaker != nil {
			k.circuitBreaker.Record(err == nil && (resp == nil || resp.StatusCode() < http.StatusInternalServerError))
		}
		if err != nil {
			return nil, core.NewRemoteError(venueName, 0, fmt.Sprintf("%s query failed: %s", c, err))
		}

		if resp.StatusCode() != http.StatusTooManyRequests {
			return resp, nil
		}

		if retriesLeft <= 0 {
			k.sink.Error(fmt.Sprintf(
				"Got remote error while querying kucoin %s: kucoin %s request failed after retrying %d times",
				c, c, k.config.RetryAttempts,
			))
			return resp, nil
		}
		retriesLeft--

		k.logger.Debug().
			Str("case", c.String()).
			Int("retries_left", retriesLeft).
			Dur("delay", k.config.RetryDelay).
			Msg("rate limited, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(k.config.RetryDelay):
		}
	}
}

// decodePage decodes a paginated response envelope, checking the HTTP
// status and the venue's embedded result code.
func decodePage[T any](resp *resty.Response, c core.Case) (*page[T], error) {
	if resp.StatusCode() != http.StatusOK {
		return nil, core.NewRemoteError(venueName, resp.StatusCode(), fmt.Sprintf(
			"%s query responded with error status code and body: %s", c, resp.String(),
		))
	}
	var env pageEnvelope[T]
	if err := sonic.Unmarshal(resp.Bytes(), &env); err != nil {
		return nil, core.NewDecodeError(venueName, fmt.Sprintf("invalid %s response: %s", c, err))
	}
	if env.Code != codeOK {
		return nil, core.NewRemoteError(venueName, resp.StatusCode(), fmt.Sprintf(
			"%s query returned error code %s: %s", c, env.Code, env.Msg,
		))
	}
	return &env.Data, nil
}

// decodeList decodes a non-paginated list response envelope.
func decodeList[T any](resp *resty.Response, c core.Case) ([]T, error) {
	if resp.StatusCode() != http.StatusOK {
		return nil, core.NewRemoteError(venueName, resp.StatusCode(), fmt.Sprintf(
			"%s query responded with error status code and body: %s", c, resp.String(),
		))
	}
	var env listEnvelope[T]
	if err := sonic.Unmarshal(resp.Bytes(), &env); err != nil {
		return nil, core.NewDecodeError(venueName, fmt.Sprintf("invalid %s response: %s", c, err))
	}
	if env.Code != codeOK {
		return nil, core.NewRemoteError(venueName, resp.StatusCode(), fmt.Sprintf(
			"%s query returned error code %s: %s", c, env.Code, env.Msg,
		))
	}
	return env.Data, nil
}

// queryPaginated walks a paged endpoint from the first page until
// currentPage reaches totalPage, concatenating items in server order.
// An exhausted-retry response terminates the walk and discards any pages
// already gathered; the failure was already reported through the sink.
func queryPaginated[T any](ctx context.Context, k *Kucoin, c core.Case, params core.Params) ([]T, error) {
	var items []T
	currentPage := 1
	for {
		pageParams := core.Params{"currentPage": currentPage}
		for key, value := range params {
			pageParams[key] = value
		}

		resp, err := k.apiQuery(ctx, c, pageParams)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, nil
		}

		pg, err := decodePage[T](resp, c)
		if err != nil {
			return nil, err
		}

		items = append(items, pg.Items...)
		if pg.CurrentPage >= pg.TotalPage {
			return items, nil
		}
		currentPage = pg.CurrentPage + 1
	}
}

// QueryBalances fetches every account purse and aggregates one balance per
// canonical asset, valued in USD at query time. Assets without a price are
// reported with the PriceUnknown sentinel rather than dropped. The second
// return value is a warning message, non-empty only when some purse
// entries were dropped.
func (k *Kucoin) QueryBalances(ctx context.Context) (map[core.Asset]core.Balance, string, error) {
	resp, err := k.apiQuery(ctx, core.CaseBalances, nil)
	if err != nil {
		return nil, "", err
	}
	accounts, err := decodeList[rawAccount](resp, core.CaseBalances)
	if err != nil {
		return nil, "", err
	}

	totals, dropped := k.normalizer.ResolveAccounts(accounts, k.sink)

	balances := make(map[core.Asset]core.Balance, len(totals))
	for asset, total := range totals {
		balance := core.Balance{Amount: *total}
		price, err := k.oracle.USDPrice(ctx, asset)
		if err != nil {
			balance.PriceUnknown = true
		} else {
			_, _ = decCtx.Mul(&balance.UsdValue, total, &price)
		}
		balances[asset] = balance
	}

	msg := ""
	if len(dropped) > 0 {
		msg = fmt.Sprintf("Failed to read some kucoin balances. Ignored symbols: %s", strings.Join(dropped, ", "))
	}
	return balances, msg, nil
}

// QueryTradeHistory returns the trades executed inside the inclusive
// [start, end] unix-second window, in the order the venue returned them.
// Records outside the window are skipped; a trade with an unresolvable
// asset is a hard failure.
func (k *Kucoin) QueryTradeHistory(ctx context.Context, start, end core.Timestamp) ([]core.Trade, error) {
	params := core.Params{
		"startAt": int64(start) * 1000,
		"endAt":   int64(end) * 1000,
	}
	raws, err := queryPaginated[rawFill](ctx, k, core.CaseTrades, params)
	if err != nil {
		return nil, err
	}

	trades := make([]core.Trade, 0, len(raws))
	for i := range raws {
		trade, reason, err := k.normalizer.DeserializeTrade(&raws[i], start, end)
		if err != nil {
			return nil, err
		}
		if reason != core.SkipNone {
			k.logger.Debug().
				Str("reason", reason.String()).
				Str("trade_id", raws[i].TradeID).
				Msg("skipped trade record")
			continue
		}
		trades = append(trades, *trade)
	}
	return trades, nil
}

// QueryDepositsWithdrawals returns the deposits and withdrawals created
// inside the inclusive [start, end] unix-second window, deposits first.
// Intra-venue transfers and out-of-window records are skipped.
func (k *Kucoin) QueryDepositsWithdrawals(ctx context.Context, start, end core.Timestamp) ([]core.AssetMovement, error) {
	params := core.Params{
		"startAt": int64(start) * 1000,
		"endAt":   int64(end) * 1000,
	}

	var movements []core.AssetMovement
	for _, c := range []core.Case{core.CaseDeposits, core.CaseWithdrawals} {
		category := core.MovementDeposit
		if c == core.CaseWithdrawals {
			category = core.MovementWithdrawal
		}

		raws, err := queryPaginated[rawMovement](ctx, k, c, params)
		if err != nil {
			return nil, err
		}
		for i := range raws {
			movement, reason, err := k.normalizer.DeserializeMovement(&raws[i], category, start, end)
			if err != nil {
				return nil, err
			}
			if reason != core.SkipNone {
				k.logger.Debug().
					Str("reason", reason.String()).
					Str("wallet_tx_id", raws[i].WalletTxID).
					Msg("skipped movement record")
				continue
			}
			movements = append(movements, *movement)
		}
	}
	return movements, nil
}

// ValidateAPIKey verifies the configured credentials by issuing a balances
// query. Authentication failures come back as a typed error.
func (k *Kucoin) ValidateAPIKey(ctx context.Context) error {
	resp, err := k.apiQuery(ctx, core.CaseBalances, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return &core.ConnectorError{
			Type:       core.ErrorTypeAuthentication,
			StatusCode: resp.StatusCode(),
			Venue:      venueName,
			Message:    "invalid API credentials",
		}
	}
	if _, err := decodeList[rawAccount](resp, core.CaseBalances); err != nil {
		return err
	}
	return nil
}
