// Package alpaca provides a client for the Alpaca market data API
package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

const (
	DefaultDataURL    = "https://data.alpaca.markets"
	DefaultTradingURL = "https://paper-api.alpaca.markets"
	DefaultFeed       = "delayed_sip"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 3 // requests per second
)

// Client implements interfaces.QuoteClient against Alpaca's REST endpoints.
type Client struct {
	dataURL    string
	tradingURL string
	keyID      string
	secretKey  string
	feed       string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithDataURL sets the market data base URL
func WithDataURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.dataURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTradingURL sets the trading API base URL used for asset metadata
func WithTradingURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.tradingURL = strings.TrimRight(baseURL, "/")
	}
}

// WithFeed sets the equity data feed (iex, sip, delayed_sip)
func WithFeed(feed string) ClientOption {
	return func(c *Client) {
		if feed != "" {
			c.feed = feed
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpaca client
func NewClient(keyID, secretKey string, opts ...ClientOption) *Client {
	c := &Client{
		dataURL:    DefaultDataURL,
		tradingURL: DefaultTradingURL,
		keyID:      keyID,
		secretKey:  secretKey,
		feed:       DefaultFeed,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET request against baseURL+path
func (c *Client) get(ctx context.Context, baseURL, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &models.ProviderError{Endpoint: path, Message: "rate limit wait", Cause: err}
	}

	reqURL := baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &models.ProviderError{Endpoint: path, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("APCA-API-KEY-ID", c.keyID)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", baseURL+path).Msg("Alpaca API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.ProviderError{Endpoint: path, Message: "failed to execute request", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &models.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &models.ProviderError{StatusCode: resp.StatusCode, Endpoint: path, Message: "failed to decode response", Cause: err}
	}

	return nil
}

// Wire shapes. Every section is a pointer so absent sections decode to nil.

type barResponse struct {
	T  time.Time `json:"t"`
	O  float64   `json:"o"`
	H  float64   `json:"h"`
	L  float64   `json:"l"`
	C  float64   `json:"c"`
	V  float64   `json:"v"`
	N  float64   `json:"n"`
	VW float64   `json:"vw"`
}

func (b *barResponse) toModel() *models.Bar {
	if b == nil {
		return nil
	}
	return &models.Bar{Timestamp: b.T, Open: b.O, High: b.H, Low: b.L, Close: b.C, Volume: b.V}
}

type tradeResponse struct {
	T time.Time `json:"t"`
	P float64   `json:"p"`
	S float64   `json:"s"`
}

type snapshotResponse struct {
	LatestTrade  *tradeResponse `json:"latestTrade"`
	DailyBar     *barResponse   `json:"dailyBar"`
	PrevDailyBar *barResponse   `json:"prevDailyBar"`
}

func (s *snapshotResponse) toModel() *models.Snapshot {
	snap := &models.Snapshot{
		DailyBar:     s.DailyBar.toModel(),
		PrevDailyBar: s.PrevDailyBar.toModel(),
	}
	if s.LatestTrade != nil {
		snap.LatestTrade = &models.Trade{Price: s.LatestTrade.P, Timestamp: s.LatestTrade.T}
	}
	return snap
}

func convertSnapshots(raw map[string]*snapshotResponse) map[string]*models.Snapshot {
	out := make(map[string]*models.Snapshot, len(raw))
	for sym, s := range raw {
		if s == nil {
			continue
		}
		out[sym] = s.toModel()
	}
	return out
}

// FetchBatchSnapshots retrieves snapshots for equity symbols in one call
func (c *Client) FetchBatchSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error) {
	if len(symbols) == 0 {
		return map[string]*models.Snapshot{}, nil
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("feed", c.feed)

	var raw map[string]*snapshotResponse
	if err := c.get(ctx, c.dataURL, "/v2/stocks/snapshots", params, &raw); err != nil {
		return nil, err
	}
	return convertSnapshots(raw), nil
}

// FetchCryptoSnapshots retrieves snapshots for crypto pairs in one call
func (c *Client) FetchCryptoSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error) {
	if len(symbols) == 0 {
		return map[string]*models.Snapshot{}, nil
	}

	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))

	var resp struct {
		Snapshots map[string]*snapshotResponse `json:"snapshots"`
	}
	if err := c.get(ctx, c.dataURL, "/v1beta3/crypto/us/snapshots", params, &resp); err != nil {
		return nil, err
	}
	return convertSnapshots(resp.Snapshots), nil
}

const (
	// maxPageSize is the provider's largest accepted bars page
	maxPageSize = 10000
	// maxBarPages bounds pagination if the provider keeps returning tokens
	maxBarPages = 100
)

func barParams(timeframe models.Timeframe, start time.Time, pageSize int) url.Values {
	params := url.Values{}
	params.Set("timeframe", string(timeframe))
	if !start.IsZero() {
		params.Set("start", start.UTC().Format(time.RFC3339))
	}
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("sort", "asc")
	return params
}

// pageSize is the per-request limit for a caller wanting at most limit bars.
func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func convertBars(raw []barResponse) []models.Bar {
	bars := make([]models.Bar, 0, len(raw))
	for i := range raw {
		bars = append(bars, *raw[i].toModel())
	}
	return bars
}

type barsPage struct {
	Bars          json.RawMessage `json:"bars"`
	NextPageToken *string         `json:"next_page_token"`
}

// getBarPages follows next_page_token until the provider has no more pages
// or onPage reports it has enough. onPage receives the raw "bars" value.
func (c *Client) getBarPages(ctx context.Context, path string, params url.Values, onPage func(raw json.RawMessage) (bool, error)) error {
	for page := 0; page < maxBarPages; page++ {
		var resp barsPage
		if err := c.get(ctx, c.dataURL, path, params, &resp); err != nil {
			return err
		}
		if len(resp.Bars) > 0 {
			done, err := onPage(resp.Bars)
			if err != nil {
				return &models.ProviderError{Endpoint: path, Message: "failed to decode bars", Cause: err}
			}
			if done {
				return nil
			}
		}
		if resp.NextPageToken == nil || *resp.NextPageToken == "" {
			return nil
		}
		params.Set("page_token", *resp.NextPageToken)
	}
	c.logger.Warn().Str("endpoint", path).Int("pages", maxBarPages).Msg("Bar pagination stopped at page cap")
	return nil
}

// FetchBars retrieves ascending bars for an equity symbol, following
// pagination until limit bars are collected (limit <= 0 means all).
func (c *Client) FetchBars(ctx context.Context, symbol string, timeframe models.Timeframe, start time.Time, limit int) ([]models.Bar, error) {
	params := barParams(timeframe, start, pageSize(limit))
	params.Set("adjustment", "raw")
	params.Set("feed", c.feed)

	path := fmt.Sprintf("/v2/stocks/%s/bars", url.PathEscape(symbol))

	bars := []models.Bar{}
	err := c.getBarPages(ctx, path, params, func(raw json.RawMessage) (bool, error) {
		var page []barResponse
		if err := json.Unmarshal(raw, &page); err != nil {
			return false, err
		}
		bars = append(bars, convertBars(page)...)
		return limit > 0 && len(bars) >= limit, nil
	})
	if err != nil {
		if pe, ok := err.(*models.ProviderError); ok {
			pe.Symbol = symbol
		}
		return nil, err
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[:limit]
	}
	return bars, nil
}

// FetchCryptoBars retrieves ascending bars for one or more crypto pairs,
// following pagination. limit caps the bars kept per pair (limit <= 0 means
// all). Pairs with no bars are absent from the result.
func (c *Client) FetchCryptoBars(ctx context.Context, symbols []string, timeframe models.Timeframe, start time.Time, limit int) (map[string][]models.Bar, error) {
	if len(symbols) == 0 {
		return map[string][]models.Bar{}, nil
	}

	// The provider's page limit spans all pairs, so request full pages.
	params := barParams(timeframe, start, maxPageSize)
	params.Set("symbols", strings.Join(symbols, ","))

	out := make(map[string][]models.Bar)
	err := c.getBarPages(ctx, "/v1beta3/crypto/us/bars", params, func(raw json.RawMessage) (bool, error) {
		var page map[string][]barResponse
		if err := json.Unmarshal(raw, &page); err != nil {
			return false, err
		}
		for sym, rows := range page {
			if len(rows) == 0 {
				continue
			}
			out[sym] = append(out[sym], convertBars(rows)...)
		}
		if limit <= 0 {
			return false, nil
		}
		for _, sym := range symbols {
			if len(out[sym]) < limit {
				return false, nil
			}
		}
		return true, nil
	})
	if err != nil {
		if pe, ok := err.(*models.ProviderError); ok && len(symbols) == 1 {
			pe.Symbol = symbols[0]
		}
		return nil, err
	}

	if limit > 0 {
		for sym, bars := range out {
			if len(bars) > limit {
				out[sym] = bars[:limit]
			}
		}
	}
	return out, nil
}

type screenerResponse struct {
	Symbol        string  `json:"symbol"`
	Volume        float64 `json:"volume"`
	TradeCount    float64 `json:"trade_count"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

func convertScreener(raw []screenerResponse) []models.ScreenerEntry {
	out := make([]models.ScreenerEntry, 0, len(raw))
	for _, r := range raw {
		if r.Symbol == "" {
			continue
		}
		out = append(out, models.ScreenerEntry(r))
	}
	return out
}

// FetchMostActives retrieves the most active equities ranked by volume
func (c *Client) FetchMostActives(ctx context.Context, top int) ([]models.ScreenerEntry, error) {
	params := url.Values{}
	params.Set("by", "volume")
	params.Set("top", strconv.Itoa(top))

	var resp struct {
		MostActives []screenerResponse `json:"most_actives"`
	}
	if err := c.get(ctx, c.dataURL, "/v1beta1/screener/stocks/most-actives", params, &resp); err != nil {
		return nil, err
	}
	return convertScreener(resp.MostActives), nil
}

// FetchMovers retrieves the top gainers and losers
func (c *Client) FetchMovers(ctx context.Context, top int) ([]models.ScreenerEntry, []models.ScreenerEntry, error) {
	params := url.Values{}
	params.Set("top", strconv.Itoa(top))

	var resp struct {
		Gainers []screenerResponse `json:"gainers"`
		Losers  []screenerResponse `json:"losers"`
	}
	if err := c.get(ctx, c.dataURL, "/v1beta1/screener/stocks/movers", params, &resp); err != nil {
		return nil, nil, err
	}
	return convertScreener(resp.Gainers), convertScreener(resp.Losers), nil
}

// FetchAsset retrieves asset metadata from the trading API
func (c *Client) FetchAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	path := fmt.Sprintf("/v2/assets/%s", url.PathEscape(symbol))

	var resp struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Exchange string `json:"exchange"`
		Class    string `json:"class"`
	}
	if err := c.get(ctx, c.tradingURL, path, nil, &resp); err != nil {
		if pe, ok := err.(*models.ProviderError); ok {
			pe.Symbol = symbol
		}
		return nil, err
	}

	name := resp.Name
	if name == "" {
		name = symbol
	}
	return &models.Asset{Symbol: symbol, Name: name, Exchange: resp.Exchange, Class: resp.Class}, nil
}

// Compile-time check
var _ interfaces.QuoteClient = (*Client)(nil)
