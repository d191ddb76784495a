package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"binrec/config"
)

// Client talks to the Binance spot REST API. Every request is followed by
// a fixed delay so a sequential caller cannot exceed the request budget.
type Client struct {
	baseURL string
	key     string
	secret  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Entry
}

func NewClient(cfg config.Binance, log *logrus.Entry) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		key:     cfg.Key,
		secret:  cfg.Secret,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		log:     log,
	}
}

type SymbolInfo struct {
	Symbol             string `json:"symbol"`
	BaseAsset          string `json:"baseAsset"`
	QuoteAsset         string `json:"quoteAsset"`
	BaseAssetPrecision int    `json:"baseAssetPrecision"`
	QuotePrecision     int    `json:"quotePrecision"`
}

type Fill struct {
	Symbol          string `json:"symbol"`
	ID              int64  `json:"id"`
	Price           string `json:"price"`
	Qty             string `json:"qty"`
	Commission      string `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	Time            int64  `json:"time"`
}

// ExchangeInfo fetches the full set of tradable symbols. Called once per
// run; a failure here is fatal upstream.
func (c *Client) ExchangeInfo(ctx context.Context) ([]SymbolInfo, error) {
	body, err := c.get(ctx, "/api/v3/exchangeInfo", nil, false)
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	var payload struct {
		Symbols []SymbolInfo `json:"symbols"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode exchange info: %w", err)
	}
	return payload.Symbols, nil
}

// MyTrades fetches all fills of one order via the signed account endpoint.
func (c *Client) MyTrades(ctx context.Context, symbol, orderID string) ([]Fill, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", orderID)

	body, err := c.get(ctx, "/api/v3/myTrades", params, true)
	if err != nil {
		return nil, fmt.Errorf("my trades: %w", err)
	}

	var fills []Fill
	if err := json.Unmarshal(body, &fills); err != nil {
		return nil, fmt.Errorf("decode fills: %w", err)
	}
	return fills, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, signed bool) ([]byte, error) {
	// The delay applies regardless of how the request went.
	defer func() {
		_ = c.limiter.Wait(ctx)
	}()

	if params == nil {
		params = url.Values{}
	}
	if signed {
		params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
		params.Set("signature", c.sign(params.Encode()))
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.key)
	}

	c.log.WithField("path", path).Debug("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Code int64  `json:"code"`
			Msg  string `json:"msg"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			return nil, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, apiErr.Msg)
		}
		return nil, fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}

	return body, nil
}

func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}
