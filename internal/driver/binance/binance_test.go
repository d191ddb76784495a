package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binrec/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewClient(config.Binance{
		Key:          "test-key",
		Secret:       "test-secret",
		BaseURL:      srv.URL,
		RequestDelay: time.Millisecond,
	}, logrus.NewEntry(log))
}

func TestExchangeInfo(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/exchangeInfo", r.URL.Path)
		_, _ = w.Write([]byte(`{"symbols":[
			{"symbol":"CMTETH","baseAsset":"CMT","quoteAsset":"ETH","baseAssetPrecision":8,"quotePrecision":8},
			{"symbol":"BTCUSDT","baseAsset":"BTC","quoteAsset":"USDT","baseAssetPrecision":8,"quotePrecision":8}
		]}`))
	}))

	symbols, err := client.ExchangeInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "CMT", symbols[0].BaseAsset)
	assert.Equal(t, "USDT", symbols[1].QuoteAsset)
}

func TestMyTradesSignsRequest(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/myTrades", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))

		query := r.URL.Query()
		assert.Equal(t, "CMTETH", query.Get("symbol"))
		assert.Equal(t, "123", query.Get("orderId"))
		require.NotEmpty(t, query.Get("timestamp"))

		// signature covers every parameter except itself
		signature := query.Get("signature")
		query.Del("signature")
		mac := hmac.New(sha256.New, []byte("test-secret"))
		mac.Write([]byte(query.Encode()))
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), signature)

		_, _ = w.Write([]byte(`[
			{"symbol":"CMTETH","id":1,"price":"0.00050117","qty":"380.0","commission":"0.001","commissionAsset":"ETH","time":1526923514000}
		]`))
	}))

	fills, err := client.MyTrades(context.Background(), "CMTETH", "123")
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "0.001", fills[0].Commission)
	assert.Equal(t, "ETH", fills[0].CommissionAsset)
	assert.Equal(t, int64(1526923514000), fills[0].Time)
}

func TestMyTradesAPIError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-2013,"msg":"Order does not exist."}`))
	}))

	_, err := client.MyTrades(context.Background(), "CMTETH", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Order does not exist")
}

func TestPostCallDelay(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbols":[]}`))
	}))
	client.limiter.SetLimit(20) // 50ms refill for the test

	start := time.Now()
	_, err := client.ExchangeInfo(context.Background())
	require.NoError(t, err)
	_, err = client.ExchangeInfo(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestQueryEncodingStable(t *testing.T) {
	// url.Values.Encode sorts keys, so the signed string matches what is sent
	v := url.Values{}
	v.Set("timestamp", "1")
	v.Set("symbol", "CMTETH")
	v.Set("orderId", "123")
	assert.Equal(t, "orderId=123&symbol=CMTETH&timestamp=1", v.Encode())
}
