package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanAmount(t *testing.T) {
	assert.Equal(t, "380.0000000000", CleanAmount("380.0000000000CMT"))
	assert.Equal(t, "1234.56", CleanAmount("1,234.56USDT"))
	assert.Equal(t, "51.9600000000", CleanAmount("51.9600000000VIA"))
	assert.Equal(t, "5", CleanAmount("5BNB"))
	assert.Equal(t, "", CleanAmount("n/a"))
}

func TestCleanPrice(t *testing.T) {
	assert.Equal(t, "0.00050117", CleanPrice("0.00050117"))
	assert.Equal(t, "12345.67", CleanPrice("12,345.67"))
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusFilled.Executed())
	assert.True(t, StatusPartiallyFilled.Executed())
	assert.False(t, StatusCanceled.Executed())
	assert.False(t, StatusUnknown.Executed())
	assert.False(t, Status("EXPIRED").Executed())

	assert.True(t, StatusCanceled.Recognized())
	assert.True(t, StatusUnknown.Recognized())
	assert.False(t, Status("EXPIRED").Recognized())
}

func TestOrderFromRow(t *testing.T) {
	order := OrderFromRow(map[string]string{
		"date_utc":      "2018-05-22 17:25:14",
		"orderno":       "123",
		"pair":          "CMTETH",
		"type":          "Market",
		"side":          "SELL",
		"executed":      "380.0000000000CMT",
		"average_price": "0.00050117",
		"status":        "FILLED",
	})

	assert.Equal(t, "123", order.OrderNo)
	assert.Equal(t, "CMTETH", order.Pair)
	assert.Equal(t, StatusFilled, order.Status)
	assert.Equal(t, "380.0000000000CMT", order.Executed)
}
