package entity

import (
	"regexp"
	"strings"
)

type Status string

const (
	StatusFilled          Status = "FILLED"
	StatusPartiallyFilled Status = "PARTIALLY_FILLED"
	StatusCanceled        Status = "CANCELED"
	StatusUnknown         Status = "UNKNOWN_STATUS"
)

// Executed reports whether the order reached a state that produced fills.
func (s Status) Executed() bool {
	return s == StatusFilled || s == StatusPartiallyFilled
}

// Recognized reports whether the status is one the exchange export is known
// to emit. Anything else gets a diagnostic before being skipped.
func (s Status) Recognized() bool {
	switch s {
	case StatusFilled, StatusPartiallyFilled, StatusCanceled, StatusUnknown:
		return true
	}
	return false
}

// OrderRecord is one row of the primary order export. All values stay raw
// strings until the engine derives the output record.
type OrderRecord struct {
	DateUTC      string
	OrderNo      string
	Pair         string
	Type         string
	Side         string
	OrderAmount  string
	OrderPrice   string
	Executed     string
	AveragePrice string
	Status       Status
}

func OrderFromRow(row map[string]string) OrderRecord {
	return OrderRecord{
		DateUTC:      row["date_utc"],
		OrderNo:      row["orderno"],
		Pair:         row["pair"],
		Type:         row["type"],
		Side:         row["side"],
		OrderAmount:  row["order_amount"],
		OrderPrice:   row["order_price"],
		Executed:     row["executed"],
		AveragePrice: row["average_price"],
		Status:       Status(row["status"]),
	}
}

var numericPrefix = regexp.MustCompile(`^[0-9][0-9,]*(?:\.[0-9]+)?`)

// CleanAmount strips thousands separators and the trailing asset-code
// suffix the export appends to executed amounts ("380.0000000000CMT").
func CleanAmount(raw string) string {
	m := numericPrefix.FindString(strings.TrimSpace(raw))
	return strings.ReplaceAll(m, ",", "")
}

// CleanPrice strips thousands separators from a price string.
func CleanPrice(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
}
