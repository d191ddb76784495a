package entity

// OutputHeader is the fixed column order of the processed file. The
// downstream importer reads these names verbatim.
var OutputHeader = []string{
	"date_utc",
	"fill_date_utc",
	"description",
	"order_id",
	"base_asset",
	"quote_asset",
	"amount",
	"price",
	"comm0_amount",
	"comm0_asset",
	"comm1_amount",
	"comm1_asset",
}

// OutputRecord is one enriched, persisted row. Never mutated after
// creation within a run.
type OutputRecord struct {
	DateUTC     string
	FillDateUTC string
	Description string
	OrderID     string
	BaseAsset   string
	QuoteAsset  string
	Amount      string
	Price       string
	Comm0Amount string
	Comm0Asset  string
	Comm1Amount string
	Comm1Asset  string
}

func (r OutputRecord) Row() map[string]string {
	return map[string]string{
		"date_utc":      r.DateUTC,
		"fill_date_utc": r.FillDateUTC,
		"description":   r.Description,
		"order_id":      r.OrderID,
		"base_asset":    r.BaseAsset,
		"quote_asset":   r.QuoteAsset,
		"amount":        r.Amount,
		"price":         r.Price,
		"comm0_amount":  r.Comm0Amount,
		"comm0_asset":   r.Comm0Asset,
		"comm1_amount":  r.Comm1Amount,
		"comm1_asset":   r.Comm1Asset,
	}
}

func OutputFromRow(row map[string]string) OutputRecord {
	return OutputRecord{
		DateUTC:     row["date_utc"],
		FillDateUTC: row["fill_date_utc"],
		Description: row["description"],
		OrderID:     row["order_id"],
		BaseAsset:   row["base_asset"],
		QuoteAsset:  row["quote_asset"],
		Amount:      row["amount"],
		Price:       row["price"],
		Comm0Amount: row["comm0_amount"],
		Comm0Asset:  row["comm0_asset"],
		Comm1Amount: row["comm1_amount"],
		Comm1Asset:  row["comm1_asset"],
	}
}
