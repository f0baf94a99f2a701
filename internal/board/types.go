// Package board implements the dashboard core: symbol parsing, quote and
// earnings fetching, view projection, and the refresh/selection lifecycle.
package board

// QuoteRow is one table row, keyed by symbol. The row set is fully replaced
// on each successful refresh cycle.
type QuoteRow struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	Change        float64 `json:"change"`
	Timestamp     int64   `json:"timestamp"` // epoch seconds
}

// EarningsPoint is one historical earnings report for the chart. EPSActual
// is nil when the report has not been filed yet.
type EarningsPoint struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	EPSEstimate float64  `json:"epsEstimate"`
	EPSActual   *float64 `json:"epsActual"`
}
