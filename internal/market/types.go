package market

// Quote is the current-quote payload for one symbol. Field names follow the
// upstream wire contract: c = current price, d = absolute change, dp =
// percent change, t = quote timestamp in epoch seconds. Absent fields decode
// to zero values.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	Timestamp     int64   `json:"t"`
}

// Profile is the company-profile payload for one symbol. Only the display
// name is consumed here.
type Profile struct {
	Name string `json:"name"`
}

// EarningsEntry is one earnings-calendar report. Estimate and actual EPS are
// nullable upstream.
type EarningsEntry struct {
	Date        string   `json:"date"`
	EPSEstimate *float64 `json:"epsEstimate"`
	EPSActual   *float64 `json:"epsActual"`
}

// EarningsCalendar is the earnings-calendar response envelope.
type EarningsCalendar struct {
	Entries []EarningsEntry `json:"earningsCalendar"`
}
