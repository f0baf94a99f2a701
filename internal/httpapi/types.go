package httpapi

import "tickboard/internal/board"

// QuotesResponse is the projected table view for one request.
type QuotesResponse struct {
	Rows   []board.QuoteRow `json:"rows"`
	Search string           `json:"search"`
	Sort   board.SortKey    `json:"sort"`
	Dir    board.SortDir    `json:"dir"`
}

// SettingsRequest updates one or both persisted settings. Nil fields are
// left unchanged.
type SettingsRequest struct {
	Credential *string `json:"credential"`
	Symbols    *string `json:"symbols"`
}

// AutoRefreshRequest toggles the recurring refresh timer.
type AutoRefreshRequest struct {
	Enabled bool `json:"enabled"`
}

// EarningsResponse is the chart data for the current selection. Points is
// null when there is no selection or no data.
type EarningsResponse struct {
	Symbol string                `json:"symbol"`
	Points []board.EarningsPoint `json:"points"`
}

// HistoryResponse is the recorded quote history for one symbol.
type HistoryResponse struct {
	Symbol string           `json:"symbol"`
	Rows   []board.QuoteRow `json:"rows"`
}
