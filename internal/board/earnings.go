package board

import (
	"context"
	"sort"
	"time"

	"tickboard/internal/market"
)

// earningsWindowDays is the trailing window for the earnings chart.
const earningsWindowDays = 365

// EarningsFetcher loads the historical earnings series for one symbol.
type EarningsFetcher struct {
	api *market.Client
}

// NewEarningsFetcher creates an EarningsFetcher backed by the given API client.
func NewEarningsFetcher(api *market.Client) *EarningsFetcher {
	return &EarningsFetcher{api: api}
}

// FetchEarnings fetches the earnings calendar for the trailing window ending
// today (UTC, date-only) and returns the points sorted ascending by date.
// A calendar with zero entries yields a nil slice, meaning "no data" rather
// than an error.
func (f *EarningsFetcher) FetchEarnings(ctx context.Context, symbol, token string) ([]EarningsPoint, error) {
	now := time.Now().UTC()
	to := now.Format("2006-01-02")
	from := now.AddDate(0, 0, -earningsWindowDays).Format("2006-01-02")

	cal, err := f.api.GetEarnings(ctx, symbol, token, from, to)
	if err != nil {
		return nil, err
	}
	if len(cal.Entries) == 0 {
		return nil, nil
	}

	points := make([]EarningsPoint, 0, len(cal.Entries))
	for _, e := range cal.Entries {
		p := EarningsPoint{Date: e.Date, EPSActual: e.EPSActual}
		if e.EPSEstimate != nil {
			p.EPSEstimate = *e.EPSEstimate
		}
		points = append(points, p)
	}

	// Calendar dates are ISO strings, so lexicographic order is chronological.
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points, nil
}
