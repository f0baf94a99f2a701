package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tickboard/internal/market"
)

// QuoteFetcher assembles the full row set for a symbol list from the market
// API. It holds no state beyond the client and is safe for concurrent use.
type QuoteFetcher struct {
	api *market.Client
}

// NewQuoteFetcher creates a QuoteFetcher backed by the given API client.
func NewQuoteFetcher(api *market.Client) *QuoteFetcher {
	return &QuoteFetcher{api: api}
}

// FetchAll fetches a QuoteRow for every symbol in the list. All per-symbol
// request pairs are issued before any is awaited; the result keeps the input
// order regardless of completion order. The whole batch fails on the first
// request error and no partial row list is returned.
func (f *QuoteFetcher) FetchAll(ctx context.Context, symbols []string, token string) ([]QuoteRow, error) {
	rows := make([]QuoteRow, len(symbols))
	errs := make([]error, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			rows[i], errs[i] = f.fetchOne(ctx, sym, token)
		}(i, sym)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// fetchOne issues the quote and profile lookups for a single symbol
// concurrently and builds the row with defaulting: name falls back to the
// symbol, timestamp falls back to now, price/change fields to zero.
func (f *QuoteFetcher) fetchOne(ctx context.Context, symbol, token string) (QuoteRow, error) {
	var (
		quote      *market.Quote
		profile    *market.Profile
		qErr, pErr error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		quote, qErr = f.api.GetQuote(ctx, symbol, token)
	}()
	go func() {
		defer wg.Done()
		profile, pErr = f.api.GetProfile(ctx, symbol, token)
	}()
	wg.Wait()

	// When both requests fail, report both statuses.
	if qErr != nil && pErr != nil {
		return QuoteRow{}, fmt.Errorf("%w; %v", qErr, pErr)
	}
	if qErr != nil {
		return QuoteRow{}, qErr
	}
	if pErr != nil {
		return QuoteRow{}, pErr
	}

	row := QuoteRow{
		Symbol:        symbol,
		Name:          profile.Name,
		Price:         quote.Current,
		ChangePercent: quote.ChangePercent,
		Change:        quote.Change,
		Timestamp:     quote.Timestamp,
	}
	if row.Name == "" {
		row.Name = symbol
	}
	if row.Timestamp == 0 {
		row.Timestamp = time.Now().Unix()
	}
	return row, nil
}
