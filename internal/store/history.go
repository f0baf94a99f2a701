package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"tickboard/internal/board"
)

// Compile-time interface check.
var _ board.HistoryRecorder = (*ParquetStore)(nil)

// ParquetStore records the row set of each refresh cycle to Parquet files on
// disk, one file per symbol per day.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// QuoteRecord is the Parquet schema for recorded quote rows.
type QuoteRecord struct {
	Symbol        string  `parquet:"symbol"`
	Timestamp     int64   `parquet:"timestamp"` // epoch seconds
	Name          string  `parquet:"name"`
	Price         float64 `parquet:"price"`
	Change        float64 `parquet:"change"`
	ChangePercent float64 `parquet:"change_percent"`
}

// WriteQuotes appends rows to history files grouped by symbol and date,
// merging with any existing records. Duplicate (symbol, timestamp) pairs are
// deduplicated, preferring the incoming record.
func (s *ParquetStore) WriteQuotes(_ context.Context, rows []board.QuoteRow) error {
	if len(rows) == 0 {
		return nil
	}

	type key struct {
		symbol string
		date   string // YYYY-MM-DD
	}
	groups := make(map[key][]QuoteRecord)
	for _, r := range rows {
		date := time.Unix(r.Timestamp, 0).UTC().Format("2006-01-02")
		k := key{symbol: r.Symbol, date: date}
		groups[k] = append(groups[k], QuoteRecord{
			Symbol:        r.Symbol,
			Timestamp:     r.Timestamp,
			Name:          r.Name,
			Price:         r.Price,
			Change:        r.Change,
			ChangePercent: r.ChangePercent,
		})
	}

	for k, records := range groups {
		path := s.quotePath(k.symbol, k.date)

		existing, _ := readParquetFile[QuoteRecord](path)
		merged := mergeQuoteRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing history for %s/%s: %w", k.symbol, k.date, err)
		}
	}
	return nil
}

// ReadQuotes reads recorded rows for a symbol within [start, end].
func (s *ParquetStore) ReadQuotes(_ context.Context, symbol string, start, end time.Time) ([]board.QuoteRow, error) {
	var rows []board.QuoteRow
	for d := start.UTC().Truncate(24 * time.Hour); !d.After(end); d = d.AddDate(0, 0, 1) {
		path := s.quotePath(symbol, d.Format("2006-01-02"))
		records, err := readParquetFile[QuoteRecord](path)
		if err != nil {
			// No file for this day — skip.
			continue
		}
		for _, r := range records {
			ts := time.Unix(r.Timestamp, 0)
			if ts.Before(start) || ts.After(end) {
				continue
			}
			rows = append(rows, board.QuoteRow{
				Symbol:        r.Symbol,
				Timestamp:     r.Timestamp,
				Name:          r.Name,
				Price:         r.Price,
				Change:        r.Change,
				ChangePercent: r.ChangePercent,
			})
		}
	}
	return rows, nil
}

// quotePath returns the filesystem path for a history Parquet file.
// Layout: <DataDir>/quotes/<SYMBOL>/<YYYY-MM-DD>.parquet
func (s *ParquetStore) quotePath(symbol, date string) string {
	return filepath.Join(s.DataDir, "quotes", strings.ToUpper(symbol), date+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeQuoteRecords deduplicates records by (symbol, timestamp), preferring
// incoming records over existing ones. Results are sorted by timestamp.
func mergeQuoteRecords(existing, incoming []QuoteRecord) []QuoteRecord {
	type key struct {
		symbol string
		ts     int64
	}
	seen := make(map[key]QuoteRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Symbol, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Symbol, r.Timestamp}] = r
	}

	merged := make([]QuoteRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
