package board

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names the QuoteRow field a projection sorts on.
type SortKey string

// Sortable QuoteRow fields.
const (
	SortSymbol        SortKey = "symbol"
	SortName          SortKey = "name"
	SortPrice         SortKey = "price"
	SortChangePercent SortKey = "changePercent"
	SortChange        SortKey = "change"
	SortTimestamp     SortKey = "timestamp"
)

// SortDir is the sort direction of a projection.
type SortDir string

// Sort directions.
const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ParseSortKey maps a query string to a SortKey, defaulting to symbol.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortName, SortPrice, SortChangePercent, SortChange, SortTimestamp:
		return SortKey(s)
	default:
		return SortSymbol
	}
}

// ParseSortDir maps a query string to a SortDir, defaulting to ascending.
func ParseSortDir(s string) SortDir {
	if SortDir(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// Project computes the filtered, sorted view of the row set. Filtering is a
// case-insensitive substring match of search against symbol or name (empty
// search passes everything). Sorting is stable: numeric keys compare
// numerically, string keys by collation with absent values as empty strings,
// and descending negates the comparison. Pure function of its inputs.
func Project(rows []QuoteRow, search string, key SortKey, dir SortDir) []QuoteRow {
	q := strings.ToLower(strings.TrimSpace(search))

	out := make([]QuoteRow, 0, len(rows))
	for _, r := range rows {
		if q == "" ||
			strings.Contains(strings.ToLower(r.Symbol), q) ||
			strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
		}
	}

	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareRows(col, &out[i], &out[j], key)
		if dir == SortDesc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return out
}

func compareRows(col *collate.Collator, a, b *QuoteRow, key SortKey) int {
	switch key {
	case SortPrice:
		return compareFloat(a.Price, b.Price)
	case SortChangePercent:
		return compareFloat(a.ChangePercent, b.ChangePercent)
	case SortChange:
		return compareFloat(a.Change, b.Change)
	case SortTimestamp:
		return compareFloat(float64(a.Timestamp), float64(b.Timestamp))
	case SortName:
		return col.CompareString(a.Name, b.Name)
	default:
		return col.CompareString(a.Symbol, b.Symbol)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
