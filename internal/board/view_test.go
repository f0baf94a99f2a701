package board

import (
	"reflect"
	"testing"
)

func sampleRows() []QuoteRow {
	return []QuoteRow{
		{Symbol: "MSFT", Name: "Microsoft Corp", Price: 410.5, ChangePercent: -0.8, Change: -3.3, Timestamp: 200},
		{Symbol: "AAPL", Name: "Apple Inc", Price: 189.9, ChangePercent: 1.2, Change: 2.3, Timestamp: 100},
		{Symbol: "NVDA", Name: "NVIDIA Corp", Price: 880.0, ChangePercent: 3.4, Change: 29.1, Timestamp: 300},
	}
}

func symbolsOf(rows []QuoteRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func TestProjectFilterCaseInsensitive(t *testing.T) {
	rows := sampleRows()

	got := Project(rows, "apple", SortSymbol, SortAsc)
	if want := []string{"AAPL"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("filter by name: got %v, want %v", symbolsOf(got), want)
	}

	got = Project(rows, "nv", SortSymbol, SortAsc)
	if want := []string{"NVDA"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("filter by symbol fragment: got %v, want %v", symbolsOf(got), want)
	}

	got = Project(rows, "ZZZZ", SortSymbol, SortAsc)
	if len(got) != 0 {
		t.Errorf("no-match filter: got %d rows, want 0", len(got))
	}
}

func TestProjectEmptySearchPassesAll(t *testing.T) {
	rows := sampleRows()
	got := Project(rows, "   ", SortSymbol, SortAsc)
	if len(got) != len(rows) {
		t.Fatalf("blank search: got %d rows, want %d", len(got), len(rows))
	}
	if want := []string{"AAPL", "MSFT", "NVDA"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("symbol sort asc: got %v, want %v", symbolsOf(got), want)
	}
}

func TestProjectNumericSort(t *testing.T) {
	rows := sampleRows()

	got := Project(rows, "", SortPrice, SortAsc)
	if want := []string{"AAPL", "MSFT", "NVDA"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("price asc: got %v, want %v", symbolsOf(got), want)
	}

	got = Project(rows, "", SortChangePercent, SortDesc)
	if want := []string{"NVDA", "AAPL", "MSFT"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("changePercent desc: got %v, want %v", symbolsOf(got), want)
	}

	got = Project(rows, "", SortTimestamp, SortAsc)
	if want := []string{"AAPL", "MSFT", "NVDA"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("timestamp asc: got %v, want %v", symbolsOf(got), want)
	}
}

func TestProjectStringSortAbsentName(t *testing.T) {
	rows := []QuoteRow{
		{Symbol: "BBB", Name: "Beta"},
		{Symbol: "AAA", Name: ""},
	}
	got := Project(rows, "", SortName, SortAsc)
	if want := []string{"AAA", "BBB"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("empty name sorts first: got %v, want %v", symbolsOf(got), want)
	}
}

func TestProjectStableOnTies(t *testing.T) {
	rows := []QuoteRow{
		{Symbol: "AAA", Price: 10},
		{Symbol: "BBB", Price: 10},
		{Symbol: "CCC", Price: 10},
	}
	got := Project(rows, "", SortPrice, SortAsc)
	if want := []string{"AAA", "BBB", "CCC"}; !reflect.DeepEqual(symbolsOf(got), want) {
		t.Errorf("tied keys should keep input order: got %v, want %v", symbolsOf(got), want)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	rows := sampleRows()
	before := symbolsOf(rows)
	Project(rows, "", SortPrice, SortDesc)
	if after := symbolsOf(rows); !reflect.DeepEqual(before, after) {
		t.Errorf("input slice was reordered: %v -> %v", before, after)
	}
}

func TestProjectDeterministic(t *testing.T) {
	rows := sampleRows()
	first := Project(rows, "", SortChange, SortDesc)
	second := Project(rows, "", SortChange, SortDesc)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same inputs produced different projections")
	}
}

func TestParseSortKey(t *testing.T) {
	if got := ParseSortKey("price"); got != SortPrice {
		t.Errorf("ParseSortKey(price) = %q", got)
	}
	if got := ParseSortKey("bogus"); got != SortSymbol {
		t.Errorf("ParseSortKey(bogus) = %q, want symbol default", got)
	}
	if got := ParseSortDir("desc"); got != SortDesc {
		t.Errorf("ParseSortDir(desc) = %q", got)
	}
	if got := ParseSortDir(""); got != SortAsc {
		t.Errorf("ParseSortDir(\"\") = %q, want asc default", got)
	}
}
