package board

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestFetchEarningsSortedAscending(t *testing.T) {
	fm := newFakeMarket(t)
	fm.handle("/calendar/earnings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"earningsCalendar": [
			{"date": "2026-04-30", "epsEstimate": 2.1, "epsActual": 2.3},
			{"date": "2025-10-30", "epsEstimate": 1.8, "epsActual": 1.9},
			{"date": "2026-01-30", "epsEstimate": 2.0, "epsActual": null}
		]}`)
	})

	f := NewEarningsFetcher(fm.client())
	points, err := f.FetchEarnings(context.Background(), "AAPL", "tok")
	if err != nil {
		t.Fatalf("FetchEarnings: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}

	want := []string{"2025-10-30", "2026-01-30", "2026-04-30"}
	for i, p := range points {
		if p.Date != want[i] {
			t.Errorf("point %d date = %q, want %q", i, p.Date, want[i])
		}
	}
	if points[1].EPSActual != nil {
		t.Errorf("unfiled report should have nil EPSActual, got %v", *points[1].EPSActual)
	}
	if points[0].EPSActual == nil || *points[0].EPSActual != 1.9 {
		t.Errorf("filed report EPSActual wrong: %v", points[0].EPSActual)
	}
}

func TestFetchEarningsEmptyCalendarIsNil(t *testing.T) {
	fm := newFakeMarket(t)
	fm.handle("/calendar/earnings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"earningsCalendar": []}`)
	})

	f := NewEarningsFetcher(fm.client())
	points, err := f.FetchEarnings(context.Background(), "AAPL", "tok")
	if err != nil {
		t.Fatalf("FetchEarnings: %v", err)
	}
	if points != nil {
		t.Errorf("empty calendar should yield nil, got %v", points)
	}
}

func TestFetchEarningsMissingEstimateDefaultsToZero(t *testing.T) {
	fm := newFakeMarket(t)
	fm.handle("/calendar/earnings", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"earningsCalendar": [
			{"date": "2026-01-30", "epsEstimate": null, "epsActual": 1.5}
		]}`)
	})

	f := NewEarningsFetcher(fm.client())
	points, err := f.FetchEarnings(context.Background(), "AAPL", "tok")
	if err != nil {
		t.Fatalf("FetchEarnings: %v", err)
	}
	if points[0].EPSEstimate != 0 {
		t.Errorf("null estimate should default to 0, got %v", points[0].EPSEstimate)
	}
}

func TestFetchEarningsWindow(t *testing.T) {
	fm := newFakeMarket(t)
	var gotFrom, gotTo string
	fm.handle("/calendar/earnings", func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from")
		gotTo = r.URL.Query().Get("to")
		fmt.Fprint(w, `{"earningsCalendar": []}`)
	})

	f := NewEarningsFetcher(fm.client())
	if _, err := f.FetchEarnings(context.Background(), "AAPL", "tok"); err != nil {
		t.Fatalf("FetchEarnings: %v", err)
	}

	now := time.Now().UTC()
	if want := now.Format("2006-01-02"); gotTo != want {
		t.Errorf("to = %q, want %q", gotTo, want)
	}
	if want := now.AddDate(0, 0, -365).Format("2006-01-02"); gotFrom != want {
		t.Errorf("from = %q, want %q", gotFrom, want)
	}
}

func TestFetchEarningsPropagatesRequestError(t *testing.T) {
	fm := newFakeMarket(t)
	fm.handle("/calendar/earnings", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	})

	f := NewEarningsFetcher(fm.client())
	if _, err := f.FetchEarnings(context.Background(), "AAPL", "bad"); err == nil {
		t.Fatalf("expected error on HTTP 401")
	}
}
