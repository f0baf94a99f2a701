package board

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Settings keys in the persistent store.
const (
	settingCredential = "credential"
	settingSymbols    = "symbols"
)

// Status is the refresh lifecycle state of the row set.
type Status string

// Refresh lifecycle states.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// SettingsStore persists the two user-editable strings (credential and raw
// symbol text) across sessions.
type SettingsStore interface {
	// Get returns the stored value for key, or "" when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// HistoryRecorder records the row set of each successful refresh cycle.
type HistoryRecorder interface {
	WriteQuotes(ctx context.Context, rows []QuoteRow) error
}

// State is a point-in-time copy of the board, as pushed to subscribers and
// returned to API handlers.
type State struct {
	Status       Status          `json:"status"`
	Error        string          `json:"error,omitempty"`
	Rows         []QuoteRow      `json:"rows"`
	UpdatedAt    int64           `json:"updatedAt,omitempty"` // epoch seconds
	Credential   string          `json:"credential"`
	SymbolsText  string          `json:"symbols"`
	Selected     string          `json:"selected,omitempty"`
	Chart        []EarningsPoint `json:"chart"`
	ChartLoading bool            `json:"chartLoading,omitempty"`
	AutoRefresh  bool            `json:"autoRefresh"`
}

// Event is pushed to subscribers whenever board state changes.
type Event struct {
	Type  string `json:"type"`
	State State  `json:"state"`
}

// EventState is the only event type; it carries a full state snapshot.
const EventState = "state"

// Options configures a Controller.
type Options struct {
	RefreshEvery   time.Duration // auto-refresh period; 0 means 60s
	DefaultSymbols string        // symbol text used when the store is empty
	DefaultToken   string        // credential used when the store is empty
}

// Controller owns the application state: the persisted settings, the row
// set with its refresh lifecycle, the selection with its chart data, and the
// auto-refresh timer. All mutation goes through its methods; subscribers are
// notified of every change.
//
// Overlapping refreshes are allowed: whichever resolves last determines the
// final row set. Chart fetches carry a generation counter so a stale
// earnings response never overwrites a newer selection.
type Controller struct {
	quotes   *QuoteFetcher
	earnings *EarningsFetcher
	settings SettingsStore
	history  HistoryRecorder // nil disables recording
	log      *slog.Logger

	refreshEvery time.Duration

	mu           sync.Mutex
	credential   string
	symbolsText  string
	rows         []QuoteRow
	status       Status
	errMsg       string
	updatedAt    time.Time
	selected     string
	chart        []EarningsPoint
	chartLoading bool
	chartGen     uint64
	autoRefresh  bool
	timerStop    chan struct{}
	closed       bool

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// NewController creates a Controller, loading the persisted credential and
// symbol text (falling back to the configured defaults when the store holds
// nothing). The auto-refresh timer starts disabled; no initial refresh runs.
func NewController(quotes *QuoteFetcher, earnings *EarningsFetcher, settings SettingsStore, history HistoryRecorder, opts Options, log *slog.Logger) *Controller {
	c := &Controller{
		quotes:       quotes,
		earnings:     earnings,
		settings:     settings,
		history:      history,
		log:          log,
		refreshEvery: opts.RefreshEvery,
		status:       StatusIdle,
		subs:         make(map[int]chan Event),
	}
	if c.refreshEvery <= 0 {
		c.refreshEvery = 60 * time.Second
	}

	ctx := context.Background()
	c.credential = c.loadSetting(ctx, settingCredential, opts.DefaultToken)
	c.symbolsText = c.loadSetting(ctx, settingSymbols, opts.DefaultSymbols)

	return c
}

func (c *Controller) loadSetting(ctx context.Context, key, fallback string) string {
	v, err := c.settings.Get(ctx, key)
	if err != nil {
		c.log.Warn("loading setting", "key", key, "error", err)
		return fallback
	}
	if v == "" {
		return fallback
	}
	return v
}

// ---------------------------------------------------------------------------
// Refresh lifecycle
// ---------------------------------------------------------------------------

// Refresh runs one complete refresh cycle: parse the symbol text, fetch all
// rows, and replace the row set. A failure stores a human-readable message
// and leaves the previous rows untouched. An empty symbol list is a no-op
// and does not transition state. Refresh blocks until the cycle completes;
// concurrent invocations race and the last to resolve wins.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	symbols := ParseSymbols(c.symbolsText)
	token := c.credential
	if len(symbols) == 0 {
		c.mu.Unlock()
		return
	}
	c.status = StatusLoading
	c.errMsg = ""
	c.mu.Unlock()
	c.broadcast()

	rows, err := c.quotes.FetchAll(ctx, symbols, token)

	c.mu.Lock()
	if err != nil {
		c.status = StatusError
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.log.Warn("refresh failed", "symbols", len(symbols), "error", err)
		c.broadcast()
		return
	}
	c.status = StatusLoaded
	c.rows = rows
	c.updatedAt = time.Now()
	c.mu.Unlock()
	c.broadcast()

	if c.history != nil {
		if herr := c.history.WriteQuotes(ctx, rows); herr != nil {
			c.log.Warn("recording quote history", "error", herr)
		}
	}
}

// SetCredential persists a new credential and refreshes the row set. If a
// symbol is selected, its chart is re-fetched with the new credential.
func (c *Controller) SetCredential(ctx context.Context, credential string) {
	c.mu.Lock()
	if credential == c.credential {
		c.mu.Unlock()
		return
	}
	c.credential = credential
	selected := c.selected
	c.mu.Unlock()

	if err := c.settings.Set(ctx, settingCredential, credential); err != nil {
		c.log.Warn("persisting credential", "error", err)
	}

	c.Refresh(ctx)
	if selected != "" {
		c.fetchChart(ctx)
	}
}

// SetSymbolsText persists new raw symbol text and refreshes the row set.
func (c *Controller) SetSymbolsText(ctx context.Context, text string) {
	c.mu.Lock()
	if text == c.symbolsText {
		c.mu.Unlock()
		return
	}
	c.symbolsText = text
	c.mu.Unlock()

	if err := c.settings.Set(ctx, settingSymbols, text); err != nil {
		c.log.Warn("persisting symbols", "error", err)
	}

	c.Refresh(ctx)
}

// ---------------------------------------------------------------------------
// Selection lifecycle
// ---------------------------------------------------------------------------

// Select toggles the selection: selecting an unselected symbol fetches its
// earnings chart; selecting the already-selected symbol deselects it and
// clears the chart without a fetch.
func (c *Controller) Select(ctx context.Context, symbol string) {
	c.mu.Lock()
	if c.selected == symbol {
		c.clearSelectionLocked()
		c.mu.Unlock()
		c.broadcast()
		return
	}
	c.selected = symbol
	c.mu.Unlock()

	c.fetchChart(ctx)
}

// ClearSelection deselects and clears the chart without a fetch.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.clearSelectionLocked()
	c.mu.Unlock()
	c.broadcast()
}

// clearSelectionLocked resets selection state. Must be called with mu held.
func (c *Controller) clearSelectionLocked() {
	c.selected = ""
	c.chart = nil
	c.chartLoading = false
	c.chartGen++
}

// fetchChart loads earnings for the current selection. The generation
// counter discards responses arriving after the selection changed again.
// Earnings failures are swallowed into "no data" rather than surfaced.
func (c *Controller) fetchChart(ctx context.Context) {
	c.mu.Lock()
	symbol := c.selected
	token := c.credential
	c.chartGen++
	gen := c.chartGen
	c.chart = nil
	c.chartLoading = true
	c.mu.Unlock()
	c.broadcast()

	points, err := c.earnings.FetchEarnings(ctx, symbol, token)

	c.mu.Lock()
	if gen != c.chartGen {
		c.mu.Unlock()
		return
	}
	c.chartLoading = false
	if err != nil {
		c.log.Warn("fetching earnings", "symbol", symbol, "error", err)
		c.chart = nil
	} else {
		c.chart = points
	}
	c.mu.Unlock()
	c.broadcast()
}

// ---------------------------------------------------------------------------
// Auto-refresh timer
// ---------------------------------------------------------------------------

// SetAutoRefresh enables or disables the recurring refresh timer. Disabling
// always stops the timer goroutine; no tick fires afterwards.
func (c *Controller) SetAutoRefresh(enabled bool) {
	c.mu.Lock()
	if c.closed || enabled == c.autoRefresh {
		c.mu.Unlock()
		return
	}
	c.autoRefresh = enabled
	if enabled {
		stop := make(chan struct{})
		c.timerStop = stop
		go c.runTimer(stop)
	} else if c.timerStop != nil {
		close(c.timerStop)
		c.timerStop = nil
	}
	c.mu.Unlock()
	c.broadcast()
}

func (c *Controller) runTimer(stop chan struct{}) {
	ticker := time.NewTicker(c.refreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Refresh(context.Background())
		}
	}
}

// Close stops the timer and closes all subscriber channels.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.autoRefresh = false
	if c.timerStop != nil {
		close(c.timerStop)
		c.timerStop = nil
	}
	c.mu.Unlock()

	c.subsMu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()
}

// ---------------------------------------------------------------------------
// State access and pub/sub
// ---------------------------------------------------------------------------

// Snapshot returns a deep copy of the current board state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Rows returns a copy of the current row set for projection.
func (c *Controller) Rows() []QuoteRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]QuoteRow, len(c.rows))
	copy(rows, c.rows)
	return rows
}

// snapshotLocked builds a State copy. Must be called with mu held.
func (c *Controller) snapshotLocked() State {
	s := State{
		Status:       c.status,
		Error:        c.errMsg,
		Rows:         make([]QuoteRow, len(c.rows)),
		Credential:   c.credential,
		SymbolsText:  c.symbolsText,
		Selected:     c.selected,
		ChartLoading: c.chartLoading,
		AutoRefresh:  c.autoRefresh,
	}
	copy(s.Rows, c.rows)
	if !c.updatedAt.IsZero() {
		s.UpdatedAt = c.updatedAt.Unix()
	}
	if c.chart != nil {
		s.Chart = make([]EarningsPoint, len(c.chart))
		copy(s.Chart, c.chart)
	}
	return s
}

// Subscribe returns a channel receiving board events. bufSize controls the
// channel buffer; slow consumers have events dropped.
func (c *Controller) Subscribe(bufSize int) (int, <-chan Event) {
	ch := make(chan Event, bufSize)
	c.subsMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = ch
	c.subsMu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (c *Controller) Unsubscribe(id int) {
	c.subsMu.Lock()
	if ch, ok := c.subs[id]; ok {
		delete(c.subs, id)
		close(ch)
	}
	c.subsMu.Unlock()
}

// broadcast sends the current state to all subscribers non-blocking.
func (c *Controller) broadcast() {
	c.mu.Lock()
	evt := Event{Type: EventState, State: c.snapshotLocked()}
	c.mu.Unlock()

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber — drop event.
		}
	}
}
