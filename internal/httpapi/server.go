// Package httpapi serves the dashboard HTTP JSON API and the WebSocket
// event stream consumed by the browser front end.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"tickboard/internal/board"
)

// HistoryReader reads back recorded quote history.
type HistoryReader interface {
	ReadQuotes(ctx context.Context, symbol string, start, end time.Time) ([]board.QuoteRow, error)
}

// Server serves the dashboard API on top of a board.Controller.
type Server struct {
	board   *board.Controller
	history HistoryReader // nil disables the history endpoint
	log     *slog.Logger
}

// NewServer creates a Server. history may be nil when recording is disabled.
func NewServer(ctrl *board.Controller, history HistoryReader, log *slog.Logger) *Server {
	return &Server{board: ctrl, history: history, log: log}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/board", s.handleBoard)
	mux.HandleFunc("GET /api/quotes", s.handleQuotes)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("PUT /api/settings", s.handleSettings)
	mux.HandleFunc("PUT /api/selection/{symbol}", s.handleSelect)
	mux.HandleFunc("DELETE /api/selection", s.handleClearSelection)
	mux.HandleFunc("PUT /api/autorefresh", s.handleAutoRefresh)
	mux.HandleFunc("GET /api/earnings", s.handleEarnings)
	mux.HandleFunc("GET /api/history/{symbol}", s.handleHistory)
	mux.HandleFunc("GET /api/events", s.handleEvents)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.board.Snapshot())
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	key := board.ParseSortKey(q.Get("sort"))
	dir := board.ParseSortDir(q.Get("dir"))

	rows := board.Project(s.board.Rows(), search, key, dir)

	writeJSON(w, QuotesResponse{Rows: rows, Search: search, Sort: key, Dir: dir})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.board.Refresh(r.Context())
	writeJSON(w, s.board.Snapshot())
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Credential != nil {
		s.board.SetCredential(r.Context(), *req.Credential)
	}
	if req.Symbols != nil {
		s.board.SetSymbolsText(r.Context(), *req.Symbols)
	}

	writeJSON(w, s.board.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.PathValue("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	s.board.Select(r.Context(), symbol)
	writeJSON(w, s.board.Snapshot())
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.board.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var req AutoRefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.board.SetAutoRefresh(req.Enabled)
	writeJSON(w, s.board.Snapshot())
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	state := s.board.Snapshot()
	writeJSON(w, EarningsResponse{Symbol: state.Selected, Points: state.Chart})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history recording disabled")
		return
	}

	symbol := strings.ToUpper(r.PathValue("symbol"))
	q := r.URL.Query()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	if v := q.Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date")
			return
		}
		// Include the whole end day.
		end = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	rows, err := s.history.ReadQuotes(r.Context(), symbol, start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	if rows == nil {
		rows = []board.QuoteRow{}
	}

	writeJSON(w, HistoryResponse{Symbol: symbol, Rows: rows})
}

// handleEvents upgrades to a WebSocket, sends a state snapshot, and streams
// board events until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	subID, ch := s.board.Subscribe(64)
	defer s.board.Unsubscribe(subID)

	s.log.Info("event client subscribed", "subID", subID)

	// Snapshot first, then live events.
	snapshot := board.Event{Type: board.EventState, State: s.board.Snapshot()}
	if err := wsjson.Write(ctx, conn, snapshot); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("event client disconnected", "subID", subID)
			return
		case evt, ok := <-ch:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := wsjson.Write(ctx, conn, evt); err != nil {
				return
			}
		}
	}
}
