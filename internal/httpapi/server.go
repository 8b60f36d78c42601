package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zhezzma/hf-spaces-monitor/internal/history"
)

// Server is a local read-only viewer for the generated dashboard: the
// static docs dir plus a small JSON view of the persisted history.
type Server struct {
	Logger *zap.Logger
	Dir    string // generated artifacts directory
	Store  *history.Store
}

func NewServer(l *zap.Logger, dir string, store *history.Store) *Server {
	return &Server{Logger: l, Dir: dir, Store: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/history", s.handleHistory)
	r.Get("/api/summary", s.handleSummary)
	r.Handle("/*", http.FileServer(http.Dir(s.Dir)))

	return r
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	// reload each request: the monitor may rewrite data.js between calls
	h := s.Store.Load()
	payload, err := h.MarshalOrdered()
	if err != nil {
		s.Logger.Warn("history_marshal_error", zap.Error(err))
		http.Error(w, "history error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

type summaryPayload struct {
	TotalChecks int     `json:"total_checks"`
	SuccessRate float64 `json:"success_rate"` // percent
	LastUpdate  string  `json:"last_update"`
	Entries     int     `json:"entries"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	h := s.Store.Load()
	total, succeeded := h.Totals()

	out := summaryPayload{
		TotalChecks: total,
		LastUpdate:  h.Last(),
		Entries:     len(h.Entries),
	}
	if total > 0 {
		out.SuccessRate = float64(succeeded) / float64(total) * 100
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
