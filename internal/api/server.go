package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Server handles HTTP requests for the journal API
type Server struct {
	repo domain.Repository
	addr string
	lang language.Tag
	now  func() time.Time
}

// New creates a new API server
func New(repo domain.Repository, addr string, lang language.Tag) *Server {
	return &Server{repo: repo, addr: addr, lang: lang, now: time.Now}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Films
	mux.HandleFunc("GET /films", s.listFilms)
	mux.HandleFunc("POST /films", s.addFilm)
	mux.HandleFunc("POST /films/import", s.importFilms)
	mux.HandleFunc("GET /films/{id}", s.getFilm)
	mux.HandleFunc("DELETE /films/{id}", s.deleteFilm)
	mux.HandleFunc("POST /films/{id}/viewings", s.recordViewing)
	mux.HandleFunc("DELETE /films/{id}/viewings", s.deleteFilmViewings)

	// Viewings
	mux.HandleFunc("GET /viewings", s.listViewings)
	mux.HandleFunc("PATCH /viewings/{id}", s.updateViewing)
	mux.HandleFunc("DELETE /viewings/{id}", s.deleteViewing)

	// Watchlist
	mux.HandleFunc("GET /watchlist", s.listWatchlist)
	mux.HandleFunc("POST /watchlist", s.addToWatchlist)
	mux.HandleFunc("DELETE /watchlist", s.clearWatchlist)
	mux.HandleFunc("DELETE /watchlist/{filmID}", s.removeFromWatchlist)
	mux.HandleFunc("PATCH /watchlist/{filmID}", s.updatePriority)
	mux.HandleFunc("POST /watchlist/{filmID}/toggle", s.toggleWatchlist)
	mux.HandleFunc("POST /watchlist/{filmID}/watched", s.markAsWatched)

	// Stats
	mux.HandleFunc("GET /stats/overview", s.statsOverview)
	mux.HandleFunc("GET /stats/genres", s.statsGenres)
	mux.HandleFunc("GET /stats/ratings", s.statsRatings)
	mux.HandleFunc("GET /stats/monthly", s.statsMonthly)
	mux.HandleFunc("GET /stats/top", s.statsTop)
	mux.HandleFunc("GET /stats/watchlist", s.statsWatchlist)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withLogging(withCORS(mux))
}

// Run starts the HTTP server
func (s *Server) Run() error {
	logger.Get().WithField("addr", s.addr).Info("Starting server")
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		logger.Get().WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withFilm loads film id and runs fn in the same transaction, so the
// watchlist check and the write that follows it see one state
func (s *Server) withFilm(ctx context.Context, id string, fn func(tx domain.Repository, f *domain.Film) error) error {
	return s.repo.InTx(ctx, func(tx domain.Repository) error {
		f, err := tx.GetFilm(ctx, id)
		if err != nil {
			return err
		}
		return fn(tx, f)
	})
}

// fail maps err to a status code and writes it
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidPriority):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Get().WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
