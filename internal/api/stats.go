package api

import (
	"net/http"
	"strconv"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/stats"
)

// statsInput loads the viewings selected by the query string and the film index.
// It writes the error response itself and reports false on failure.
func (s *Server) statsInput(w http.ResponseWriter, r *http.Request) ([]domain.ViewingEvent, stats.Films, bool) {
	filter, err := viewingFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	events, films, err := stats.Collect(r.Context(), s.repo, filter)
	if err != nil {
		fail(w, r, err)
		return nil, nil, false
	}
	return events, films, true
}

func (s *Server) statsOverview(w http.ResponseWriter, r *http.Request) {
	events, films, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.ComputeOverview(events, films))
}

func (s *Server) statsGenres(w http.ResponseWriter, r *http.Request) {
	events, films, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": stats.Genres(events, films)})
}

func (s *Server) statsRatings(w http.ResponseWriter, r *http.Request) {
	events, _, ok := s.statsInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ratings": stats.RatingDistribution(events)})
}

// statsMonthly returns per-month stats, or a 12-slot histogram when year is given
func (s *Server) statsMonthly(w http.ResponseWriter, r *http.Request) {
	events, _, ok := s.statsInput(w, r)
	if !ok {
		return
	}

	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"year":   year,
			"counts": stats.MonthlyCounts(events, year),
		})
		return
	}

	lang := s.lang
	if l := r.URL.Query().Get("lang"); l != "" {
		lang = parseLang(l)
	}
	months := stats.Monthly(events, lang)
	if months == nil {
		months = []stats.MonthStat{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

// statsTop ranks films by=rating (default) or by=views
func (s *Server) statsTop(w http.ResponseWriter, r *http.Request) {
	events, films, ok := s.statsInput(w, r)
	if !ok {
		return
	}

	limit := stats.DefaultTopLimit
	if l := r.URL.Query().Get("n"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid n")
			return
		}
		limit = n
	}

	switch by := r.URL.Query().Get("by"); by {
	case "", "rating":
		writeJSON(w, http.StatusOK, map[string]any{"films": stats.TopRated(events, films, limit)})
	case "views":
		writeJSON(w, http.StatusOK, map[string]any{"films": stats.MostWatched(events, films, limit)})
	default:
		writeError(w, http.StatusBadRequest, "by must be rating or views")
	}
}

func (s *Server) statsWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.AllWatchlistEntries(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Watchlist(entries, s.now()))
}
