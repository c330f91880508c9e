package api

import (
	"net/http"

	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/watchlist"
)

func (s *Server) listWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := watchlist.List(r.Context(), s.repo)
	if err != nil {
		fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.WatchlistEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// AddToWatchlistRequest is the request body for listing a film.
// Priority defaults to medium.
type AddToWatchlistRequest struct {
	FilmID   string `json:"film_id"`
	Priority string `json:"priority,omitempty"`
}

func (s *Server) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req AddToWatchlistRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FilmID == "" {
		writeError(w, http.StatusBadRequest, "film_id is required")
		return
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		p, err := domain.ParsePriority(req.Priority)
		if err != nil {
			fail(w, r, err)
			return
		}
		priority = p
	}

	var e *domain.WatchlistEntry
	err := s.withFilm(r.Context(), req.FilmID, func(tx domain.Repository, f *domain.Film) error {
		var err error
		e, err = watchlist.Add(r.Context(), tx, f, priority)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) clearWatchlist(w http.ResponseWriter, r *http.Request) {
	n, err := watchlist.Clear(r.Context(), s.repo)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

func (s *Server) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	var n int64
	err := s.withFilm(r.Context(), r.PathValue("filmID"), func(tx domain.Repository, f *domain.Film) error {
		var err error
		n, err = watchlist.Remove(r.Context(), tx, f)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": n})
}

// UpdatePriorityRequest is the request body for reprioritizing an entry
type UpdatePriorityRequest struct {
	Priority string `json:"priority"`
}

func (s *Server) updatePriority(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriorityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := domain.ParsePriority(req.Priority)
	if err != nil {
		fail(w, r, err)
		return
	}

	var e *domain.WatchlistEntry
	err = s.withFilm(r.Context(), r.PathValue("filmID"), func(tx domain.Repository, f *domain.Film) error {
		var err error
		e, err = watchlist.UpdatePriority(r.Context(), tx, f, p)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) toggleWatchlist(w http.ResponseWriter, r *http.Request) {
	var listed bool
	err := s.withFilm(r.Context(), r.PathValue("filmID"), func(tx domain.Repository, f *domain.Film) error {
		var err error
		listed, err = watchlist.Toggle(r.Context(), tx, f)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"listed": listed})
}

// MarkAsWatchedRequest is the request body for watching a listed film
type MarkAsWatchedRequest struct {
	Rating int `json:"rating"`
}

func (s *Server) markAsWatched(w http.ResponseWriter, r *http.Request) {
	var req MarkAsWatchedRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var v *domain.ViewingEvent
	err := s.withFilm(r.Context(), r.PathValue("filmID"), func(tx domain.Repository, f *domain.Film) error {
		var err error
		v, err = watchlist.MarkAsWatched(r.Context(), tx, f, req.Rating, s.now())
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}
