package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pbaille/cinelog/internal/catalog"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/journal"
	"github.com/pbaille/cinelog/internal/watchlist"
)

// FilmResponse is a film with its derived values
type FilmResponse struct {
	domain.Film
	AverageRating   *float64   `json:"average_rating,omitempty"`
	TotalViewings   int        `json:"total_viewings"`
	IsRewatched     bool       `json:"is_rewatched"`
	LastViewingDate *time.Time `json:"last_viewing_date,omitempty"`
	OnWatchlist     bool       `json:"on_watchlist"`
}

func filmResponse(f *domain.Film) FilmResponse {
	resp := FilmResponse{
		Film:            *f,
		TotalViewings:   f.TotalViewings(),
		IsRewatched:     f.IsRewatched(),
		LastViewingDate: f.LastViewingDate(),
	}
	if avg, ok := f.AverageRating(); ok {
		resp.AverageRating = &avg
	}
	return resp
}

func (s *Server) listFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.repo.AllFilms(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	out := make([]FilmResponse, len(films))
	for i := range films {
		out[i] = filmResponse(&films[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"films": out})
}

// AddFilmRequest is the request body for adding a film by hand
type AddFilmRequest struct {
	ExternalID  int      `json:"external_id"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"poster_path,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Overview    *string  `json:"overview,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Director    *string  `json:"director,omitempty"`
	Cast        []string `json:"cast,omitempty"`
}

func (s *Server) addFilm(w http.ResponseWriter, r *http.Request) {
	var req AddFilmRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.ExternalID <= 0 {
		writeError(w, http.StatusBadRequest, "external_id is required")
		return
	}

	f := domain.Film{
		ExternalID: req.ExternalID,
		Title:      req.Title,
		PosterPath: req.PosterPath,
		Overview:   req.Overview,
		Genres:     req.Genres,
		Director:   req.Director,
		Cast:       req.Cast,
	}
	if req.ReleaseDate != "" {
		t, err := time.Parse(time.DateOnly, req.ReleaseDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "release_date must be YYYY-MM-DD")
			return
		}
		f.ReleaseDate = &t
	}

	var existing *domain.Film
	err := s.repo.InTx(r.Context(), func(tx domain.Repository) error {
		found, err := tx.FilmByExternalID(r.Context(), f.ExternalID)
		switch {
		case err == nil:
			existing = found
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return tx.InsertFilm(r.Context(), &f)
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	if existing != nil {
		writeJSON(w, http.StatusConflict, filmResponse(existing))
		return
	}
	writeJSON(w, http.StatusCreated, filmResponse(&f))
}

// importFilms accepts a TMDB movie document or search response
func (s *Server) importFilms(w http.ResponseWriter, r *http.Request) {
	movies, err := catalog.Decode(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lang := s.lang
	if l := r.URL.Query().Get("lang"); l != "" {
		lang = parseLang(l)
	}

	var imported []catalog.Imported
	err = s.repo.InTx(r.Context(), func(tx domain.Repository) error {
		var err error
		imported, err = catalog.Import(r.Context(), tx, movies, lang)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"imported": imported})
}

func (s *Server) getFilm(w http.ResponseWriter, r *http.Request) {
	f, err := s.repo.GetFilm(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	resp := filmResponse(f)
	if resp.OnWatchlist, err = watchlist.Contains(r.Context(), s.repo, f); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteFilm(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteFilm(r.Context(), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordViewingRequest is the request body for logging a viewing.
// ViewedAt defaults to the current time.
type RecordViewingRequest struct {
	ViewedAt  *time.Time `json:"viewed_at,omitempty"`
	Rating    int        `json:"rating"`
	Notes     *string    `json:"notes,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Companion *string    `json:"companion,omitempty"`
}

func (s *Server) recordViewing(w http.ResponseWriter, r *http.Request) {
	var req RecordViewingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := journal.Viewing{
		ViewedAt:  s.now(),
		Rating:    req.Rating,
		Notes:     req.Notes,
		Location:  req.Location,
		Companion: req.Companion,
	}
	if req.ViewedAt != nil {
		in.ViewedAt = *req.ViewedAt
	}

	// history is read and extended under one transaction
	var v *domain.ViewingEvent
	err := s.withFilm(r.Context(), r.PathValue("id"), func(tx domain.Repository, f *domain.Film) error {
		var err error
		v, err = journal.RecordViewing(r.Context(), tx, f, in)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) deleteFilmViewings(w http.ResponseWriter, r *http.Request) {
	var n int64
	err := s.withFilm(r.Context(), r.PathValue("id"), func(tx domain.Repository, f *domain.Film) error {
		var err error
		n, err = journal.DeleteAllViewings(r.Context(), tx, f)
		return err
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n})
}
